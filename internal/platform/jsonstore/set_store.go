package jsonstore

import (
	"context"
	"log/slog"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// setStore implements store.SetStore over the content sets container.
type setStore struct {
	c      *container[*domain.ContentSet]
	logger *slog.Logger
}

var _ store.SetStore = (*setStore)(nil)

// Create implements store.SetStore.Create.
func (s *setStore) Create(ctx context.Context, set *domain.ContentSet) error {
	if err := set.Validate(); err != nil {
		return store.NewStoreError("content set", "create", "validation failed", err)
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	for _, rec := range recs {
		if rec.ID == set.ID {
			return store.NewStoreError("content set", "create", set.ID, store.ErrDuplicate)
		}
	}

	recs = append(recs, set.Clone())
	if err := s.c.replace(recs); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "content set created", slog.String("set_id", set.ID))
	return nil
}

// GetByID implements store.SetStore.GetByID.
func (s *setStore) GetByID(ctx context.Context, id string) (*domain.ContentSet, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}

	return nil, store.ErrSetNotFound
}

// List implements store.SetStore.List.
func (s *setStore) List(ctx context.Context, filter store.SetFilter) ([]*domain.ContentSet, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ContentSet, 0, len(recs))
	for _, rec := range recs {
		if filter != nil && !filter(rec) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// ListByCreator implements store.SetStore.ListByCreator.
func (s *setStore) ListByCreator(ctx context.Context, creatorID string) ([]*domain.ContentSet, error) {
	return s.List(ctx, func(set *domain.ContentSet) bool {
		return set.CreatorID == creatorID
	})
}

// Update implements store.SetStore.Update.
func (s *setStore) Update(ctx context.Context, set *domain.ContentSet) error {
	if err := set.Validate(); err != nil {
		return store.NewStoreError("content set", "update", "validation failed", err)
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if rec.ID == set.ID {
			recs[i] = set.Clone()
			if err := s.c.replace(recs); err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "content set updated", slog.String("set_id", set.ID))
			return nil
		}
	}

	return store.ErrSetNotFound
}

// Delete implements store.SetStore.Delete.
func (s *setStore) Delete(ctx context.Context, id string) error {
	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	kept := recs[:0]
	found := false
	for _, rec := range recs {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}

	if !found {
		return store.ErrSetNotFound
	}

	if err := s.c.replace(kept); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "content set deleted", slog.String("set_id", id))
	return nil
}
