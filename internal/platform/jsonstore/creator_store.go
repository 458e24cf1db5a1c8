package jsonstore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// creatorStore implements store.CreatorStore over the creators container.
type creatorStore struct {
	c      *container[*domain.Creator]
	logger *slog.Logger
}

var _ store.CreatorStore = (*creatorStore)(nil)

// Create implements store.CreatorStore.Create.
func (s *creatorStore) Create(ctx context.Context, creator *domain.Creator) error {
	if err := creator.Validate(); err != nil {
		return store.NewStoreError("creator", "create", "validation failed", err)
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	for _, rec := range recs {
		if rec.ID == creator.ID {
			return store.NewStoreError("creator", "create", creator.ID, store.ErrDuplicate)
		}
	}

	recs = append(recs, creator.Clone())
	if err := s.c.replace(recs); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "creator created", slog.String("creator_id", creator.ID))
	return nil
}

// GetByID implements store.CreatorStore.GetByID.
func (s *creatorStore) GetByID(ctx context.Context, id string) (*domain.Creator, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}

	return nil, store.ErrCreatorNotFound
}

// GetByDisplayName implements store.CreatorStore.GetByDisplayName.
func (s *creatorStore) GetByDisplayName(ctx context.Context, displayName string) (*domain.Creator, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if strings.EqualFold(rec.DisplayName, displayName) {
			return rec.Clone(), nil
		}
	}

	return nil, store.ErrCreatorNotFound
}

// List implements store.CreatorStore.List.
func (s *creatorStore) List(ctx context.Context) ([]*domain.Creator, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Creator, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Update implements store.CreatorStore.Update.
func (s *creatorStore) Update(ctx context.Context, creator *domain.Creator) error {
	if err := creator.Validate(); err != nil {
		return store.NewStoreError("creator", "update", "validation failed", err)
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if rec.ID == creator.ID {
			recs[i] = creator.Clone()
			if err := s.c.replace(recs); err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "creator updated", slog.String("creator_id", creator.ID))
			return nil
		}
	}

	return store.ErrCreatorNotFound
}

// Delete implements store.CreatorStore.Delete.
func (s *creatorStore) Delete(ctx context.Context, id string) error {
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
		return store.ErrCreatorNotFound
	}

	if err := s.c.replace(kept); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "creator deleted", slog.String("creator_id", id))
	return nil
}
