package jsonstore

import (
	"context"
	"log/slog"
	"sort"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// cardStore implements store.CardStore over the cards container.
type cardStore struct {
	c      *container[*domain.Card]
	logger *slog.Logger
}

var _ store.CardStore = (*cardStore)(nil)

// CreateMultiple implements store.CardStore.CreateMultiple. The whole
// batch lands in one container write; if any card ID already exists the
// entire call is rejected and nothing is persisted.
func (s *cardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return store.NewStoreError("card", "create", "validation failed", err)
		}
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		existing[rec.ID] = struct{}{}
	}

	for _, card := range cards {
		if _, ok := existing[card.ID]; ok {
			return store.NewStoreError("card", "create", card.ID, store.ErrDuplicate)
		}
		existing[card.ID] = struct{}{}
	}

	for _, card := range cards {
		recs = append(recs, card.Clone())
	}

	if err := s.c.replace(recs); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "cards created", slog.Int("card_count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *cardStore) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	for _, rec := range recs {
		if rec.ID == id {
			return rec.Clone(), nil
		}
	}

	return nil, store.ErrCardNotFound
}

// ListBySet implements store.CardStore.ListBySet. Results are sorted by
// order index, matching how the original containers were consumed.
func (s *cardStore) ListBySet(ctx context.Context, setID string) ([]*domain.Card, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Card, 0, len(recs))
	for _, rec := range recs {
		if rec.SetID == setID {
			out = append(out, rec.Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})

	return out, nil
}

// List implements store.CardStore.List.
func (s *cardStore) List(ctx context.Context) ([]*domain.Card, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Card, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Update implements store.CardStore.Update.
func (s *cardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return store.NewStoreError("card", "update", "validation failed", err)
	}

	recs, err := s.c.snapshot()
	if err != nil {
		return err
	}

	for i, rec := range recs {
		if rec.ID == card.ID {
			recs[i] = card.Clone()
			if err := s.c.replace(recs); err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "card updated", slog.String("card_id", card.ID))
			return nil
		}
	}

	return store.ErrCardNotFound
}

// Delete implements store.CardStore.Delete.
func (s *cardStore) Delete(ctx context.Context, id string) error {
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
		return store.ErrCardNotFound
	}

	if err := s.c.replace(kept); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "card deleted", slog.String("card_id", id))
	return nil
}

// DeleteBySet implements store.CardStore.DeleteBySet.
func (s *cardStore) DeleteBySet(ctx context.Context, setID string) (int, error) {
	recs, err := s.c.snapshot()
	if err != nil {
		return 0, err
	}

	kept := recs[:0]
	removed := 0
	for _, rec := range recs {
		if rec.SetID == setID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}

	if removed == 0 {
		return 0, nil
	}

	if err := s.c.replace(kept); err != nil {
		return 0, err
	}

	s.logger.DebugContext(ctx, "cards deleted by set",
		slog.String("set_id", setID),
		slog.Int("card_count", removed))
	return removed, nil
}
