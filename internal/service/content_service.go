package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// CreateCreatorResult carries a newly created creator together with any
// advisory warnings (e.g. a duplicate display name).
type CreateCreatorResult struct {
	Creator  *domain.Creator
	Warnings []string
}

// CascadeResult reports what a cascading creator delete removed.
type CascadeResult struct {
	CreatorID    string
	SetsDeleted  int
	CardsDeleted int
}

// ContentService is the write API of the content graph. All mutations
// flow through the batch writer so they share its validation and
// all-or-nothing semantics.
type ContentService interface {
	// CreateCreator validates the payload and persists a new creator.
	// Duplicate display names do not block creation; they are returned as
	// warnings in the result.
	CreateCreator(ctx context.Context, payload CreatorPayload) (*CreateCreatorResult, error)

	// CreateSet validates the payload and persists a new content set. The
	// referenced creator must already exist.
	CreateSet(ctx context.Context, payload SetPayload) (*domain.ContentSet, error)

	// CreateCardsBatch validates and persists a batch of cards atomically:
	// if any payload fails validation, nothing is persisted and the error
	// lists every failure. The card counts of the affected sets are
	// refreshed in the same batch.
	CreateCardsBatch(ctx context.Context, payloads []CardPayload) ([]*domain.Card, error)

	// UpdateCreator replaces an existing creator's record in full.
	UpdateCreator(ctx context.Context, id string, payload CreatorPayload) (*domain.Creator, error)

	// UpdateSet replaces an existing set's record in full. The card count
	// is preserved; it is owned by the card write path.
	UpdateSet(ctx context.Context, id string, payload SetPayload) (*domain.ContentSet, error)

	// UpdateCard replaces an existing card's record in full. Set membership
	// and order index are immutable because the card ID encodes them.
	UpdateCard(ctx context.Context, id string, payload CardPayload) (*domain.Card, error)

	// DeleteCreatorCascade removes a creator together with all of its sets
	// and all of their cards. The fan-out is explicit: cards first, then
	// sets, then the creator, so a partial failure never leaves orphans
	// pointing at a missing parent.
	DeleteCreatorCascade(ctx context.Context, id string) (*CascadeResult, error)
}

// contentServiceImpl implements the ContentService interface.
type contentServiceImpl struct {
	creatorStore store.CreatorStore
	setStore     store.SetStore
	cardStore    store.CardStore
	writer       *BatchWriter
	logger       *slog.Logger
}

// Verify interface satisfaction at compile time.
var _ ContentService = (*contentServiceImpl)(nil)

// NewContentService creates a new ContentService with the given
// dependencies. Returns an error if any dependency is nil.
func NewContentService(
	creatorStore store.CreatorStore,
	setStore store.SetStore,
	cardStore store.CardStore,
	writer *BatchWriter,
	logger *slog.Logger,
) (ContentService, error) {
	if creatorStore == nil {
		return nil, fmt.Errorf("creator store cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("batch writer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &contentServiceImpl{
		creatorStore: creatorStore,
		setStore:     setStore,
		cardStore:    cardStore,
		writer:       writer,
		logger:       logger.With(slog.String("component", "content_service")),
	}, nil
}

func (s *contentServiceImpl) CreateCreator(
	ctx context.Context,
	payload CreatorPayload,
) (*CreateCreatorResult, error) {
	if err := validatePayload("create_creator", payload); err != nil {
		return nil, err
	}

	creator, err := payload.toCreator()
	if err != nil {
		return nil, NewContentServiceError("create_creator", "invalid creator", err)
	}

	warnings, err := s.writer.WriteAll(ctx, Batch{Creators: []*domain.Creator{creator}})
	if err != nil {
		return nil, err
	}

	s.logger.Info("creator created",
		slog.String("creator_id", creator.ID),
		slog.Int("warnings", len(warnings)))
	return &CreateCreatorResult{Creator: creator, Warnings: warnings}, nil
}

func (s *contentServiceImpl) CreateSet(
	ctx context.Context,
	payload SetPayload,
) (*domain.ContentSet, error) {
	if err := validatePayload("create_set", payload); err != nil {
		return nil, err
	}

	set, err := payload.toSet()
	if err != nil {
		return nil, NewContentServiceError("create_set", "invalid content set", err)
	}

	if _, err := s.writer.WriteAll(ctx, Batch{Sets: []*domain.ContentSet{set}}); err != nil {
		return nil, err
	}

	s.logger.Info("content set created",
		slog.String("set_id", set.ID),
		slog.String("creator_id", set.CreatorID))
	return set, nil
}

func (s *contentServiceImpl) CreateCardsBatch(
	ctx context.Context,
	payloads []CardPayload,
) ([]*domain.Card, error) {
	if len(payloads) == 0 {
		return nil, ErrEmptyBatch
	}

	// All payloads are converted before anything is written; conversion
	// failures are collected like integrity failures so the caller sees
	// every bad payload at once.
	var failures []RecordFailure
	cards := make([]*domain.Card, 0, len(payloads))
	for i, payload := range payloads {
		if err := validatePayload("create_cards_batch", payload); err != nil {
			failures = append(failures, RecordFailure{
				Kind: "card",
				ID:   fmt.Sprintf("payload[%d]", i),
				Err:  err,
			})
			continue
		}
		card, err := payload.toCard()
		if err != nil {
			failures = append(failures, RecordFailure{
				Kind: "card",
				ID:   fmt.Sprintf("payload[%d]", i),
				Err:  err,
			})
			continue
		}
		cards = append(cards, card)
	}
	if len(failures) > 0 {
		return nil, &BatchError{Failures: failures}
	}

	sets, err := s.refreshedSets(ctx, cards)
	if err != nil {
		return nil, err
	}

	if _, err := s.writer.WriteAll(ctx, Batch{Sets: sets, Cards: cards}); err != nil {
		return nil, err
	}

	s.logger.Info("card batch created",
		slog.Int("cards", len(cards)),
		slog.Int("sets_touched", len(sets)))
	return cards, nil
}

// refreshedSets loads each distinct set gaining genuinely new cards and
// returns copies with card_count raised accordingly, so the denormalized
// count lands in the same atomic batch. A card whose derived ID already
// exists is a replacement and leaves the count alone. Sets that do not
// exist are skipped; the integrity validator reports them properly.
func (s *contentServiceImpl) refreshedSets(
	ctx context.Context,
	cards []*domain.Card,
) ([]*domain.ContentSet, error) {
	added := make(map[string]int)
	for _, card := range cards {
		_, err := s.cardStore.GetByID(ctx, card.ID)
		switch {
		case err == nil:
			// Ordinal reuse derives an existing ID; the commit replaces the
			// card in place.
		case store.IsNotFoundError(err):
			added[card.SetID]++
		default:
			return nil, err
		}
	}

	var sets []*domain.ContentSet
	for setID, n := range added {
		set, err := s.setStore.GetByID(ctx, setID)
		if store.IsNotFoundError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		set.CardCount += n
		set.Touch()
		sets = append(sets, set)
	}
	return sets, nil
}

func (s *contentServiceImpl) UpdateCreator(
	ctx context.Context,
	id string,
	payload CreatorPayload,
) (*domain.Creator, error) {
	if err := validatePayload("update_creator", payload); err != nil {
		return nil, err
	}

	existing, err := s.creatorStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := payload.applyToCreator(existing)
	if err != nil {
		return nil, NewContentServiceError("update_creator", "invalid creator", err)
	}

	if _, err := s.writer.WriteAll(ctx, Batch{Creators: []*domain.Creator{updated}}); err != nil {
		return nil, err
	}

	s.logger.Info("creator updated", slog.String("creator_id", id))
	return updated, nil
}

func (s *contentServiceImpl) UpdateSet(
	ctx context.Context,
	id string,
	payload SetPayload,
) (*domain.ContentSet, error) {
	if err := validatePayload("update_set", payload); err != nil {
		return nil, err
	}

	existing, err := s.setStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := payload.applyToSet(existing)
	if err != nil {
		return nil, NewContentServiceError("update_set", "invalid content set", err)
	}

	if _, err := s.writer.WriteAll(ctx, Batch{Sets: []*domain.ContentSet{updated}}); err != nil {
		return nil, err
	}

	s.logger.Info("content set updated", slog.String("set_id", id))
	return updated, nil
}

func (s *contentServiceImpl) UpdateCard(
	ctx context.Context,
	id string,
	payload CardPayload,
) (*domain.Card, error) {
	if err := validatePayload("update_card", payload); err != nil {
		return nil, err
	}

	existing, err := s.cardStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := payload.applyToCard(existing)
	if err != nil {
		return nil, NewContentServiceError("update_card", "invalid card", err)
	}

	if _, err := s.writer.WriteAll(ctx, Batch{Cards: []*domain.Card{updated}}); err != nil {
		return nil, err
	}

	s.logger.Info("card updated", slog.String("card_id", id))
	return updated, nil
}

func (s *contentServiceImpl) DeleteCreatorCascade(
	ctx context.Context,
	id string,
) (*CascadeResult, error) {
	if _, err := s.creatorStore.GetByID(ctx, id); err != nil {
		return nil, err
	}

	sets, err := s.setStore.ListByCreator(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &CascadeResult{CreatorID: id}
	for _, set := range sets {
		removed, err := s.cardStore.DeleteBySet(ctx, set.ID)
		if err != nil {
			return nil, NewContentServiceError("delete_creator_cascade",
				fmt.Sprintf("failed to delete cards of set %q", set.ID), err)
		}
		result.CardsDeleted += removed

		if err := s.setStore.Delete(ctx, set.ID); err != nil {
			return nil, NewContentServiceError("delete_creator_cascade",
				fmt.Sprintf("failed to delete set %q", set.ID), err)
		}
		result.SetsDeleted++
	}

	if err := s.creatorStore.Delete(ctx, id); err != nil {
		return nil, NewContentServiceError("delete_creator_cascade",
			"failed to delete creator", err)
	}

	s.logger.Info("creator deleted",
		slog.String("creator_id", id),
		slog.Int("sets_deleted", result.SetsDeleted),
		slog.Int("cards_deleted", result.CardsDeleted))
	return result, nil
}
