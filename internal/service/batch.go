package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/platform/logger"
	"github.com/phrazzld/cardgraph/internal/store"
)

// Batch is one atomic unit of writes into the content graph. Records of
// all three kinds may travel together; parents referenced by children may
// arrive in the same batch.
type Batch struct {
	Creators []*domain.Creator
	Sets     []*domain.ContentSet
	Cards    []*domain.Card
}

// isEmpty reports whether the batch carries no records at all.
func (b Batch) isEmpty() bool {
	return len(b.Creators) == 0 && len(b.Sets) == 0 && len(b.Cards) == 0
}

// BatchWriter validates and persists batches with all-or-nothing
// semantics: every record in the batch is validated first, and nothing is
// persisted unless all of them pass. Validation failures are collected
// across the whole batch rather than short-circuiting at the first one.
type BatchWriter struct {
	creatorStore store.CreatorStore
	setStore     store.SetStore
	cardStore    store.CardStore
	validator    *IntegrityValidator
	logger       *slog.Logger
}

// NewBatchWriter creates a new BatchWriter with the given dependencies.
// Returns an error if any dependency is nil.
func NewBatchWriter(
	creatorStore store.CreatorStore,
	setStore store.SetStore,
	cardStore store.CardStore,
	validator *IntegrityValidator,
	logger *slog.Logger,
) (*BatchWriter, error) {
	if creatorStore == nil {
		return nil, fmt.Errorf("creator store cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("integrity validator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &BatchWriter{
		creatorStore: creatorStore,
		setStore:     setStore,
		cardStore:    cardStore,
		validator:    validator,
		logger:       logger.With(slog.String("component", "batch_writer")),
	}, nil
}

// WriteAll validates every record in the batch and, only if all of them
// pass, persists them grouped by kind: creators first, then sets, then
// cards, so parents are in place before their children. Records whose IDs
// already exist are replaced in full.
//
// On validation failure it returns a *BatchError listing every rejected
// record and persists nothing. The returned warnings (duplicate display
// names and the like) are advisory and do not block the write.
func (w *BatchWriter) WriteAll(ctx context.Context, batch Batch) ([]string, error) {
	if batch.isEmpty() {
		return nil, ErrEmptyBatch
	}

	// A request-scoped logger in the context takes precedence over the
	// writer's component logger.
	wlog := logger.FromContextOrDefault(ctx, w.logger)

	view := newBatchView(batch)
	var warnings []string
	var failures []RecordFailure

	for _, creator := range batch.Creators {
		warns, err := w.validator.ValidateCreator(ctx, creator, view)
		if err != nil {
			if store.IsStorageError(err) {
				return nil, err
			}
			failures = append(failures, RecordFailure{Kind: "creator", ID: creator.ID, Err: err})
			continue
		}
		warnings = append(warnings, warns...)
	}
	// Two same-named creators in one batch each flag the other; the caller
	// needs the condition reported once.
	warnings = dedupeWarnings(warnings)

	for _, set := range batch.Sets {
		if err := w.validator.ValidateSet(ctx, set, view); err != nil {
			if store.IsStorageError(err) {
				return nil, err
			}
			failures = append(failures, RecordFailure{Kind: "content_set", ID: set.ID, Err: err})
		}
	}

	for _, card := range batch.Cards {
		if err := w.validator.ValidateCard(ctx, card, view); err != nil {
			if store.IsStorageError(err) {
				return nil, err
			}
			failures = append(failures, RecordFailure{Kind: "card", ID: card.ID, Err: err})
		}
	}

	if len(failures) > 0 {
		wlog.Warn("batch rejected",
			slog.Int("failures", len(failures)),
			slog.Int("creators", len(batch.Creators)),
			slog.Int("sets", len(batch.Sets)),
			slog.Int("cards", len(batch.Cards)))
		return warnings, &BatchError{Failures: failures}
	}

	if err := w.commit(ctx, batch); err != nil {
		return warnings, err
	}

	wlog.Info("batch committed",
		slog.Int("creators", len(batch.Creators)),
		slog.Int("sets", len(batch.Sets)),
		slog.Int("cards", len(batch.Cards)),
		slog.Int("warnings", len(warnings)))
	return warnings, nil
}

// dedupeWarnings drops repeated warning messages, keeping first-seen order.
func dedupeWarnings(warnings []string) []string {
	if len(warnings) < 2 {
		return warnings
	}
	seen := make(map[string]bool, len(warnings))
	out := warnings[:0]
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// commit persists an already-validated batch grouped by kind.
func (w *BatchWriter) commit(ctx context.Context, batch Batch) error {
	for _, creator := range batch.Creators {
		if err := w.upsertCreator(ctx, creator); err != nil {
			return fmt.Errorf("failed to persist creator %q: %w", creator.ID, err)
		}
	}

	for _, set := range batch.Sets {
		if err := w.upsertSet(ctx, set); err != nil {
			return fmt.Errorf("failed to persist content set %q: %w", set.ID, err)
		}
	}

	// Cards split into new and replaced so all new cards of the batch land
	// in one container write.
	var created []*domain.Card
	var replaced []*domain.Card
	for _, card := range batch.Cards {
		_, err := w.cardStore.GetByID(ctx, card.ID)
		switch {
		case err == nil:
			replaced = append(replaced, card)
		case store.IsNotFoundError(err):
			created = append(created, card)
		default:
			return fmt.Errorf("failed to look up card %q: %w", card.ID, err)
		}
	}
	if len(created) > 0 {
		if err := w.cardStore.CreateMultiple(ctx, created); err != nil {
			return fmt.Errorf("failed to persist %d new cards: %w", len(created), err)
		}
	}
	for _, card := range replaced {
		if err := w.cardStore.Update(ctx, card); err != nil {
			return fmt.Errorf("failed to persist card %q: %w", card.ID, err)
		}
	}

	return nil
}

func (w *BatchWriter) upsertCreator(ctx context.Context, creator *domain.Creator) error {
	_, err := w.creatorStore.GetByID(ctx, creator.ID)
	if store.IsNotFoundError(err) {
		return w.creatorStore.Create(ctx, creator)
	}
	if err != nil {
		return err
	}
	return w.creatorStore.Update(ctx, creator)
}

func (w *BatchWriter) upsertSet(ctx context.Context, set *domain.ContentSet) error {
	_, err := w.setStore.GetByID(ctx, set.ID)
	if store.IsNotFoundError(err) {
		return w.setStore.Create(ctx, set)
	}
	if err != nil {
		return err
	}
	return w.setStore.Update(ctx, set)
}
