package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// batchView indexes the records pending in a batch so reference checks
// resolve against the union of the persisted stores and the batch itself:
// a card may reference a set that arrives in the same batch.
type batchView struct {
	creators   map[string]*domain.Creator
	sets       map[string]*domain.ContentSet
	cardsBySet map[string][]*domain.Card
}

func newBatchView(batch Batch) *batchView {
	view := &batchView{
		creators:   make(map[string]*domain.Creator, len(batch.Creators)),
		sets:       make(map[string]*domain.ContentSet, len(batch.Sets)),
		cardsBySet: make(map[string][]*domain.Card),
	}
	for _, c := range batch.Creators {
		view.creators[c.ID] = c
	}
	for _, s := range batch.Sets {
		view.sets[s.ID] = s
	}
	for _, card := range batch.Cards {
		view.cardsBySet[card.SetID] = append(view.cardsBySet[card.SetID], card)
	}
	return view
}

// IntegrityValidator checks referential integrity of records before they
// are written: dangling parent references, hero uniqueness, denormalized
// creator consistency, and order index collisions. It never mutates the
// stores.
type IntegrityValidator struct {
	creatorStore store.CreatorStore
	setStore     store.SetStore
	cardStore    store.CardStore
}

// NewIntegrityValidator creates a new IntegrityValidator over the given
// stores. Returns an error if any store is nil.
func NewIntegrityValidator(
	creatorStore store.CreatorStore,
	setStore store.SetStore,
	cardStore store.CardStore,
) (*IntegrityValidator, error) {
	if creatorStore == nil {
		return nil, fmt.Errorf("creator store cannot be nil")
	}
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	return &IntegrityValidator{
		creatorStore: creatorStore,
		setStore:     setStore,
		cardStore:    cardStore,
	}, nil
}

// ValidateCreator checks a creator record. Duplicate display names are
// legal but suspicious, so they come back as warnings rather than errors.
// The returned error is nil unless the record itself is invalid or a
// store read failed.
func (v *IntegrityValidator) ValidateCreator(
	ctx context.Context,
	creator *domain.Creator,
	view *batchView,
) ([]string, error) {
	if err := creator.Validate(); err != nil {
		return nil, err
	}

	var warnings []string

	existing, err := v.creatorStore.GetByDisplayName(ctx, creator.DisplayName)
	if err != nil && !store.IsNotFoundError(err) {
		return nil, err
	}
	if err == nil && existing.ID != creator.ID {
		warnings = append(warnings, fmt.Sprintf(
			"display name %q is already used by creator %q", creator.DisplayName, existing.ID))
	}

	for _, other := range view.creators {
		if other.ID != creator.ID && strings.EqualFold(other.DisplayName, creator.DisplayName) {
			warnings = append(warnings, fmt.Sprintf(
				"display name %q appears more than once in this batch", creator.DisplayName))
			break
		}
	}

	return warnings, nil
}

// ValidateSet checks a content set record: its creator must exist in the
// store or arrive in the same batch, and at most one set in the whole
// graph may carry the hero flag.
func (v *IntegrityValidator) ValidateSet(
	ctx context.Context,
	set *domain.ContentSet,
	view *batchView,
) error {
	if err := set.Validate(); err != nil {
		return err
	}

	if _, inBatch := view.creators[set.CreatorID]; !inBatch {
		_, err := v.creatorStore.GetByID(ctx, set.CreatorID)
		if store.IsNotFoundError(err) {
			return NewIntegrityError("content_set", set.ID, "creator_id",
				fmt.Sprintf("creator %q does not exist", set.CreatorID))
		}
		if err != nil {
			return err
		}
	}

	if set.IsHero {
		if err := v.checkHeroUniqueness(ctx, set, view); err != nil {
			return err
		}
	}

	return v.checkOwnershipTransfer(ctx, set, view)
}

// checkOwnershipTransfer rejects a creator change on an existing set while
// any of its persisted cards still denormalizes the old creator. The
// transfer is allowed only when the same batch rewrites every such card to
// the new creator, so set and cards never disagree about their owner.
func (v *IntegrityValidator) checkOwnershipTransfer(
	ctx context.Context,
	set *domain.ContentSet,
	view *batchView,
) error {
	stored, err := v.setStore.GetByID(ctx, set.ID)
	if store.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if stored.CreatorID == set.CreatorID {
		return nil
	}

	replacements := make(map[string]*domain.Card)
	for _, pending := range view.cardsBySet[set.ID] {
		replacements[pending.ID] = pending
	}

	cards, err := v.cardStore.ListBySet(ctx, set.ID)
	if err != nil {
		return err
	}
	for _, card := range cards {
		replacement, ok := replacements[card.ID]
		if !ok || replacement.CreatorID != set.CreatorID {
			return NewIntegrityError("content_set", set.ID, "creator_id",
				fmt.Sprintf("cannot move set to creator %q: card %q still belongs to %q",
					set.CreatorID, card.ID, card.CreatorID))
		}
	}
	return nil
}

// checkHeroUniqueness rejects a hero-flagged set when any other set, in
// the store or in the batch, already carries the flag. The set being
// validated is excluded so re-writing the current hero stays legal.
func (v *IntegrityValidator) checkHeroUniqueness(
	ctx context.Context,
	set *domain.ContentSet,
	view *batchView,
) error {
	heroes, err := v.setStore.List(ctx, func(s *domain.ContentSet) bool {
		return s.IsHero && s.ID != set.ID
	})
	if err != nil {
		return err
	}
	for _, other := range heroes {
		// A store hero being demoted in this same batch does not count.
		if replacement, ok := view.sets[other.ID]; ok && !replacement.IsHero {
			continue
		}
		return NewIntegrityError("content_set", set.ID, "is_hero",
			fmt.Sprintf("set %q is already the hero", other.ID))
	}
	for _, other := range view.sets {
		if other.ID != set.ID && other.IsHero {
			return NewIntegrityError("content_set", set.ID, "is_hero",
				fmt.Sprintf("set %q in the same batch also claims the hero flag", other.ID))
		}
	}
	return nil
}

// ValidateCard checks a card record: its set must exist (store or batch),
// its denormalized creator ID must match the owning set's, and its order
// index must be unique within the set, counting both persisted cards and
// other cards in the batch.
func (v *IntegrityValidator) ValidateCard(
	ctx context.Context,
	card *domain.Card,
	view *batchView,
) error {
	if err := card.Validate(); err != nil {
		return err
	}

	owner, inBatch := view.sets[card.SetID]
	if !inBatch {
		stored, err := v.setStore.GetByID(ctx, card.SetID)
		if store.IsNotFoundError(err) {
			return NewIntegrityError("card", card.ID, "set_id",
				fmt.Sprintf("set %q does not exist", card.SetID))
		}
		if err != nil {
			return err
		}
		owner = stored
	}

	if owner.CreatorID != card.CreatorID {
		return NewIntegrityError("card", card.ID, "creator_id",
			fmt.Sprintf("card creator %q does not match set creator %q", card.CreatorID, owner.CreatorID))
	}

	siblings, err := v.cardStore.ListBySet(ctx, card.SetID)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.ID != card.ID && sibling.OrderIndex == card.OrderIndex {
			return NewIntegrityError("card", card.ID, "order_index",
				fmt.Sprintf("order index %d is already taken by card %q", card.OrderIndex, sibling.ID))
		}
	}
	for _, pending := range view.cardsBySet[card.SetID] {
		if pending == card {
			continue
		}
		if pending.ID == card.ID {
			return NewIntegrityError("card", card.ID, "card_id",
				"duplicate card ID within the batch")
		}
		if pending.OrderIndex == card.OrderIndex {
			return NewIntegrityError("card", card.ID, "order_index",
				fmt.Sprintf("order index %d collides with another card in the batch", card.OrderIndex))
		}
	}

	return nil
}
