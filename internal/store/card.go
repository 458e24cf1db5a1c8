package store

import (
	"context"

	"github.com/phrazzld/cardgraph/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// CreateMultiple saves multiple cards to the store in one container
	// write. Callers are expected to have validated the whole batch first:
	// the store rejects the entire call with ErrDuplicate if any card ID is
	// already present, so a half-validated batch is never half-applied.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id string) (*domain.Card, error)

	// ListBySet returns all cards belonging to the given set, sorted by
	// order index.
	ListBySet(ctx context.Context, setID string) ([]*domain.Card, error)

	// List returns all cards in insertion order.
	List(ctx context.Context) ([]*domain.Card, error)

	// Update replaces an existing card record in full.
	// Returns ErrCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteBySet removes every card belonging to the given set in one
	// container write and returns the number removed. Used by the explicit
	// cascading delete fan-out.
	DeleteBySet(ctx context.Context, setID string) (int, error)
}
