package store

import (
	"context"

	"github.com/phrazzld/cardgraph/internal/domain"
)

// SetFilter is a predicate over content sets used by SetStore.List.
// A nil filter matches everything.
type SetFilter func(*domain.ContentSet) bool

// SetStore defines the interface for content set persistence.
type SetStore interface {
	// Create saves a new content set to the store.
	// Returns ErrDuplicate if a set with the same ID already exists.
	Create(ctx context.Context, set *domain.ContentSet) error

	// GetByID retrieves a content set by its unique ID.
	// Returns ErrSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id string) (*domain.ContentSet, error)

	// List returns sets matching the filter in insertion order (store
	// order, not sorted). Pass nil to list everything.
	List(ctx context.Context, filter SetFilter) ([]*domain.ContentSet, error)

	// ListByCreator returns all sets owned by the given creator in
	// insertion order.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.ContentSet, error)

	// Update replaces an existing set record in full.
	// Returns ErrSetNotFound if the set does not exist.
	Update(ctx context.Context, set *domain.ContentSet) error

	// Delete removes a set from the store by its ID. Dependent cards are
	// not touched; cascading removal is orchestrated at the service layer.
	// Returns ErrSetNotFound if the set does not exist.
	Delete(ctx context.Context, id string) error
}
