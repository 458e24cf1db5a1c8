package store

import (
	"context"

	"github.com/phrazzld/cardgraph/internal/domain"
)

// CreatorStore defines the interface for creator persistence.
type CreatorStore interface {
	// Create saves a new creator to the store.
	// Returns ErrDuplicate if a creator with the same ID already exists.
	Create(ctx context.Context, creator *domain.Creator) error

	// GetByID retrieves a creator by its unique ID.
	// Returns ErrCreatorNotFound if the creator does not exist.
	GetByID(ctx context.Context, id string) (*domain.Creator, error)

	// GetByDisplayName retrieves the first creator with the given display
	// name (case-insensitive). Display names are not unique; this exists so
	// the integrity validator can flag duplicates as a soft warning.
	// Returns ErrCreatorNotFound if no creator matches.
	GetByDisplayName(ctx context.Context, displayName string) (*domain.Creator, error)

	// List returns all creators in insertion order.
	List(ctx context.Context) ([]*domain.Creator, error)

	// Update replaces an existing creator record in full.
	// Returns ErrCreatorNotFound if the creator does not exist.
	Update(ctx context.Context, creator *domain.Creator) error

	// Delete removes a creator from the store by its ID. It does NOT touch
	// dependent sets or cards; cascading removal is orchestrated explicitly
	// at the service layer so it is never implicit.
	// Returns ErrCreatorNotFound if the creator does not exist.
	Delete(ctx context.Context, id string) error
}
