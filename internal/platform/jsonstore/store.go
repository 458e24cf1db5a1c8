package jsonstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// Container file names. These match the original persisted layout and must
// not change, or previously migrated data becomes unreachable.
const (
	creatorsFile = "creators.json"
	setsFile     = "content_sets.json"
	cardsFile    = "cards.json"
)

// Store owns the three entity containers of the content graph. It is an
// explicit handle rather than package-level state so tests can run
// isolated stores in parallel.
type Store struct {
	dir      string
	creators *container[*domain.Creator]
	sets     *container[*domain.ContentSet]
	cards    *container[*domain.Card]
	logger   *slog.Logger
}

// Open prepares a Store rooted at the given data directory, creating the
// directory if needed. Containers are loaded lazily on first access.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &store.StorageError{Path: dir, Op: "load", Err: err}
	}

	return &Store{
		dir:      dir,
		creators: newContainer[*domain.Creator](filepath.Join(dir, creatorsFile)),
		sets:     newContainer[*domain.ContentSet](filepath.Join(dir, setsFile)),
		cards:    newContainer[*domain.Card](filepath.Join(dir, cardsFile)),
		logger:   logger.With(slog.String("component", "jsonstore")),
	}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Creators returns the creator store backed by creators.json.
func (s *Store) Creators() store.CreatorStore {
	return &creatorStore{c: s.creators, logger: s.logger}
}

// Sets returns the content set store backed by content_sets.json.
func (s *Store) Sets() store.SetStore {
	return &setStore{c: s.sets, logger: s.logger}
}

// Cards returns the card store backed by cards.json.
func (s *Store) Cards() store.CardStore {
	return &cardStore{c: s.cards, logger: s.logger}
}
