package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

// Position locates one card inside a navigation sequence. PrevID and
// NextID are nil at the ends of a non-cyclic sequence and always nil for
// a single-card set.
type Position struct {
	Index  int     `json:"index"`
	Total  int     `json:"total"`
	PrevID *string `json:"prev_id"`
	NextID *string `json:"next_id"`
}

// NavigationService orders a set's cards under its declared navigation
// modes. Sequences are computed on demand from the persisted cards; the
// random mode is deterministic per (set, session) so a viewer can step
// back and forth through the same shuffle.
type NavigationService interface {
	// Sequence returns the ordered card IDs of the set under the given
	// mode. The session ID only affects the random mode.
	// Returns an UnsupportedModeError if the set does not declare the mode.
	Sequence(
		ctx context.Context,
		setID string,
		mode domain.NavigationMode,
		session uuid.UUID,
	) ([]string, error)

	// PositionOf locates a card within the set's sequence under the given
	// mode, with its predecessor and successor card IDs.
	PositionOf(
		ctx context.Context,
		setID string,
		mode domain.NavigationMode,
		cardID string,
		session uuid.UUID,
	) (*Position, error)
}

// navigationServiceImpl implements the NavigationService interface.
type navigationServiceImpl struct {
	setStore  store.SetStore
	cardStore store.CardStore
	logger    *slog.Logger
	cyclic    bool
}

// Verify interface satisfaction at compile time.
var _ NavigationService = (*navigationServiceImpl)(nil)

// NavigationOption configures a NavigationService.
type NavigationOption func(*navigationServiceImpl)

// WithCyclicNavigation makes prev/next wrap around at sequence ends
// instead of reporting nil.
func WithCyclicNavigation(cyclic bool) NavigationOption {
	return func(s *navigationServiceImpl) {
		s.cyclic = cyclic
	}
}

// NewNavigationService creates a new NavigationService with the given
// dependencies. Returns an error if any dependency is nil.
func NewNavigationService(
	setStore store.SetStore,
	cardStore store.CardStore,
	logger *slog.Logger,
	opts ...NavigationOption,
) (NavigationService, error) {
	if setStore == nil {
		return nil, fmt.Errorf("set store cannot be nil")
	}
	if cardStore == nil {
		return nil, fmt.Errorf("card store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	svc := &navigationServiceImpl{
		setStore:  setStore,
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "navigation_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *navigationServiceImpl) Sequence(
	ctx context.Context,
	setID string,
	mode domain.NavigationMode,
	session uuid.UUID,
) ([]string, error) {
	cards, err := s.orderedCards(ctx, setID, mode, session)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}
	return ids, nil
}

func (s *navigationServiceImpl) PositionOf(
	ctx context.Context,
	setID string,
	mode domain.NavigationMode,
	cardID string,
	session uuid.UUID,
) (*Position, error) {
	ids, err := s.Sequence(ctx, setID, mode, session)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, id := range ids {
		if id == cardID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: card %q is not in set %q", store.ErrCardNotFound, cardID, setID)
	}

	pos := &Position{Index: index, Total: len(ids)}
	if len(ids) < 2 {
		return pos, nil
	}
	if index > 0 {
		pos.PrevID = &ids[index-1]
	} else if s.cyclic {
		pos.PrevID = &ids[len(ids)-1]
	}
	if index < len(ids)-1 {
		pos.NextID = &ids[index+1]
	} else if s.cyclic {
		pos.NextID = &ids[0]
	}
	return pos, nil
}

// orderedCards loads the set's cards and applies the mode's ordering. The
// base order is always order_index ascending; every mode-specific sort is
// stable over it so ties resolve deterministically.
func (s *navigationServiceImpl) orderedCards(
	ctx context.Context,
	setID string,
	mode domain.NavigationMode,
	session uuid.UUID,
) ([]*domain.Card, error) {
	set, err := s.setStore.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if !mode.IsValid() || !set.SupportsNavigation(mode) {
		return nil, &UnsupportedModeError{SetID: setID, Mode: mode}
	}

	cards, err := s.cardStore.ListBySet(ctx, setID)
	if err != nil {
		return nil, err
	}

	switch mode {
	case domain.NavigationTimeline:
		sortTimeline(cards)
	case domain.NavigationThematic:
		cards = groupThematic(cards)
	case domain.NavigationDifficulty:
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Difficulty() < cards[j].Difficulty()
		})
	case domain.NavigationRandom:
		shuffleDeterministic(cards, setID, mode, session)
	}
	return cards, nil
}

// sortTimeline orders by chronological key ascending. Cards without a key
// fall back to their order index, which keeps unlabeled sets in authoring
// order.
func sortTimeline(cards []*domain.Card) {
	key := func(c *domain.Card) float64 {
		if k, ok := c.ChronologicalKey(); ok {
			return k
		}
		return float64(c.OrderIndex)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return key(cards[i]) < key(cards[j])
	})
}

// groupThematic clusters cards by theme label, themes ordered by first
// appearance and cards within a theme keeping their relative order.
// Cards without a theme form their own empty-label group.
func groupThematic(cards []*domain.Card) []*domain.Card {
	groups := make(map[string][]*domain.Card)
	var themes []string
	for _, card := range cards {
		theme := card.Theme()
		if _, seen := groups[theme]; !seen {
			themes = append(themes, theme)
		}
		groups[theme] = append(groups[theme], card)
	}

	out := make([]*domain.Card, 0, len(cards))
	for _, theme := range themes {
		out = append(out, groups[theme]...)
	}
	return out
}

// shuffleDeterministic permutes the cards with a seed derived from the
// set, mode, and session, so the same session always sees the same
// shuffle and a new session sees a fresh one.
func shuffleDeterministic(
	cards []*domain.Card,
	setID string,
	mode domain.NavigationMode,
	session uuid.UUID,
) {
	h := fnv.New64a()
	h.Write([]byte(setID))
	h.Write([]byte{'|'})
	h.Write([]byte(mode))
	h.Write([]byte{'|'})
	h.Write([]byte(session.String()))

	r := rand.New(rand.NewSource(int64(h.Sum64())))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
