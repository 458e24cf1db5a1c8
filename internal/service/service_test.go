package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/platform/jsonstore"
	"github.com/phrazzld/cardgraph/internal/store"
)

// testEnv bundles a fresh on-disk store with the batch writer wired over
// it, so each test runs against an isolated graph.
type testEnv struct {
	creators store.CreatorStore
	sets     store.SetStore
	cards    store.CardStore
	writer   *BatchWriter
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := jsonstore.Open(t.TempDir(), discardLogger())
	require.NoError(t, err)

	creators := s.Creators()
	sets := s.Sets()
	cards := s.Cards()

	validator, err := NewIntegrityValidator(creators, sets, cards)
	require.NoError(t, err)
	writer, err := NewBatchWriter(creators, sets, cards, validator, discardLogger())
	require.NoError(t, err)

	return &testEnv{creators: creators, sets: sets, cards: cards, writer: writer}
}

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testCreator(id, displayName string) *domain.Creator {
	return &domain.Creator{
		ID:          id,
		DisplayName: displayName,
		SocialLinks: map[string]string{},
		Categories:  []domain.Category{domain.CategoryGeneral},
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func testSet(id, creatorID, title string, modes ...domain.NavigationMode) *domain.ContentSet {
	if len(modes) == 0 {
		modes = []domain.NavigationMode{domain.NavigationTimeline}
	}
	return &domain.ContentSet{
		ID:                  id,
		CreatorID:           creatorID,
		Title:               title,
		Category:            domain.CategoryGeneral,
		SupportedNavigation: modes,
		Status:              domain.SetStatusPublished,
		CreatedAt:           testTime,
		UpdatedAt:           testTime,
	}
}

func testCard(t *testing.T, setID, creatorID string, orderIndex int) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(setID, creatorID, "Card", "", "", orderIndex)
	require.NoError(t, err)
	return card
}

// seedGraph persists a creator and one of its sets directly, bypassing
// the writer, for tests that need existing state.
func seedGraph(t *testing.T, env *testEnv, creator *domain.Creator, sets ...*domain.ContentSet) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.creators.Create(ctx, creator))
	for _, set := range sets {
		require.NoError(t, env.sets.Create(ctx, set))
	}
}
