package jsonstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	return s
}

func testCreator(id, name string) *domain.Creator {
	return &domain.Creator{
		ID:          id,
		DisplayName: name,
		Categories:  []domain.Category{domain.CategorySpaceExploration},
	}
}

func testSet(id, creatorID, title string) *domain.ContentSet {
	return &domain.ContentSet{
		ID:                  id,
		CreatorID:           creatorID,
		Title:               title,
		Category:            domain.CategorySpaceExploration,
		SupportedNavigation: []domain.NavigationMode{domain.NavigationTimeline},
		Status:              domain.SetStatusPublished,
	}
}

func testCard(setID, creatorID string, order int) *domain.Card {
	id, _ := domain.NewCardID(setID, order)
	return &domain.Card{
		ID:         id,
		SetID:      setID,
		CreatorID:  creatorID,
		Title:      "card",
		OrderIndex: order,
	}
}

func TestCreatorStoreRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	creators := s.Creators()

	c := testCreator("lunar_explorer_ab12cd34", "Lunar Explorer")
	require.NoError(t, creators.Create(ctx, c))

	got, err := creators.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.DisplayName, got.DisplayName)

	byName, err := creators.GetByDisplayName(ctx, "lunar explorer")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)

	// Duplicate ID is rejected.
	err = creators.Create(ctx, c)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Unknown lookups report not found.
	_, err = creators.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrCreatorNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestCreatorStoreInsertionOrderPreserved(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	creators := s.Creators()

	ids := []string{"zeta_11111111", "alpha_22222222", "mid_33333333"}
	for _, id := range ids {
		require.NoError(t, creators.Create(ctx, testCreator(id, "Creator "+id)))
	}

	listed, err := creators.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, id := range ids {
		assert.Equal(t, id, listed[i].ID, "list must preserve insertion order, not sort")
	}
}

func TestCreatorStoreUpdateAndDelete(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	creators := s.Creators()

	c := testCreator("lunar_explorer_ab12cd34", "Lunar Explorer")
	require.NoError(t, creators.Create(ctx, c))

	c.Description = "updated"
	require.NoError(t, creators.Update(ctx, c))
	got, err := creators.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	require.NoError(t, creators.Delete(ctx, c.ID))
	_, err = creators.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrCreatorNotFound)

	assert.ErrorIs(t, creators.Update(ctx, c), store.ErrCreatorNotFound)
	assert.ErrorIs(t, creators.Delete(ctx, c.ID), store.ErrCreatorNotFound)
}

func TestSetStoreFilters(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	sets := s.Sets()

	a := testSet("set_a", "creator_1", "Set A")
	b := testSet("set_b", "creator_2", "Set B")
	b.Status = domain.SetStatusDraft
	require.NoError(t, sets.Create(ctx, a))
	require.NoError(t, sets.Create(ctx, b))

	published, err := sets.List(ctx, func(set *domain.ContentSet) bool {
		return set.Status == domain.SetStatusPublished
	})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "set_a", published[0].ID)

	byCreator, err := sets.ListByCreator(ctx, "creator_2")
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	assert.Equal(t, "set_b", byCreator[0].ID)

	all, err := sets.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCardStoreCreateMultipleAllOrNothing(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	cards := s.Cards()

	first := testCard("set_a", "creator_1", 1)
	require.NoError(t, cards.CreateMultiple(ctx, []*domain.Card{first}))

	// A batch containing one colliding ID persists nothing.
	dup := testCard("set_a", "creator_1", 1)
	fresh := testCard("set_a", "creator_1", 2)
	err := cards.CreateMultiple(ctx, []*domain.Card{fresh, dup})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = cards.GetByID(ctx, fresh.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound,
		"valid sibling of a rejected batch must not be persisted")
}

func TestCardStoreListBySetSortsByOrderIndex(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	cards := s.Cards()

	batch := []*domain.Card{
		testCard("set_a", "creator_1", 3),
		testCard("set_a", "creator_1", 1),
		testCard("set_b", "creator_1", 5),
		testCard("set_a", "creator_1", 2),
	}
	require.NoError(t, cards.CreateMultiple(ctx, batch))

	got, err := cards.ListBySet(ctx, "set_a")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, card := range got {
		assert.Equal(t, i+1, card.OrderIndex)
	}
}

func TestCardStoreDeleteBySet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	cards := s.Cards()

	require.NoError(t, cards.CreateMultiple(ctx, []*domain.Card{
		testCard("set_a", "creator_1", 1),
		testCard("set_a", "creator_1", 2),
		testCard("set_b", "creator_1", 1),
	}))

	removed, err := cards.DeleteBySet(ctx, "set_a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := cards.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "set_b", remaining[0].SetID)

	// Deleting a set with no cards is a no-op, not an error.
	removed, err = cards.DeleteBySet(ctx, "set_a")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestWritesLeaveNoStagingArtifacts(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := Open(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Creators().Create(ctx, testCreator("c_1", "Creator One")))
	require.NoError(t, s.Sets().Create(ctx, testSet("set_a", "c_1", "Set A")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-",
			"staged temporary files must never survive a completed write")
	}
}

func TestCorruptContainerIsStorageError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, creatorsFile), []byte("{not json"), 0o644))

	s, err := Open(dir, testLogger())
	require.NoError(t, err)

	_, err = s.Creators().List(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsStorageError(err),
		"corrupt container must surface as StorageError, not an empty collection")

	// The error repeats until the file is repaired; the store must not
	// fabricate an empty container.
	err = s.Creators().Create(context.Background(), testCreator("c_1", "Creator One"))
	assert.True(t, store.IsStorageError(err))

	// Other kinds stay operational.
	_, err = s.Sets().List(context.Background(), nil)
	assert.NoError(t, err)
}

func TestMissingContainerIsEmptyCollection(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	listed, err := s.Cards().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestReturnedRecordsDoNotAliasCache(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	creator := testCreator("c_1", "Creator One")
	creator.SocialLinks = map[string]string{"youtube": "@one"}
	require.NoError(t, s.Creators().Create(ctx, creator))

	card := testCard("set_a", "c_1", 1)
	card.DomainData = map[string]any{"fase": "full", "tags": []any{"a", "b"}}
	card.NavigationContexts = map[string]domain.NavigationContext{
		string(domain.NavigationThematic): {
			ContextData: map[string]any{domain.ContextKeyTheme: "engines"},
		},
	}
	require.NoError(t, s.Cards().CreateMultiple(ctx, []*domain.Card{card}))

	// Mutating the inputs after the write must not reach the cache.
	creator.SocialLinks["youtube"] = "@hijacked"
	card.DomainData["fase"] = "hijacked"

	// Mutating a returned record's nested maps must not either.
	got, err := s.Creators().GetByID(ctx, "c_1")
	require.NoError(t, err)
	got.SocialLinks["youtube"] = "@also-hijacked"

	gotCard, err := s.Cards().GetByID(ctx, card.ID)
	require.NoError(t, err)
	gotCard.DomainData["fase"] = "also-hijacked"
	gotCard.NavigationContexts[string(domain.NavigationThematic)].ContextData[domain.ContextKeyTheme] = "fuel"
	gotCard.DomainData["tags"].([]any)[0] = "z"

	fresh, err := s.Creators().GetByID(ctx, "c_1")
	require.NoError(t, err)
	assert.Equal(t, "@one", fresh.SocialLinks["youtube"])

	freshCard, err := s.Cards().GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "full", freshCard.DomainData["fase"])
	assert.Equal(t, "engines",
		freshCard.NavigationContexts[string(domain.NavigationThematic)].ContextData[domain.ContextKeyTheme])
	assert.Equal(t, "a", freshCard.DomainData["tags"].([]any)[0])
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := Open(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, s1.Creators().Create(ctx, testCreator("c_1", "Creator One")))
	require.NoError(t, s1.Cards().CreateMultiple(ctx, []*domain.Card{testCard("set_a", "c_1", 1)}))

	s2, err := Open(dir, testLogger())
	require.NoError(t, err)

	got, err := s2.Creators().GetByID(ctx, "c_1")
	require.NoError(t, err)
	assert.Equal(t, "Creator One", got.DisplayName)

	cardsBySet, err := s2.Cards().ListBySet(ctx, "set_a")
	require.NoError(t, err)
	assert.Len(t, cardsBySet, 1)
}
