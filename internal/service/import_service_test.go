package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cardgraph/internal/domain"
)

func newImporter(t *testing.T, env *testEnv) ImportService {
	t.Helper()
	svc, err := NewImportService(
		env.creators, env.sets, env.cards, env.writer, DefaultImporterConfig(), discardLogger())
	require.NoError(t, err)
	return svc
}

func TestLegacyCardUnmarshalSplitsKnownAndExtraFields(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 7,
		"titulo": "Mare Tranquillitatis",
		"resumo": "A lunar sea.",
		"detalhado": "Site of the first crewed landing.",
		"video_url": "https://example.com/v/7",
		"coordenadas": {"lat": 8.5, "lon": 31.4},
		"fase": "full"
	}`

	var card LegacyCard
	require.NoError(t, json.Unmarshal([]byte(raw), &card))

	assert.Equal(t, 7, card.ID)
	assert.Equal(t, "Mare Tranquillitatis", card.Title)
	assert.Equal(t, "A lunar sea.", card.Summary)
	assert.Equal(t, "Site of the first crewed landing.", card.DetailedContent)
	assert.Equal(t, "https://example.com/v/7", card.VideoURL)
	require.NotNil(t, card.Extra)
	assert.Equal(t, "full", card.Extra["fase"])
	assert.Contains(t, card.Extra, "coordenadas")
	assert.NotContains(t, card.Extra, "titulo", "lifted fields must not duplicate into extra")
}

func TestImportArchiveCreatesGraph(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newImporter(t, env)
	ctx := context.Background()

	archive := LegacyArchive{Cards: []LegacyCard{
		{ID: 1, Title: "One", Summary: "First.", VideoURL: "https://example.com/v/1"},
		{ID: 2, Title: "Two", DetailedContent: "Second, at length."},
		{ID: 3, Title: "Three", Extra: map[string]any{"fase": "new"}},
	}}

	result, err := svc.ImportArchive(ctx, archive)

	require.NoError(t, err)
	assert.True(t, result.CreatorCreated)
	assert.True(t, result.SetCreated)
	assert.Equal(t, 3, result.CardsImported)
	assert.Zero(t, result.CardsSkipped)

	cfg := DefaultImporterConfig()
	set, err := env.sets.GetByID(ctx, cfg.SetID)
	require.NoError(t, err)
	assert.Equal(t, cfg.CreatorID, set.CreatorID)
	assert.Equal(t, 3, set.CardCount)
	assert.Equal(t, domain.SetStatusPublished, set.Status)

	// Card IDs derive from the archive ordinals.
	first, err := env.cards.GetByID(ctx, cfg.SetID+"_card_001")
	require.NoError(t, err)
	assert.Equal(t, "One", first.Title)
	require.Len(t, first.Media, 1)
	assert.Equal(t, domain.MediaTypeVideo, first.Media[0].MediaType)
	assert.Equal(t, domain.MediaValidationPending, first.Media[0].ValidationStatus)

	third, err := env.cards.GetByID(ctx, cfg.SetID+"_card_003")
	require.NoError(t, err)
	assert.Equal(t, "new", third.DomainData["fase"])
}

func TestImportArchiveTenCards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newImporter(t, env)
	ctx := context.Background()

	archive := LegacyArchive{}
	for i := 1; i <= 10; i++ {
		archive.Cards = append(archive.Cards, LegacyCard{ID: i, Title: "Card"})
	}

	result, err := svc.ImportArchive(ctx, archive)
	require.NoError(t, err)
	assert.Equal(t, 10, result.CardsImported)

	creators, err := env.creators.List(ctx)
	require.NoError(t, err)
	assert.Len(t, creators, 1)

	sets, err := env.sets.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 10, sets[0].CardCount)

	cards, err := env.cards.ListBySet(ctx, sets[0].ID)
	require.NoError(t, err)
	require.Len(t, cards, 10)
	for i, card := range cards {
		assert.Equal(t, i+1, card.OrderIndex, "order indexes must run contiguously")
	}
}

func TestImportArchiveIsIdempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newImporter(t, env)
	ctx := context.Background()

	archive := LegacyArchive{Cards: []LegacyCard{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two"},
	}}

	_, err := svc.ImportArchive(ctx, archive)
	require.NoError(t, err)

	second, err := svc.ImportArchive(ctx, archive)
	require.NoError(t, err)
	assert.False(t, second.CreatorCreated)
	assert.False(t, second.SetCreated)
	assert.Zero(t, second.CardsImported)
	assert.Equal(t, 2, second.CardsSkipped)

	set, err := env.sets.GetByID(ctx, DefaultImporterConfig().SetID)
	require.NoError(t, err)
	assert.Equal(t, 2, set.CardCount, "a re-run must not inflate the card count")

	cards, err := env.cards.ListBySet(ctx, set.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestImportArchivePicksUpNewCardsOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newImporter(t, env)
	ctx := context.Background()

	_, err := svc.ImportArchive(ctx, LegacyArchive{Cards: []LegacyCard{
		{ID: 1, Title: "One"},
	}})
	require.NoError(t, err)

	// The grown archive re-delivers card 1 alongside a new card 2.
	result, err := svc.ImportArchive(ctx, LegacyArchive{Cards: []LegacyCard{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CardsImported)
	assert.Equal(t, 1, result.CardsSkipped)

	set, err := env.sets.GetByID(ctx, DefaultImporterConfig().SetID)
	require.NoError(t, err)
	assert.Equal(t, 2, set.CardCount)
}

func TestImportArchiveRejectsBadRecordsAtomically(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newImporter(t, env)
	ctx := context.Background()

	_, err := svc.ImportArchive(ctx, LegacyArchive{Cards: []LegacyCard{
		{ID: 1, Title: "Good"},
		{ID: 0, Title: "Bad ordinal"},
		{ID: 2, Title: ""},
	}})

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Len(t, batchErr.Failures, 2)

	// Nothing was persisted, not even the synthetic creator and set.
	cards, listErr := env.cards.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, cards)
	sets, listErr := env.sets.List(ctx, nil)
	require.NoError(t, listErr)
	assert.Empty(t, sets)
}
