package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cardgraph/internal/domain"
	"github.com/phrazzld/cardgraph/internal/store"
)

func newNavService(t *testing.T, env *testEnv, opts ...NavigationOption) NavigationService {
	t.Helper()
	svc, err := NewNavigationService(env.sets, env.cards, discardLogger(), opts...)
	require.NoError(t, err)
	return svc
}

// seedNavSet persists a set supporting every mode plus its cards built
// from (theme, chronologicalKey, difficulty) triples in authoring order.
func seedNavSet(t *testing.T, env *testEnv, specs []navCardSpec) *domain.ContentSet {
	t.Helper()
	ctx := context.Background()

	set := testSet("ava_chen_nav", "ava_chen", "Nav",
		domain.NavigationTimeline, domain.NavigationThematic,
		domain.NavigationDifficulty, domain.NavigationRandom)
	seedGraph(t, env, testCreator("ava_chen", "Ava Chen"), set)

	cards := make([]*domain.Card, len(specs))
	for i, spec := range specs {
		card := testCard(t, set.ID, "ava_chen", i+1)
		card.NavigationContexts = map[string]domain.NavigationContext{}
		if spec.theme != "" {
			card.NavigationContexts[string(domain.NavigationThematic)] = domain.NavigationContext{
				ContextData: map[string]any{domain.ContextKeyTheme: spec.theme},
			}
		}
		if spec.chrono != 0 {
			card.NavigationContexts[string(domain.NavigationTimeline)] = domain.NavigationContext{
				ContextData: map[string]any{domain.ContextKeyChronological: spec.chrono},
			}
		}
		if spec.difficulty != "" {
			card.NavigationContexts[string(domain.NavigationDifficulty)] = domain.NavigationContext{
				ContextData: map[string]any{domain.ContextKeyDifficulty: spec.difficulty},
			}
		}
		cards[i] = card
	}
	require.NoError(t, env.cards.CreateMultiple(ctx, cards))
	return set
}

type navCardSpec struct {
	theme      string
	chrono     float64
	difficulty string
}

func cardID(setID string, ordinal int) string {
	id, _ := domain.NewCardID(setID, ordinal)
	return id
}

func TestSequenceTimeline(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	// Chronological keys deliberately disagree with authoring order.
	set := seedNavSet(t, env, []navCardSpec{
		{chrono: 30},
		{chrono: 10},
		{chrono: 20},
	})

	ids, err := svc.Sequence(context.Background(), set.ID, domain.NavigationTimeline, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		cardID(set.ID, 2), cardID(set.ID, 3), cardID(set.ID, 1),
	}, ids)
}

func TestSequenceTimelineFallsBackToOrderIndex(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	// No chronological keys at all: authoring order wins.
	set := seedNavSet(t, env, []navCardSpec{{}, {}, {}})

	ids, err := svc.Sequence(context.Background(), set.ID, domain.NavigationTimeline, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		cardID(set.ID, 1), cardID(set.ID, 2), cardID(set.ID, 3),
	}, ids)
}

func TestSequenceThematicKeepsContiguousGroups(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	set := seedNavSet(t, env, []navCardSpec{
		{theme: "engines"},
		{theme: "engines"},
		{theme: "fuel"},
	})

	ids, err := svc.Sequence(context.Background(), set.ID, domain.NavigationThematic, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		cardID(set.ID, 1), cardID(set.ID, 2), cardID(set.ID, 3),
	}, ids)
}

func TestSequenceThematicRegroupsInterleavedThemes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	// Themes interleave in authoring order; the sequence clusters them,
	// themes ordered by first appearance.
	set := seedNavSet(t, env, []navCardSpec{
		{theme: "engines"},
		{theme: "fuel"},
		{theme: "engines"},
	})

	ids, err := svc.Sequence(context.Background(), set.ID, domain.NavigationThematic, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		cardID(set.ID, 1), cardID(set.ID, 3), cardID(set.ID, 2),
	}, ids)
}

func TestSequenceDifficulty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	// Unlabeled cards sort as intermediate, between beginner and advanced.
	set := seedNavSet(t, env, []navCardSpec{
		{difficulty: "advanced"},
		{},
		{difficulty: "beginner"},
	})

	ids, err := svc.Sequence(context.Background(), set.ID, domain.NavigationDifficulty, uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, []string{
		cardID(set.ID, 3), cardID(set.ID, 2), cardID(set.ID, 1),
	}, ids)
}

func TestSequenceRandomIsStablePerSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	set := seedNavSet(t, env, make([]navCardSpec, 10))
	session := uuid.New()
	ctx := context.Background()

	first, err := svc.Sequence(ctx, set.ID, domain.NavigationRandom, session)
	require.NoError(t, err)
	second, err := svc.Sequence(ctx, set.ID, domain.NavigationRandom, session)
	require.NoError(t, err)

	assert.Equal(t, first, second, "the same session must see the same shuffle")
	assert.ElementsMatch(t, first, second)

	// Every card appears exactly once.
	assert.Len(t, first, 10)
	seen := make(map[string]bool)
	for _, id := range first {
		assert.False(t, seen[id], "card %s appears twice", id)
		seen[id] = true
	}
}

func TestSequenceUnsupportedMode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)
	ctx := context.Background()

	set := testSet("ava_chen_timeline_only", "ava_chen", "Timeline Only",
		domain.NavigationTimeline)
	seedGraph(t, env, testCreator("ava_chen", "Ava Chen"), set)

	_, err := svc.Sequence(ctx, set.ID, domain.NavigationRandom, uuid.Nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	var modeErr *UnsupportedModeError
	require.ErrorAs(t, err, &modeErr)
	assert.Equal(t, set.ID, modeErr.SetID)
	assert.Equal(t, domain.NavigationRandom, modeErr.Mode)

	// Unknown mode strings fall out the same way.
	_, err = svc.Sequence(ctx, set.ID, domain.NavigationMode("spiral"), uuid.Nil)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestSequenceSetNotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	_, err := svc.Sequence(context.Background(), "ghost", domain.NavigationTimeline, uuid.Nil)

	assert.True(t, store.IsNotFoundError(err))
}

func TestPositionOfSteps(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)
	ctx := context.Background()

	set := seedNavSet(t, env, []navCardSpec{{}, {}, {}})
	first := cardID(set.ID, 1)
	second := cardID(set.ID, 2)
	third := cardID(set.ID, 3)

	pos, err := svc.PositionOf(ctx, set.ID, domain.NavigationTimeline, first, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Index)
	assert.Equal(t, 3, pos.Total)
	assert.Nil(t, pos.PrevID, "first card has no predecessor")
	require.NotNil(t, pos.NextID)
	assert.Equal(t, second, *pos.NextID)

	pos, err = svc.PositionOf(ctx, set.ID, domain.NavigationTimeline, second, uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, pos.PrevID)
	require.NotNil(t, pos.NextID)
	assert.Equal(t, first, *pos.PrevID)
	assert.Equal(t, third, *pos.NextID)

	pos, err = svc.PositionOf(ctx, set.ID, domain.NavigationTimeline, third, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Index)
	assert.Nil(t, pos.NextID, "last card has no successor")
}

func TestPositionOfCyclicWrapsAround(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env, WithCyclicNavigation(true))
	ctx := context.Background()

	set := seedNavSet(t, env, []navCardSpec{{}, {}, {}})
	first := cardID(set.ID, 1)
	third := cardID(set.ID, 3)

	pos, err := svc.PositionOf(ctx, set.ID, domain.NavigationTimeline, first, uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, pos.PrevID)
	assert.Equal(t, third, *pos.PrevID)

	pos, err = svc.PositionOf(ctx, set.ID, domain.NavigationTimeline, third, uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, pos.NextID)
	assert.Equal(t, first, *pos.NextID)
}

func TestPositionOfSingleCardHasNoNeighbors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	// Even cyclic navigation never points a lone card at itself.
	svc := newNavService(t, env, WithCyclicNavigation(true))

	set := seedNavSet(t, env, []navCardSpec{{}})

	pos, err := svc.PositionOf(
		context.Background(), set.ID, domain.NavigationTimeline, cardID(set.ID, 1), uuid.Nil)

	require.NoError(t, err)
	assert.Equal(t, 0, pos.Index)
	assert.Equal(t, 1, pos.Total)
	assert.Nil(t, pos.PrevID)
	assert.Nil(t, pos.NextID)
}

func TestPositionOfUnknownCard(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := newNavService(t, env)

	set := seedNavSet(t, env, []navCardSpec{{}, {}})

	_, err := svc.PositionOf(
		context.Background(), set.ID, domain.NavigationTimeline, "ghost_card_001", uuid.Nil)

	assert.True(t, store.IsNotFoundError(err))
}
