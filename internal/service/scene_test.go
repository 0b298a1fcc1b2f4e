package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainverse/internal/domain"
)

func edgePairs(edges []domain.Edge) []string {
	pairs := make([]string, 0, len(edges))
	for _, e := range edges {
		pairs = append(pairs, e.SourceID+">"+e.TargetID)
	}
	return pairs
}

func TestSceneOverview(t *testing.T) {
	env := newTestEnv(t, 8)
	scenes := NewSceneService(env.svc)

	scene, err := scenes.View(context.Background(), "", false)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"squad", "nteams", "program", "portfolio", "ritual", "collaboration", "daily-standup"},
		ids(scene.Domains))
	assert.False(t, scene.ZoomedOut)
	assert.Equal(t,
		[]string{"squad>nteams", "nteams>squad", "nteams>program", "program>portfolio", "collaboration>squad"},
		edgePairs(scene.Connections))
}

func TestSceneFocus(t *testing.T) {
	env := newTestEnv(t, 8)
	scenes := NewSceneService(env.svc)

	scene, err := scenes.View(context.Background(), "squad", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"squad", "collaboration", "nteams"}, ids(scene.Domains))
	assert.Equal(t, "squad", scene.FocusID)
	assert.Equal(t,
		[]string{"squad>nteams", "collaboration>squad", "nteams>squad"},
		edgePairs(scene.Connections))
}

func TestSceneFocusDedupes(t *testing.T) {
	env := newTestEnv(t, 8)
	scenes := NewSceneService(env.svc)

	// collaboration links back to its parent squad
	scene, err := scenes.View(context.Background(), "collaboration", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"collaboration", "squad"}, ids(scene.Domains))
}

func TestSceneZoomedOut(t *testing.T) {
	env := newTestEnv(t, 8)
	scenes := NewSceneService(env.svc)

	scene, err := scenes.View(context.Background(), "ritual", true)
	require.NoError(t, err)
	assert.True(t, scene.ZoomedOut)
	assert.Equal(t, []string{"ritual", "daily-standup"}, ids(scene.Domains))
	assert.Empty(t, scene.Connections)
	assert.NotNil(t, scene.Connections)
}

func TestSceneUnknownFocus(t *testing.T) {
	env := newTestEnv(t, 8)
	scenes := NewSceneService(env.svc)

	_, err := scenes.View(context.Background(), "missing-id", false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = scenes.View(context.Background(), "missing-id", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSceneCenter(t *testing.T) {
	g, err := domain.NewGraph([]domain.Domain{
		{ID: "a", Position: domain.NewPosition(2, 0, 0), Links: []domain.Link{domain.NewLink("b", "")}},
		{ID: "b", Position: domain.NewPosition(0, 4, 0)},
	})
	require.NoError(t, err)
	svc, err := NewDomainService(g, NewEventBus(), Options{})
	require.NoError(t, err)

	scene, err := NewSceneService(svc).View(context.Background(), "a", false)
	require.NoError(t, err)
	assert.Equal(t, domain.NewPosition(1, 2, 0), scene.Center)
	require.Len(t, scene.Connections, 1)
	assert.Equal(t, domain.DefaultVerb, scene.Connections[0].Verb)
}
