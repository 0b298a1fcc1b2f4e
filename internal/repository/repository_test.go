package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainverse/internal/domain"
)

// memJournal is an in-memory EditJournal
type memJournal struct {
	entries []JournalEntry
	err     error
}

func (m *memJournal) RecordEdit(_ context.Context, e domain.Edit) error {
	m.entries = append(m.entries, JournalEntry{ID: int64(len(m.entries) + 1), Edit: e})
	return nil
}

func (m *memJournal) ListEdits(context.Context) ([]JournalEntry, error) {
	return m.entries, m.err
}

func (m *memJournal) ClearEdits(context.Context) error {
	m.entries = nil
	return nil
}

func (m *memJournal) Close() error { return nil }

func testGraph(t *testing.T) *domain.Graph {
	t.Helper()
	a := domain.NewDomain("a", "A")
	a.AddLink("b", "feeds")
	g, err := domain.NewGraph([]domain.Domain{*a, *domain.NewDomain("b", "B")})
	require.NoError(t, err)
	return g
}

func TestReplayAppliesInOrder(t *testing.T) {
	ctx := context.Background()
	j := &memJournal{}
	require.NoError(t, j.RecordEdit(ctx, domain.RenameEdit("a", "first")))
	require.NoError(t, j.RecordEdit(ctx, domain.RenameEdit("a", "second")))
	require.NoError(t, j.RecordEdit(ctx, domain.VerbEdit("a", "b", "starves")))

	g := testGraph(t)
	result, err := Replay(ctx, j, g)
	require.NoError(t, err)
	assert.Equal(t, ReplayResult{Applied: 3}, result)

	a, _ := g.Get("a")
	assert.Equal(t, "second", a.Name, "last writer wins")
	assert.Equal(t, "starves", a.Links[0].Verb)
}

func TestReplaySkipsUnresolvable(t *testing.T) {
	ctx := context.Background()
	j := &memJournal{}
	require.NoError(t, j.RecordEdit(ctx, domain.RenameEdit("gone", "x")))
	require.NoError(t, j.RecordEdit(ctx, domain.VerbEdit("b", "a", "x")))
	require.NoError(t, j.RecordEdit(ctx, domain.Edit{Kind: "bogus", DomainID: "a"}))

	g := testGraph(t)
	before := g.Fragment()

	result, err := Replay(ctx, j, g)
	require.NoError(t, err)
	assert.Equal(t, ReplayResult{Skipped: 3}, result)
	assert.Equal(t, before, g.Fragment())
}

func TestReplayPropagatesListError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Replay(context.Background(), &memJournal{err: boom}, testGraph(t))
	assert.ErrorIs(t, err, boom)
}
