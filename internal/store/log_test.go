package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
	"github.com/roach88/ocdg/internal/testutil"
)

func TestWriteLog_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := testutil.SplitLog()

	require.NoError(t, s.WriteLog(ctx, want))

	got, err := s.ReadLog(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.NumObjects(), got.NumObjects())
	assert.Equal(t, want.EventList(), got.EventList())
	for _, obj := range want.Objects() {
		typ, ok := got.ObjectType(obj.ID)
		require.True(t, ok, "object %d", obj.ID)
		assert.Equal(t, obj.Type, typ)
	}
}

func TestWriteLog_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	log := testutil.ChainLog()

	require.NoError(t, s.WriteLog(ctx, log))
	require.NoError(t, s.WriteLog(ctx, log))

	var events int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&events))
	assert.Equal(t, 2, events)

	var members int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM event_objects").Scan(&members))
	assert.Equal(t, 4, members)
}

func TestReadLog_KeepsLogOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Event ids deliberately out of order.
	log := testutil.NewLog().
		Objects("A", 1, 2).
		Event(30, 1).
		Event(10, 1, 2).
		Event(20, 2).
		Log()
	require.NoError(t, s.WriteLog(ctx, log))

	got, err := s.ReadLog(ctx)
	require.NoError(t, err)

	var order []ocdg.EventID
	for eid := range got.Events() {
		order = append(order, eid)
	}
	assert.Equal(t, []ocdg.EventID{30, 10, 20}, order)
}

func TestReadLog_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumObjects())
	assert.Equal(t, 0, got.NumEvents())
}

func TestReadLog_BuildsSameGraph(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteLog(ctx, testutil.SplitLog()))

	stored, err := s.ReadLog(ctx)
	require.NoError(t, err)

	a, err := ocdg.Build(testutil.SplitLog(), ocdg.AllRelations())
	require.NoError(t, err)
	b, err := ocdg.Build(stored, ocdg.AllRelations())
	require.NoError(t, err)

	assert.Equal(t, a.Graph.Edges(), b.Graph.Edges())
	assert.Equal(t, a.Stats, b.Stats)
}

func TestWriteLog_EventWithoutObjects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	log := ocel.NewLog()
	require.NoError(t, log.AddEvent(ocel.Event{ID: 1, Activity: "tick"}))
	require.NoError(t, s.WriteLog(ctx, log))

	got, err := s.ReadLog(ctx)
	require.NoError(t, err)
	ev, ok := got.Event(1)
	require.True(t, ok)
	assert.Equal(t, "tick", ev.Activity)
	assert.Empty(t, ev.Objects)
}

func TestWriteLog_RejectsDifferentLog(t *testing.T) {
	tests := map[string]*ocel.Log{
		"object type": testutil.NewLog().
			Objects("A", 1, 2).Objects("B", 3).
			Event(1, 1, 2).Event(2, 2, 3).
			Log(),
		"event membership": testutil.NewLog().
			Objects("B", 1, 3).
			Event(1, 1, 3).
			Log(),
		"extra event": testutil.NewLog().
			Objects("A", 1, 2, 3).
			Event(1, 1, 2).Event(2, 2, 3).Event(3, 1).
			Log(),
		"event order": testutil.NewLog().
			Objects("A", 1, 2, 3).
			Event(2, 2, 3).Event(1, 1, 2).
			Log(),
		"empty": ocel.NewLog(),
	}
	for name, other := range tests {
		t.Run(name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()
			require.NoError(t, s.WriteLog(ctx, testutil.ChainLog()))

			err := s.WriteLog(ctx, other)
			require.ErrorIs(t, err, ErrLogConflict)

			got, err := s.ReadLog(ctx)
			require.NoError(t, err)
			assert.Equal(t, testutil.ChainLog().EventList(), got.EventList())
			typ, _ := got.ObjectType(3)
			assert.Equal(t, "A", typ)
		})
	}
}

func TestWriteLog_ConflictKeepsBuildsConsistent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteLog(ctx, testutil.ChainLog()))

	other := testutil.NewLog().Objects("B", 1, 3).Event(1, 1, 3).Log()
	require.ErrorIs(t, s.WriteLog(ctx, other), ErrLogConflict)

	stored, err := s.ReadLog(ctx)
	require.NoError(t, err)
	want, err := ocdg.Build(testutil.ChainLog(), ocdg.AllRelations())
	require.NoError(t, err)
	got, err := ocdg.Build(stored, ocdg.AllRelations())
	require.NoError(t, err)
	assert.Equal(t, want.Graph.Edges(), got.Graph.Edges())
}
