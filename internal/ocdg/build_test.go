package ocdg_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/ocel"
	"github.com/roach88/ocdg/internal/testutil"
)

// snapshot renders a graph as "src->tgt KIND" → sorted evidence.
func snapshot(g *ocdg.Graph) map[string][]ocdg.EventID {
	out := make(map[string][]ocdg.EventID)
	for _, e := range g.Edges() {
		for k, ev := range g.Relations(e.Source, e.Target) {
			out[fmt.Sprintf("%d->%d %s", e.Source, e.Target, k)] = ev.Sorted()
		}
	}
	return out
}

func ids(ev ...ocdg.EventID) []ocdg.EventID { return ev }

func TestBuild_Chain(t *testing.T) {
	res, err := ocdg.Build(testutil.ChainLog(), ocdg.AllRelations())
	require.NoError(t, err)

	want := map[string][]ocdg.EventID{
		"1->2 INTERACTS":   ids(1),
		"1->2 COBIRTH":     ids(1),
		"1->2 INHERITANCE": ids(1),
		"1->2 MERGE":       ids(1),
		"1->2 PEELER":      ids(1),

		"2->1 INTERACTS": ids(1),
		"2->1 COBIRTH":   ids(1),
		"2->1 MERGE":     ids(2),
		"2->1 MINION":    ids(1),
		"2->1 PEELER":    ids(1),

		"2->3 INTERACTS":   ids(2),
		"2->3 CODEATH":     ids(2),
		"2->3 DESCENDANTS": ids(2),
		"2->3 INHERITANCE": ids(2),
		"2->3 MINION":      ids(2),
		"2->3 PEELER":      ids(2),

		"3->2 INTERACTS": ids(2),
		"3->2 CODEATH":   ids(2),
		"3->2 PEELER":    ids(2),
	}
	assert.Equal(t, want, snapshot(res.Graph))

	assert.Equal(t, 3, res.Stats.Nodes)
	assert.Equal(t, 4, res.Stats.Edges)
	assert.Equal(t, 2, res.Stats.Events)
	assert.Equal(t, 0, res.Stats.Relations[ocdg.Split])
	assert.Equal(t, 4, res.Stats.Relations[ocdg.Interacts])

	l2, err := res.Lifelines.Get(2)
	require.NoError(t, err)
	assert.Equal(t, []ocdg.EventID{1, 2}, l2.Events)
	assert.Equal(t, "A", l2.Type)
}

func TestBuild_Split(t *testing.T) {
	res, err := ocdg.Build(testutil.SplitLog(), ocdg.AllRelations())
	require.NoError(t, err)
	g := res.Graph

	assertEvidence := func(src, tgt ocdg.ObjectID, kind ocdg.RelationKind, want ...ocdg.EventID) {
		t.Helper()
		ev, ok := g.Evidence(src, tgt, kind)
		require.True(t, ok, "%d->%d %s missing", src, tgt, kind)
		assert.Equal(t, want, ev.Sorted(), "%d->%d %s", src, tgt, kind)
	}
	assertAbsent := func(src, tgt ocdg.ObjectID, kind ocdg.RelationKind) {
		t.Helper()
		_, ok := g.Evidence(src, tgt, kind)
		assert.False(t, ok, "%d->%d %s should not fire", src, tgt, kind)
	}

	assertEvidence(1, 2, ocdg.Split, 3)
	assertEvidence(1, 3, ocdg.Split, 3)
	assertEvidence(1, 2, ocdg.Inheritance, 3)
	assertEvidence(1, 3, ocdg.Inheritance, 3)
	assertEvidence(1, 2, ocdg.Descendants, 3)
	assertEvidence(1, 4, ocdg.Cobirth, 1)
	assertEvidence(4, 1, ocdg.Cobirth, 1)
	assertEvidence(2, 3, ocdg.Cobirth, 3)
	assertEvidence(1, 4, ocdg.Minion, 1, 2)
	assertEvidence(1, 4, ocdg.Peeler, 1, 2)
	assertEvidence(4, 1, ocdg.Peeler, 1, 2)
	assertEvidence(1, 4, ocdg.Interacts, 1, 2)

	assertAbsent(2, 3, ocdg.Split)
	assertAbsent(1, 2, ocdg.Peeler)
	assertAbsent(1, 4, ocdg.Consumes)
	assertAbsent(2, 3, ocdg.Codeath)

	assert.Equal(t, 2, res.Stats.Relations[ocdg.Split])
	assert.Equal(t, 0, res.Stats.Relations[ocdg.Colife])
	assert.Equal(t, 0, res.Stats.Relations[ocdg.Engages])
	// 1↔4, 1↔2, 1↔3, 2↔3
	assert.Equal(t, 8, res.Stats.Edges)
}

func TestBuild_IndependentOfWorkerCount(t *testing.T) {
	base, err := ocdg.Build(testutil.SplitLog(), ocdg.AllRelations(), ocdg.WithWorkers(1))
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			res, err := ocdg.Build(testutil.SplitLog(), ocdg.AllRelations(), ocdg.WithWorkers(workers))
			require.NoError(t, err)
			assert.Equal(t, snapshot(base.Graph), snapshot(res.Graph))
			assert.Equal(t, base.Graph.Edges(), res.Graph.Edges())
		})
	}
}

func TestBuild_Repeatable(t *testing.T) {
	b := ocdg.NewBuilder(testutil.ChainLog(), ocdg.AllRelations())

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, snapshot(first.Graph), snapshot(second.Graph))
	assert.Equal(t, first.Stats, second.Stats)
}

func TestBuild_SelectionLimitsRelations(t *testing.T) {
	sel := ocdg.NewSelection(ocdg.Cobirth)
	res, err := ocdg.Build(testutil.ChainLog(), sel)
	require.NoError(t, err)

	// Adjacency is still recorded for every co-occurring pair.
	assert.Equal(t, 4, res.Graph.EdgeCount())
	assert.Equal(t, map[string][]ocdg.EventID{
		"1->2 COBIRTH": ids(1),
		"2->1 COBIRTH": ids(1),
	}, snapshot(res.Graph))
	assert.Equal(t, map[ocdg.RelationKind]int{ocdg.Cobirth: 2}, res.Stats.Relations)
}

func TestBuild_PrimitiveOnlySkipsEvaluation(t *testing.T) {
	res, err := ocdg.Build(testutil.ChainLog(), ocdg.NewSelection(ocdg.Interacts))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stats.ParallelProposals)
	assert.Equal(t, 4, res.Stats.PrimitiveProposals)
	assert.Equal(t, 4, res.Graph.RelationCount(ocdg.Interacts))
}

func TestBuild_EmptySelection(t *testing.T) {
	res, err := ocdg.Build(testutil.ChainLog(), ocdg.Selection(0))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Graph.NodeCount())
	assert.Equal(t, 4, res.Graph.EdgeCount())
	assert.Empty(t, snapshot(res.Graph))
}

func TestBuild_EmptyLog(t *testing.T) {
	res, err := ocdg.Build(ocel.NewLog(), ocdg.AllRelations())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Graph.NodeCount())
	assert.Equal(t, 0, res.Graph.EdgeCount())
	assert.Equal(t, 0, res.Lifelines.Len())
}

func TestBuild_ObjectsWithoutEventsHaveNoNode(t *testing.T) {
	log := testutil.NewLog().
		Objects("A", 1, 2).
		Objects("B", 9).
		Event(1, 1, 2).
		Log()

	res, err := ocdg.Build(log, ocdg.AllRelations())
	require.NoError(t, err)

	assert.False(t, res.Graph.HasNode(9))
	_, err = res.Lifelines.Get(9)
	assert.Equal(t, ocdg.ErrCodeMissingLifeline, ocdg.IntegrityCode(err))
}

func TestBuild_SingletonEvent(t *testing.T) {
	log := testutil.NewLog().
		Objects("A", 1).
		Event(1, 1).
		Event(2, 1).
		Log()

	res, err := ocdg.Build(log, ocdg.AllRelations())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Graph.NodeCount())
	assert.Equal(t, 0, res.Graph.EdgeCount())
	l, err := res.Lifelines.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []ocdg.EventID{1, 2}, l.Events)
}

// undeclaredLog references an object the log never declares.
type undeclaredLog struct{ *ocel.Log }

func (l undeclaredLog) ObjectType(oid ocdg.ObjectID) (string, bool) {
	if oid == 2 {
		return "", false
	}
	return l.Log.ObjectType(oid)
}

func TestBuild_UnknownObject(t *testing.T) {
	res, err := ocdg.Build(undeclaredLog{testutil.ChainLog()}, ocdg.AllRelations())
	require.Error(t, err)
	assert.Nil(t, res)

	var ie *ocdg.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ocdg.ErrCodeUnknownObject, ie.Code)
	assert.Equal(t, ocdg.ObjectID(2), ie.Object)
	assert.Equal(t, ocdg.EventID(1), ie.Event)
}

func TestBuild_SymmetricKindsMirror(t *testing.T) {
	res, err := ocdg.Build(testutil.SplitLog(), ocdg.AllRelations())
	require.NoError(t, err)

	for _, e := range res.Graph.Edges() {
		for k, ev := range res.Graph.Relations(e.Source, e.Target) {
			if !k.Symmetric() {
				continue
			}
			back, ok := res.Graph.Evidence(e.Target, e.Source, k)
			require.True(t, ok, "%s missing on %d->%d", k, e.Target, e.Source)
			assert.True(t, ev.Equal(back))
		}
	}
}
