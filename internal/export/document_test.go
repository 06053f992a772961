package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/testutil"
)

func buildChain(t *testing.T, sel ocdg.Selection) Document {
	t.Helper()
	res, err := ocdg.Build(testutil.ChainLog(), sel)
	require.NoError(t, err)
	return FromResult(res)
}

func TestFromResult_Chain(t *testing.T) {
	doc := buildChain(t, ocdg.AllRelations())

	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, Node{ID: 2, Type: "A", Lifeline: []uint64{1, 2}}, doc.Nodes[1])

	require.Len(t, doc.Edges, 4)
	var order [][2]uint64
	for _, e := range doc.Edges {
		order = append(order, [2]uint64{e.Source, e.Target})
	}
	assert.Equal(t, [][2]uint64{{1, 2}, {2, 1}, {2, 3}, {3, 2}}, order)

	e, ok := doc.Edge(3, 2)
	require.True(t, ok)
	assert.Equal(t, map[string][]uint64{
		"CODEATH":   {2},
		"INTERACTS": {2},
		"PEELER":    {2},
	}, e.Relations)
}

func TestFromResult_OmitsEdgesWithoutEvidence(t *testing.T) {
	doc := buildChain(t, ocdg.NewSelection(ocdg.Cobirth))

	assert.Equal(t, []string{"COBIRTH"}, doc.Relations)
	assert.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)

	_, ok := doc.Edge(2, 3)
	assert.False(t, ok)
	_, ok = doc.Node(3)
	assert.True(t, ok)
}

func TestFromResult_EmptySelection(t *testing.T) {
	doc := buildChain(t, ocdg.Selection(0))

	assert.NotNil(t, doc.Relations)
	assert.Empty(t, doc.Relations)
	assert.NotNil(t, doc.Edges)
	assert.Empty(t, doc.Edges)
}

func TestFormatRelations(t *testing.T) {
	assert.Equal(t, "(none)", FormatRelations(nil))
	assert.Equal(t, "COBIRTH[1] MERGE[2 3]", FormatRelations(map[string][]uint64{
		"MERGE":   {2, 3},
		"COBIRTH": {1},
	}))
}
