package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/export"
	"github.com/roach88/ocdg/internal/ocdg"
	"github.com/roach88/ocdg/internal/testutil"
)

func chainDocument(t *testing.T, sel ocdg.Selection) export.Document {
	t.Helper()
	res, err := ocdg.Build(testutil.ChainLog(), sel)
	require.NoError(t, err)
	return export.FromResult(res)
}

func TestWriteBuild_RoundTrip(t *testing.T) {
	s := createTestStore(t, WithRunIDGenerator(NewFixedGenerator("build-1")))
	ctx := context.Background()
	doc := chainDocument(t, ocdg.AllRelations())

	rec, err := s.WriteBuild(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "build-1", rec.ID)
	assert.Equal(t, int64(1), rec.Seq)
	assert.Equal(t, 3, rec.Nodes)
	assert.Equal(t, 4, rec.Edges)

	digest, err := export.Digest(doc)
	require.NoError(t, err)
	assert.Equal(t, digest, rec.Digest)

	got, gotRec, err := s.ReadBuild(ctx, "build-1")
	require.NoError(t, err)
	assert.Equal(t, rec, gotRec)
	assert.Equal(t, doc, got)

	again, err := export.Digest(got)
	require.NoError(t, err)
	assert.Equal(t, rec.Digest, again)
}

func TestWriteBuild_SeqIncrements(t *testing.T) {
	s := createTestStore(t, WithRunIDGenerator(NewFixedGenerator("b1", "b2")))
	ctx := context.Background()

	first, err := s.WriteBuild(ctx, chainDocument(t, ocdg.AllRelations()))
	require.NoError(t, err)
	second, err := s.WriteBuild(ctx, chainDocument(t, ocdg.NewSelection(ocdg.Cobirth)))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.NotEqual(t, first.Digest, second.Digest)

	list, err := s.ListBuilds(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID)
	assert.Equal(t, "b2", list[1].ID)
	assert.Equal(t, []string{"COBIRTH"}, list[1].Relations)
}

func TestWriteBuild_DefaultGeneratorIsUUIDv7(t *testing.T) {
	s := createTestStore(t)

	rec, err := s.WriteBuild(context.Background(), chainDocument(t, ocdg.AllRelations()))
	require.NoError(t, err)
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, byte('7'), rec.ID[14], "version nibble")
}

func TestWriteBuild_EmptySelection(t *testing.T) {
	s := createTestStore(t, WithRunIDGenerator(NewFixedGenerator("empty")))
	ctx := context.Background()
	doc := chainDocument(t, ocdg.Selection(0))

	_, err := s.WriteBuild(ctx, doc)
	require.NoError(t, err)

	got, rec, err := s.ReadBuild(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, []string{}, rec.Relations)
	assert.Empty(t, got.Edges)
	assert.Len(t, got.Nodes, 3)
}

func TestListBuilds_Empty(t *testing.T) {
	s := createTestStore(t)

	list, err := s.ListBuilds(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestReadBuild_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.ReadBuild(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
