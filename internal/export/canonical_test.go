package export

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/ocdg"
)

func TestMarshalCanonical_Golden(t *testing.T) {
	doc := buildChain(t, ocdg.AllRelations())

	data, err := MarshalCanonical(doc)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "chain_canonical", data)
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	a, err := MarshalCanonical(buildChain(t, ocdg.AllRelations()))
	require.NoError(t, err)
	b, err := MarshalCanonical(buildChain(t, ocdg.AllRelations()))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDigest(t *testing.T) {
	all := buildChain(t, ocdg.AllRelations())

	d1, err := Digest(all)
	require.NoError(t, err)
	d2, err := Digest(all)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	other, err := Digest(buildChain(t, ocdg.NewSelection(ocdg.Interacts)))
	require.NoError(t, err)
	assert.NotEqual(t, d1, other)
}

func TestMarshalCanonical_Values(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"uint", uint64(18446744073709551615), "18446744073709551615"},
		{"no html escape", "<a&b>", `"<a&b>"`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `\u2028`, `"\\u2028"`},
		{"nfc", "cafe\u0301", "\"caf\u00e9\""},
		{"utf16 key order", map[string]any{"\uE000": 1, "\U0001F600": 2}, "{\"\U0001F600\":2,\"\uE000\":1}"},
		{"nested", map[string]any{"b": []any{true, int64(-1)}, "a": "x"}, `{"a":"x","b":[true,-1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := marshalCanonical(nil)
	assert.Error(t, err)
	_, err = marshalCanonical(1.5)
	assert.Error(t, err)
	_, err = marshalCanonical(map[string]any{"k": []any{struct{}{}}})
	assert.ErrorContains(t, err, `value for key "k"`)
}
