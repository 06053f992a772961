package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ocdg/internal/ocdg"
)

func TestLoadScenario_Chain(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/chain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "chain", s.Name)
	assert.Len(t, s.Objects, 3)
	require.Len(t, s.Events, 2)
	assert.Equal(t, "hand over", s.Events[1].Activity)
	assert.Equal(t, []uint64{2, 3}, s.Events[1].Objects)
	assert.Equal(t, Assertion{Type: AssertLifeline, Object: 2, Events: []uint64{1, 2}}, s.Assertions[0])

	sel, err := s.Selection()
	require.NoError(t, err)
	assert.Equal(t, ocdg.AllRelations(), sel)
}

func TestLoadScenario_Selection(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/selection.yaml")
	require.NoError(t, err)

	sel, err := s.Selection()
	require.NoError(t, err)
	assert.Equal(t, ocdg.NewSelection(ocdg.Cobirth), sel)
}

func TestLoadScenario_NotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
}

const minimalYAML = `name: minimal
description: "one event"
objects:
  - {id: 1, type: A}
  - {id: 2, type: B}
events:
  - {id: 1, objects: [1, 2]}
assertions:
  - {type: edge, source: 1, target: 2, relation: interacts}
`

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    minimalYAML + "assertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no events",
			yaml:    "name: n\ndescription: d\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "events list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1, objects: [1]}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "empty event",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1}]\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "events[0]: objects list is required",
		},
		{
			name:    "object without type",
			yaml:    "name: n\ndescription: d\nobjects: [{id: 1}]\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "objects[0]: type is required",
		},
		{
			name:    "unknown relation selection",
			yaml:    "name: n\ndescription: d\nrelations: [FRIENDS]\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge_count, count: 0}]\n",
			wantErr: "unknown relation kind",
		},
		{
			name:    "edge without relation",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge, source: 1, target: 2}]\n",
			wantErr: "relation is required for edge",
		},
		{
			name:    "lifeline without events",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: lifeline, object: 1}]\n",
			wantErr: "events list is required for lifeline",
		},
		{
			name:    "negative count",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: edge_count, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: n\ndescription: d\nevents: [{id: 1, objects: [1]}]\nassertions: [{type: trace_contains}]\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
