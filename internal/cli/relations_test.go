package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationsCommand_Text(t *testing.T) {
	out, err := executeRoot(t, "relations")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, []string{"INTERACTS", "primitive", "directed"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"COBIRTH", "instance", "symmetric"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"SPLIT", "whole", "directed"}, strings.Fields(lines[7]))
}

func TestRelationsCommand_JSON(t *testing.T) {
	out, err := executeRoot(t, "--format", "json", "relations")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []RelationInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 12)

	symmetric := 0
	for _, info := range resp.Data {
		if info.Symmetric {
			symmetric++
		}
	}
	assert.Equal(t, 4, symmetric)
	assert.Equal(t, RelationInfo{Name: "ENGAGES", Tier: "instance", Symmetric: true}, resp.Data[11])
}
