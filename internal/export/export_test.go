// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

func loadedStore(t *testing.T) graph.Store {
	t.Helper()
	ctx := context.Background()
	s := graph.NewMemoryStore()
	_, err := graph.EnsureSchema(ctx, s)
	require.NoError(t, err)

	u := graph.NewUpserter(s)
	r, err := u.UpsertResource(ctx, "Basic Science", "Second Term", "JSS2", "Basic Science JSS2")
	require.NoError(t, err)
	for _, wt := range []struct {
		week  int
		topic string
	}{{2, "Energy"}, {1, "Living things"}, {1, "Non-living things"}} {
		w, err := u.UpsertWeek(ctx, r, wt.week)
		require.NoError(t, err)
		_, err = u.UpsertConcept(ctx, r, w, wt.topic)
		require.NoError(t, err)
	}
	_, err = graph.NewInferencer(s).Run(ctx)
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildGroupsByResource(t *testing.T) {
	doc, err := Build(context.Background(), loadedStore(t))
	require.NoError(t, err)

	require.Len(t, doc.Resources, 1)
	res := doc.Resources[0]
	assert.Equal(t, "jss2_basic_science_second_term", res.ResourceID)
	assert.Equal(t, "Basic Science JSS2", res.Title)

	require.Len(t, res.Weeks, 2)
	assert.Equal(t, 1, res.Weeks[0].WeekNumber)
	assert.Equal(t, 2, res.Weeks[1].WeekNumber)
	require.Len(t, res.Weeks[0].Concepts, 2)
	assert.Equal(t, "Living things", res.Weeks[0].Concepts[0].Name)
	assert.Equal(t, "Second Term", res.Weeks[0].Concepts[0].Term)

	require.Len(t, doc.Prerequisites, 2)
	for _, p := range doc.Prerequisites {
		assert.Equal(t, "jss2_basic_science_second_term_c_energy", p.ToConceptID)
		assert.Equal(t, graph.MethodInferred, p.Method)
		assert.Equal(t, graph.EvidenceWeekOrdering, p.Evidence)
	}
	assert.Equal(t, 3, doc.Counts.Nodes[graph.LabelConcept])
}

func TestBuildEmptyStore(t *testing.T) {
	doc, err := Build(context.Background(), graph.NewMemoryStore())
	require.NoError(t, err)
	assert.Empty(t, doc.Resources)
	assert.NotNil(t, doc.Resources)
	assert.NotNil(t, doc.Prerequisites)
}

func TestEncodeJSON(t *testing.T) {
	doc, err := Build(context.Background(), loadedStore(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	resources := decoded["resources"].([]any)
	first := resources[0].(map[string]any)
	assert.Equal(t, "jss2_basic_science_second_term", first["resource_id"])
	assert.Len(t, first["weeks"], 2)
}

func TestWriteFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "graph.yaml")
	require.NoError(t, WriteFile(context.Background(), loadedStore(t), path, FormatYAML))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		Resources []struct {
			ResourceID string `yaml:"resource_id"`
			Weeks      []struct {
				WeekNumber int `yaml:"week_number"`
			} `yaml:"weeks"`
		} `yaml:"resources"`
		Prerequisites []map[string]string `yaml:"prerequisites"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded.Resources, 1)
	assert.Equal(t, "jss2_basic_science_second_term", decoded.Resources[0].ResourceID)
	assert.Len(t, decoded.Resources[0].Weeks, 2)
	assert.Len(t, decoded.Prerequisites, 2)
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, &Document{}, Format("xml"))
	require.Error(t, err)
}
