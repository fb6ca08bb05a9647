// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cypher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"Man's World", `'Man\'s World'`},
		{`back\slash`, `'back\\slash'`},
		{3, "3"},
		{int64(7), "7"},
		{1.5, "1.5"},
		{true, "true"},
		{[]string{"a", "b"}, "['a', 'b']"},
		{map[string]any{"term": "First Term", "class": "JSS1"}, "{`class`: 'JSS1', `term`: 'First Term'}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Literal(tt.in))
	}
}

func TestInline(t *testing.T) {
	got := Inline("MATCH (a {id: $from}) MATCH (b {id: $to}) RETURN $missing",
		map[string]any{"from": "a1", "to": "b2"})
	assert.Equal(t, "MATCH (a {id: 'a1'}) MATCH (b {id: 'b2'}) RETURN $missing", got)
}

func TestRecorderWritesScript(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	rec := NewRecorder(graph.NewMemoryStore(), &buf)

	_, err := graph.EnsureSchema(ctx, rec)
	require.NoError(t, err)

	u := graph.NewUpserter(rec)
	r, err := u.UpsertResource(ctx, "Basic Science", "First Term", "JSS1", "JSS1 Basic Science - First Term")
	require.NoError(t, err)
	for n, topic := range []string{"Living Things", "Non-Living Things"} {
		w, err := u.UpsertWeek(ctx, r, n+1)
		require.NoError(t, err)
		_, err = u.UpsertConcept(ctx, r, w, topic)
		require.NoError(t, err)
	}
	rec.Comment("Prerequisites inferred from week order")
	_, err = graph.NewInferencer(rec).Run(ctx)
	require.NoError(t, err)

	require.NoError(t, rec.Err())
	script := buf.String()
	// 4 schema + 1 resource + 2 x (week, has_week, concept, teaches) + 1 prerequisite
	assert.Equal(t, 14, rec.Statements())
	assert.Equal(t, 14, strings.Count(script, ";\n"))

	assert.Contains(t, script,
		"CREATE CONSTRAINT `resource_id_unique` IF NOT EXISTS FOR (n:`Resource`) REQUIRE n.`resource_id` IS UNIQUE;")
	assert.Contains(t, script,
		"MERGE (n:`Week` {`week_id`: 'jss1_basic_science_first_term_w2'}) SET n += {`week_number`: 2};")
	assert.Contains(t, script, "// Prerequisites inferred from week order\n")
	assert.Contains(t, script,
		"MERGE (a)-[r:`PREREQUISITE_OF` {`method`: 'inferred'}]->(b) SET r += {`evidence`: 'Week ordering in scheme of work'};")
	assert.NotContains(t, script, "RETURN count")
}

type failingStore struct {
	graph.Store
}

func (failingStore) MergeNode(context.Context, graph.Node) error {
	return errors.New("store down")
}

func TestRecorderSkipsFailedMutations(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(failingStore{Store: graph.NewMemoryStore()}, &buf)

	err := rec.MergeNode(context.Background(), graph.Node{NodeRef: graph.NodeRef{Label: graph.LabelResource, ID: "r"}})
	assert.Error(t, err)
	assert.Empty(t, buf.String())
	assert.Zero(t, rec.Statements())
}
