// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphtest holds a behavioural suite that every graph.Store
// implementation runs in its own tests.
package graphtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

// Run executes the suite. newStore must return an empty store; the suite
// closes it.
func Run(t *testing.T, newStore func(t *testing.T) graph.Store) {
	t.Run("schema", func(t *testing.T) { testSchema(t, newStore(t)) })
	t.Run("merge node overwrites props", func(t *testing.T) { testMergeNode(t, newStore(t)) })
	t.Run("merge edge requires endpoints", func(t *testing.T) { testMergeEdgeMissing(t, newStore(t)) })
	t.Run("load is idempotent", func(t *testing.T) { testIdempotentLoad(t, newStore(t)) })
	t.Run("week concepts projection", func(t *testing.T) { testWeekConcepts(t, newStore(t)) })
}

func testSchema(t *testing.T, s graph.Store) {
	defer s.Close()
	ctx := context.Background()

	first, err := graph.EnsureSchema(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Created)

	second, err := graph.EnsureSchema(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, graph.SchemaSummary{Existing: 4}, second)
}

func testMergeNode(t *testing.T, s graph.Store) {
	defer s.Close()
	ctx := context.Background()
	ref := graph.NodeRef{Label: graph.LabelResource, ID: "r1"}

	require.NoError(t, s.MergeNode(ctx, graph.Node{NodeRef: ref, Props: map[string]any{"title": "old", "term": "First Term"}}))
	require.NoError(t, s.MergeNode(ctx, graph.Node{NodeRef: ref, Props: map[string]any{"title": "new"}}))

	ok, err := s.HasNode(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	missing, err := s.HasNode(ctx, graph.NodeRef{Label: graph.LabelWeek, ID: "r1"})
	require.NoError(t, err)
	assert.False(t, missing, "keys are scoped per label")

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "new", snap.Nodes[0].Props["title"])
	assert.Equal(t, "First Term", snap.Nodes[0].Props["term"])
}

func testMergeEdgeMissing(t *testing.T, s graph.Store) {
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.MergeNode(ctx, graph.Node{NodeRef: graph.NodeRef{Label: graph.LabelWeek, ID: "w"}}))

	err := s.MergeEdge(ctx, graph.Edge{
		Type: graph.RelTeaches,
		From: graph.NodeRef{Label: graph.LabelWeek, ID: "w"},
		To:   graph.NodeRef{Label: graph.LabelConcept, ID: "absent"},
	})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func load(t *testing.T, s graph.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := graph.EnsureSchema(ctx, s)
	require.NoError(t, err)

	u := graph.NewUpserter(s)
	for _, class := range []string{"JSS1", "JSS2"} {
		r, err := u.UpsertResource(ctx, "Basic Science", "First Term", class, class+" Basic Science")
		require.NoError(t, err)
		for _, n := range []int{1, 2, 4, 5} {
			w, err := u.UpsertWeek(ctx, r, n)
			require.NoError(t, err)
			_, err = u.UpsertConcept(ctx, r, w, fmt.Sprintf("Topic %d", n))
			require.NoError(t, err)
		}
		_, err = u.UpsertWeek(ctx, r, 7)
		require.NoError(t, err)
	}
	_, err = graph.NewInferencer(s).Run(ctx)
	require.NoError(t, err)
}

func testIdempotentLoad(t *testing.T, s graph.Store) {
	defer s.Close()
	ctx := context.Background()

	load(t, s)
	once, err := s.Snapshot(ctx)
	require.NoError(t, err)

	load(t, s)
	twice, err := s.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, once.Counts(), twice.Counts())
	assert.Equal(t, once, twice)

	counts := once.Counts()
	assert.Equal(t, 2, counts.Nodes[graph.LabelResource])
	assert.Equal(t, 10, counts.Nodes[graph.LabelWeek])
	assert.Equal(t, 8, counts.Nodes[graph.LabelConcept])
	assert.Equal(t, 10, counts.Edges[graph.RelHasWeek])
	assert.Equal(t, 8, counts.Edges[graph.RelTeaches])
	assert.Equal(t, 4, counts.Edges[graph.RelPrerequisiteOf])
}

func testWeekConcepts(t *testing.T, s graph.Store) {
	defer s.Close()
	ctx := context.Background()
	load(t, s)

	ids, err := s.ResourceIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"jss1_basic_science_first_term", "jss2_basic_science_first_term"}, ids)

	rows, err := s.WeekConcepts(ctx, ids[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, []graph.WeekConcept{
		{WeekID: ids[0] + "_w1", WeekNumber: 1, ConceptID: ids[0] + "_c_topic_1"},
		{WeekID: ids[0] + "_w2", WeekNumber: 2, ConceptID: ids[0] + "_c_topic_2"},
		{WeekID: ids[0] + "_w4", WeekNumber: 4, ConceptID: ids[0] + "_c_topic_4"},
		{WeekID: ids[0] + "_w5", WeekNumber: 5, ConceptID: ids[0] + "_c_topic_5"},
		{WeekID: ids[0] + "_w7", WeekNumber: 7},
	}, rows)

	none, err := s.WeekConcepts(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
