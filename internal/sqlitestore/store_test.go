// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/graph/graphtest"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

func testStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(types.SQLiteConfig{Path: path})
	require.NoError(t, err)
	return s
}

func TestSQLiteStoreSuite(t *testing.T) {
	graphtest.Run(t, func(t *testing.T) graph.Store {
		return testStore(t, filepath.Join(t.TempDir(), "graph.db"))
	})
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "graph.db")

	s := testStore(t, path)
	_, err := graph.EnsureSchema(ctx, s)
	require.NoError(t, err)
	u := graph.NewUpserter(s)
	r, err := u.UpsertResource(ctx, "Maths", "First Term", "JSS1", "JSS1 Maths")
	require.NoError(t, err)
	w, err := u.UpsertWeek(ctx, r, 1)
	require.NoError(t, err)
	_, err = u.UpsertConcept(ctx, r, w, "Whole Numbers")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := testStore(t, path)
	defer reopened.Close()

	summary, err := graph.EnsureSchema(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)

	snap, err := reopened.Snapshot(ctx)
	require.NoError(t, err)
	counts := snap.Counts()
	assert.Equal(t, 1, counts.Nodes[graph.LabelConcept])
	assert.Equal(t, 1, counts.Edges[graph.RelTeaches])

	for _, n := range snap.Nodes {
		if n.Label == graph.LabelWeek {
			assert.Equal(t, int64(1), n.Props["week_number"])
		}
	}
}

func TestSQLiteCreateIndexBuildsExpressionIndex(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, filepath.Join(t.TempDir(), "graph.db"))
	defer s.Close()

	require.NoError(t, s.CreateIndex(ctx, graph.RequiredIndexes[0]))
	require.NoError(t, s.CreateIndex(ctx, graph.RequiredIndexes[0]))

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_concept_name_idx'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteRejectsUnsupportedConstraint(t *testing.T) {
	s := testStore(t, filepath.Join(t.TempDir(), "graph.db"))
	defer s.Close()

	err := s.CreateConstraint(context.Background(), graph.Constraint{
		Name: "concept_name_unique", Label: graph.LabelConcept, Property: "name", Type: graph.ConstraintUnique,
	})
	assert.Error(t, err)
}

func TestUnmarshalProps(t *testing.T) {
	props, err := unmarshalProps(`{"week_number": 3, "ratio": 0.5, "name": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"week_number": int64(3), "ratio": 0.5, "name": "x"}, props)

	empty, err := unmarshalProps(`{}`)
	require.NoError(t, err)
	assert.Nil(t, empty)
}
