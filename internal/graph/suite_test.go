// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph_test

import (
	"testing"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/graph/graphtest"
)

func TestMemoryStoreSuite(t *testing.T) {
	graphtest.Run(t, func(t *testing.T) graph.Store {
		return graph.NewMemoryStore()
	})
}
