// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neo4jstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

func TestIdent(t *testing.T) {
	assert.Equal(t, "`Concept`", Ident("Concept"))
	assert.Equal(t, "`we``ird`", Ident("we`ird"))
}

func TestSchemaQueries(t *testing.T) {
	c := CreateConstraintQuery(graph.RequiredConstraints[0])
	assert.Equal(t,
		"CREATE CONSTRAINT `resource_id_unique` IF NOT EXISTS FOR (n:`Resource`) REQUIRE n.`resource_id` IS UNIQUE",
		c.Cypher)

	i := CreateIndexQuery(graph.RequiredIndexes[0])
	assert.Equal(t,
		"CREATE INDEX `concept_name_idx` IF NOT EXISTS FOR (n:`Concept`) ON (n.`name`)",
		i.Cypher)
}

func TestMergeNodeQuery(t *testing.T) {
	q := MergeNodeQuery(graph.Node{
		NodeRef: graph.NodeRef{Label: graph.LabelWeek, ID: "r_w1"},
		Props:   map[string]any{"week_number": 1, "week_id": "ignored"},
	})
	assert.Equal(t, "MERGE (n:`Week` {`week_id`: $id}) SET n += $props", q.Cypher)
	assert.Equal(t, "r_w1", q.Params["id"])
	assert.Equal(t, map[string]any{"week_number": 1}, q.Params["props"])
}

func TestMergeEdgeQuery(t *testing.T) {
	tests := []struct {
		name       string
		edge       graph.Edge
		wantCypher string
		wantParams map[string]any
	}{
		{
			name: "structural edge",
			edge: graph.Edge{
				Type: graph.RelHasWeek,
				From: graph.NodeRef{Label: graph.LabelResource, ID: "r"},
				To:   graph.NodeRef{Label: graph.LabelWeek, ID: "r_w1"},
			},
			wantCypher: "MATCH (a:`Resource` {`resource_id`: $from}) MATCH (b:`Week` {`week_id`: $to}) " +
				"MERGE (a)-[r:`HAS_WEEK`]->(b) RETURN count(r) AS merged",
			wantParams: map[string]any{"from": "r", "to": "r_w1"},
		},
		{
			name: "prerequisite with identity and props",
			edge: graph.Edge{
				Type:     graph.RelPrerequisiteOf,
				From:     graph.NodeRef{Label: graph.LabelConcept, ID: "a"},
				To:       graph.NodeRef{Label: graph.LabelConcept, ID: "b"},
				Identity: map[string]any{"method": "inferred"},
				Props:    map[string]any{"evidence": "e"},
			},
			wantCypher: "MATCH (a:`Concept` {`concept_id`: $from}) MATCH (b:`Concept` {`concept_id`: $to}) " +
				"MERGE (a)-[r:`PREREQUISITE_OF` {`method`: $i0}]->(b) SET r += $props RETURN count(r) AS merged",
			wantParams: map[string]any{
				"from": "a", "to": "b", "i0": "inferred",
				"props": map[string]any{"evidence": "e"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := MergeEdgeQuery(tt.edge)
			assert.Equal(t, tt.wantCypher, q.Cypher)
			assert.Equal(t, tt.wantParams, q.Params)
		})
	}
}

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]any
		want graph.Constraint
	}{
		{
			name: "neo4j 5.0 uniqueness",
			row: map[string]any{
				"name": "week_id_unique", "type": "UNIQUENESS",
				"labelsOrTypes": []any{"Week"}, "properties": []any{"week_id"},
			},
			want: graph.RequiredConstraints[1],
		},
		{
			name: "later 5.x uniqueness",
			row: map[string]any{
				"name": "week_id_unique", "type": "NODE_PROPERTY_UNIQUENESS",
				"labelsOrTypes": []any{"Week"}, "properties": []any{"week_id"},
			},
			want: graph.RequiredConstraints[1],
		},
		{
			name: "composite node key",
			row: map[string]any{
				"name": "week_id_unique", "type": "NODE_KEY",
				"labelsOrTypes": []any{"Week"}, "properties": []any{"week_id", "week_number"},
			},
			want: graph.Constraint{
				Name: "week_id_unique", Label: graph.LabelWeek,
				Property: "week_id,week_number", Type: "NODE_KEY",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseConstraint(tt.row))
		})
	}
}

func TestParseIndex(t *testing.T) {
	got := parseIndex(map[string]any{
		"name": "concept_name_idx", "labelsOrTypes": []any{"Concept"}, "properties": []any{"name"},
	})
	assert.Equal(t, graph.RequiredIndexes[0], got)
}

func TestEdgeFromRow(t *testing.T) {
	e := edgeFromRow(map[string]any{
		"type":        "PREREQUISITE_OF",
		"from_labels": []any{"Concept"},
		"from_id":     "a",
		"to_labels":   []any{"Concept"},
		"to_id":       "b",
		"props":       map[string]any{"method": "inferred", "evidence": "e"},
	})
	assert.Equal(t, graph.Edge{
		Type:     graph.RelPrerequisiteOf,
		From:     graph.NodeRef{Label: graph.LabelConcept, ID: "a"},
		To:       graph.NodeRef{Label: graph.LabelConcept, ID: "b"},
		Identity: map[string]any{"method": "inferred"},
		Props:    map[string]any{"evidence": "e"},
	}, e)
}
