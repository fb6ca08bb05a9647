// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neo4jstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/curriculum-graph/internal/graph"
)

// Query is a parameterized Cypher statement.
type Query struct {
	Cypher string
	Params map[string]any
}

// Ident backtick-quotes a label, relationship type, property, or schema
// name so it can be spliced into Cypher.
func Ident(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// CreateConstraintQuery declares a uniqueness constraint if absent.
func CreateConstraintQuery(c graph.Constraint) Query {
	return Query{Cypher: fmt.Sprintf(
		"CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
		Ident(c.Name), Ident(string(c.Label)), Ident(c.Property),
	)}
}

// CreateIndexQuery declares a range index if absent.
func CreateIndexQuery(i graph.Index) Query {
	return Query{Cypher: fmt.Sprintf(
		"CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (n.%s)",
		Ident(i.Name), Ident(string(i.Label)), Ident(i.Property),
	)}
}

// MergeNodeQuery merges a node by its key and sets its properties.
func MergeNodeQuery(n graph.Node) Query {
	props := make(map[string]any, len(n.Props))
	for k, v := range n.Props {
		if k != n.Label.KeyProperty() {
			props[k] = v
		}
	}
	return Query{
		Cypher: fmt.Sprintf("MERGE (n:%s {%s: $id}) SET n += $props",
			Ident(string(n.Label)), Ident(n.Label.KeyProperty())),
		Params: map[string]any{"id": n.ID, "props": props},
	}
}

// MergeEdgeQuery matches both endpoints, merges the relationship on its
// identity properties, and sets the remaining properties. It returns one
// row with the merged count, which is 0 when an endpoint is missing.
func MergeEdgeQuery(e graph.Edge) Query {
	params := map[string]any{"from": e.From.ID, "to": e.To.ID}

	keys := make([]string, 0, len(e.Identity))
	for k := range e.Identity {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	identity := ""
	if len(keys) > 0 {
		parts := make([]string, len(keys))
		for i, k := range keys {
			p := fmt.Sprintf("i%d", i)
			parts[i] = fmt.Sprintf("%s: $%s", Ident(k), p)
			params[p] = e.Identity[k]
		}
		identity = " {" + strings.Join(parts, ", ") + "}"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (a:%s {%s: $from}) ", Ident(string(e.From.Label)), Ident(e.From.Label.KeyProperty()))
	fmt.Fprintf(&b, "MATCH (b:%s {%s: $to}) ", Ident(string(e.To.Label)), Ident(e.To.Label.KeyProperty()))
	fmt.Fprintf(&b, "MERGE (a)-[r:%s%s]->(b)", Ident(string(e.Type)), identity)
	if len(e.Props) > 0 {
		b.WriteString(" SET r += $props")
		params["props"] = e.Props
	}
	b.WriteString(ReturnMerged)
	return Query{Cypher: b.String(), Params: params}
}

// ReturnMerged ends every MergeEdgeQuery.
const ReturnMerged = " RETURN count(r) AS merged"

// HasNodeQuery counts nodes with the given key.
func HasNodeQuery(ref graph.NodeRef) Query {
	return Query{
		Cypher: fmt.Sprintf("MATCH (n:%s {%s: $id}) RETURN count(n) AS found",
			Ident(string(ref.Label)), Ident(ref.Label.KeyProperty())),
		Params: map[string]any{"id": ref.ID},
	}
}

const (
	showConstraints = `SHOW CONSTRAINTS YIELD name, type, labelsOrTypes, properties`

	showIndexes = `SHOW INDEXES YIELD name, type, entityType, labelsOrTypes, properties, owningConstraint
WHERE owningConstraint IS NULL AND entityType = 'NODE' AND type <> 'LOOKUP'
RETURN name, labelsOrTypes, properties`

	resourceIDs = `MATCH (r:Resource) RETURN r.resource_id AS id ORDER BY id`

	weekConcepts = `MATCH (:Resource {resource_id: $resource_id})-[:HAS_WEEK]->(w:Week)
OPTIONAL MATCH (w)-[:TEACHES]->(c:Concept)
RETURN w.week_id AS week_id, w.week_number AS week_number, c.concept_id AS concept_id
ORDER BY week_number, concept_id`

	snapshotNodes = `MATCH (n) WHERE n:Resource OR n:Week OR n:Concept
RETURN labels(n) AS labels, properties(n) AS props`

	snapshotEdges = `MATCH (a)-[r]->(b) WHERE type(r) IN $types
RETURN type(r) AS type,
       labels(a) AS from_labels, coalesce(a.resource_id, a.week_id, a.concept_id) AS from_id,
       labels(b) AS to_labels, coalesce(b.resource_id, b.week_id, b.concept_id) AS to_id,
       properties(r) AS props`
)

// identityKeys lists the relationship properties that take part in edge
// identity, so a snapshot read back from Neo4j splits them out again.
var identityKeys = map[graph.RelType][]string{
	graph.RelPrerequisiteOf: {"method"},
}

var knownLabels = []graph.Label{graph.LabelResource, graph.LabelWeek, graph.LabelConcept}

// pickLabel returns the first curriculum label in labels.
func pickLabel(labels []any) (graph.Label, bool) {
	for _, l := range labels {
		s, _ := l.(string)
		for _, known := range knownLabels {
			if graph.Label(s) == known {
				return known, true
			}
		}
	}
	return "", false
}

// parseConstraint converts a SHOW CONSTRAINTS row. Neo4j 5 reports
// uniqueness as "UNIQUENESS" or "NODE_PROPERTY_UNIQUENESS" depending on
// the server version.
func parseConstraint(row map[string]any) graph.Constraint {
	c := graph.Constraint{
		Name:     asString(row["name"]),
		Label:    graph.Label(joinStrings(row["labelsOrTypes"])),
		Property: joinStrings(row["properties"]),
		Type:     graph.ConstraintType(asString(row["type"])),
	}
	switch c.Type {
	case "UNIQUENESS", "NODE_PROPERTY_UNIQUENESS":
		c.Type = graph.ConstraintUnique
	}
	return c
}

func parseIndex(row map[string]any) graph.Index {
	return graph.Index{
		Name:     asString(row["name"]),
		Label:    graph.Label(joinStrings(row["labelsOrTypes"])),
		Property: joinStrings(row["properties"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// joinStrings flattens a list value into a comma-separated string so
// composite definitions never compare equal to single-property ones.
func joinStrings(v any) string {
	list, _ := v.([]any)
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, asString(item))
	}
	return strings.Join(parts, ",")
}
