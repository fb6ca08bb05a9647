// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph builds the curriculum knowledge graph: it declares the
// schema, upserts Resource, Week, and Concept nodes with their structural
// edges, and derives PREREQUISITE_OF edges from week ordering.
//
// The package talks to storage only through Store, a create-or-match
// protocol keyed by natural identifiers, so every rule here runs the same
// against Neo4j, SQLite, or the in-memory store.
package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Label is a node kind.
type Label string

const (
	LabelResource Label = "Resource"
	LabelWeek     Label = "Week"
	LabelConcept  Label = "Concept"
)

// KeyProperty returns the natural key property of the label.
func (l Label) KeyProperty() string {
	switch l {
	case LabelResource:
		return "resource_id"
	case LabelWeek:
		return "week_id"
	case LabelConcept:
		return "concept_id"
	}
	return "id"
}

// RelType is a relationship type.
type RelType string

const (
	RelHasWeek        RelType = "HAS_WEEK"
	RelTeaches        RelType = "TEACHES"
	RelPrerequisiteOf RelType = "PREREQUISITE_OF"
)

// NodeRef identifies a node by label and natural key value.
type NodeRef struct {
	Label Label `json:"label" yaml:"label"`
	ID    string `json:"id" yaml:"id"`
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%s(%s)", r.Label, r.ID)
}

// Node is a node to merge. Props never carries the key property; stores
// set it from the NodeRef.
type Node struct {
	NodeRef `yaml:",inline"`
	Props   map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Edge is a relationship to merge between two existing nodes. Identity
// properties take part in matching; Props are set after the merge.
type Edge struct {
	Type     RelType        `json:"type" yaml:"type"`
	From     NodeRef        `json:"from" yaml:"from"`
	To       NodeRef        `json:"to" yaml:"to"`
	Identity map[string]any `json:"identity,omitempty" yaml:"identity,omitempty"`
	Props    map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Key returns a canonical string for the edge identity: type, endpoints,
// and identity properties in sorted order.
func (e Edge) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s", e.Type, e.From, e.To)
	keys := make([]string, 0, len(e.Identity))
	for k := range e.Identity {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%v", k, e.Identity[k])
	}
	return b.String()
}

// ConstraintType is the kind of a schema constraint.
type ConstraintType string

const ConstraintUnique ConstraintType = "UNIQUENESS"

// Constraint is a named schema constraint on one label property.
type Constraint struct {
	Name     string
	Label    Label
	Property string
	Type     ConstraintType
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s on :%s(%s)", c.Type, c.Label, c.Property)
}

// Index is a named lookup index on one label property.
type Index struct {
	Name     string
	Label    Label
	Property string
}

func (i Index) String() string {
	return fmt.Sprintf("INDEX on :%s(%s)", i.Label, i.Property)
}

// WeekConcept is one projection row for a Resource: a week and a concept
// it teaches. ConceptID is empty for a week that teaches nothing.
type WeekConcept struct {
	WeekID     string
	WeekNumber int
	ConceptID  string
}

// Snapshot is every node and edge in the store, ordered deterministically.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Counts tallies nodes per label and edges per type.
type Counts struct {
	Nodes map[Label]int   `json:"nodes" yaml:"nodes"`
	Edges map[RelType]int `json:"edges" yaml:"edges"`
}

// Counts summarizes the snapshot.
func (s *Snapshot) Counts() Counts {
	c := Counts{Nodes: map[Label]int{}, Edges: map[RelType]int{}}
	for _, n := range s.Nodes {
		c.Nodes[n.Label]++
	}
	for _, e := range s.Edges {
		c.Edges[e.Type]++
	}
	return c
}

// Store is the graph storage protocol: declare schema if absent, merge
// nodes by key, merge edges between known nodes, and read back the
// projection the inferencer needs.
type Store interface {
	// Constraints lists the constraints that exist in the store.
	Constraints(ctx context.Context) ([]Constraint, error)

	// Indexes lists the lookup indexes that exist in the store.
	Indexes(ctx context.Context) ([]Index, error)

	// CreateConstraint declares c if no constraint of that name exists.
	CreateConstraint(ctx context.Context, c Constraint) error

	// CreateIndex declares i if no index of that name exists.
	CreateIndex(ctx context.Context, i Index) error

	// MergeNode creates or matches the node by key, then sets Props.
	MergeNode(ctx context.Context, n Node) error

	// MergeEdge creates or matches the edge by Key, then sets Props.
	// It returns ErrNodeNotFound when either endpoint is missing.
	MergeEdge(ctx context.Context, e Edge) error

	// HasNode reports whether the node exists.
	HasNode(ctx context.Context, ref NodeRef) (bool, error)

	// ResourceIDs lists every Resource key in ascending order.
	ResourceIDs(ctx context.Context) ([]string, error)

	// WeekConcepts returns the (week, concept) rows of one Resource.
	WeekConcepts(ctx context.Context, resourceID string) ([]WeekConcept, error)

	// Snapshot reads every node and edge.
	Snapshot(ctx context.Context) (*Snapshot, error)

	Close() error
}

// SortSnapshot orders nodes by label and key, edges by Key.
func SortSnapshot(s *Snapshot) {
	sort.Slice(s.Nodes, func(i, j int) bool {
		if s.Nodes[i].Label != s.Nodes[j].Label {
			return s.Nodes[i].Label < s.Nodes[j].Label
		}
		return s.Nodes[i].ID < s.Nodes[j].ID
	})
	sort.Slice(s.Edges, func(i, j int) bool {
		return s.Edges[i].Key() < s.Edges[j].Key()
	})
}

// IntProp converts a numeric property value read back from a store.
func IntProp(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}
