// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"maps"
	"sort"
	"sync"
)

// MemoryStore is a Store held in process memory. Merges are atomic per key
// under a single mutex, so concurrent upserts are safe.
type MemoryStore struct {
	mu          sync.RWMutex
	constraints map[string]Constraint
	indexes     map[string]Index
	nodes       map[NodeRef]map[string]any
	edges       map[string]*Edge
	out         map[NodeRef][]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		constraints: map[string]Constraint{},
		indexes:     map[string]Index{},
		nodes:       map[NodeRef]map[string]any{},
		edges:       map[string]*Edge{},
		out:         map[NodeRef][]string{},
	}
}

func (m *MemoryStore) Constraints(ctx context.Context) ([]Constraint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Constraint, 0, len(m.constraints))
	for _, c := range m.constraints {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) Indexes(ctx context.Context) ([]Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Index, 0, len(m.indexes))
	for _, i := range m.indexes {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) CreateConstraint(ctx context.Context, c Constraint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.constraints[c.Name]; !ok {
		m.constraints[c.Name] = c
	}
	return nil
}

func (m *MemoryStore) CreateIndex(ctx context.Context, i Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[i.Name]; !ok {
		m.indexes[i.Name] = i
	}
	return nil
}

func (m *MemoryStore) MergeNode(ctx context.Context, n Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	props, ok := m.nodes[n.NodeRef]
	if !ok {
		props = map[string]any{}
		m.nodes[n.NodeRef] = props
	}
	for k, v := range n.Props {
		if k == n.Label.KeyProperty() {
			continue
		}
		props[k] = v
	}
	return nil
}

func (m *MemoryStore) MergeEdge(ctx context.Context, e Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[e.From]; !ok {
		return ErrNodeNotFound
	}
	if _, ok := m.nodes[e.To]; !ok {
		return ErrNodeNotFound
	}
	key := e.Key()
	existing, ok := m.edges[key]
	if !ok {
		existing = &Edge{
			Type:     e.Type,
			From:     e.From,
			To:       e.To,
			Identity: maps.Clone(e.Identity),
			Props:    map[string]any{},
		}
		m.edges[key] = existing
		m.out[e.From] = append(m.out[e.From], key)
	}
	maps.Copy(existing.Props, e.Props)
	return nil
}

func (m *MemoryStore) HasNode(ctx context.Context, ref NodeRef) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[ref]
	return ok, nil
}

func (m *MemoryStore) ResourceIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for ref := range m.nodes {
		if ref.Label == LabelResource {
			ids = append(ids, ref.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) WeekConcepts(ctx context.Context, resourceID string) ([]WeekConcept, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []WeekConcept
	for _, key := range m.out[NodeRef{Label: LabelResource, ID: resourceID}] {
		hasWeek := m.edges[key]
		if hasWeek.Type != RelHasWeek || hasWeek.To.Label != LabelWeek {
			continue
		}
		week := hasWeek.To
		number, _ := IntProp(m.nodes[week]["week_number"])
		taught := 0
		for _, tkey := range m.out[week] {
			teaches := m.edges[tkey]
			if teaches.Type != RelTeaches || teaches.To.Label != LabelConcept {
				continue
			}
			rows = append(rows, WeekConcept{WeekID: week.ID, WeekNumber: number, ConceptID: teaches.To.ID})
			taught++
		}
		if taught == 0 {
			rows = append(rows, WeekConcept{WeekID: week.ID, WeekNumber: number})
		}
	}
	return rows, nil
}

func (m *MemoryStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := &Snapshot{
		Nodes: make([]Node, 0, len(m.nodes)),
		Edges: make([]Edge, 0, len(m.edges)),
	}
	for ref, props := range m.nodes {
		s.Nodes = append(s.Nodes, Node{NodeRef: ref, Props: maps.Clone(props)})
	}
	for _, e := range m.edges {
		s.Edges = append(s.Edges, Edge{
			Type:     e.Type,
			From:     e.From,
			To:       e.To,
			Identity: maps.Clone(e.Identity),
			Props:    maps.Clone(e.Props),
		})
	}
	SortSnapshot(s)
	return s, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
