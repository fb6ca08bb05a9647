// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

const (
	// MethodInferred tags edges derived from week adjacency.
	MethodInferred = "inferred"

	// EvidenceWeekOrdering is the justification stored on inferred edges.
	EvidenceWeekOrdering = "Week ordering in scheme of work"
)

// InferPrerequisites derives PREREQUISITE_OF edges from the projection
// rows of a single Resource. Every concept of week n links to every
// concept of week n+1; a missing week number breaks the chain. Weeks
// without concepts contribute no endpoints. A concept taught in two
// adjacent weeks links to itself. The result is sorted and free of
// duplicates.
func InferPrerequisites(rows []WeekConcept) []types.Prerequisite {
	byWeek := make(map[int][]string)
	seenConcept := make(map[int]map[string]bool)
	for _, row := range rows {
		if _, ok := byWeek[row.WeekNumber]; !ok {
			byWeek[row.WeekNumber] = nil
			seenConcept[row.WeekNumber] = map[string]bool{}
		}
		if row.ConceptID == "" || seenConcept[row.WeekNumber][row.ConceptID] {
			continue
		}
		seenConcept[row.WeekNumber][row.ConceptID] = true
		byWeek[row.WeekNumber] = append(byWeek[row.WeekNumber], row.ConceptID)
	}

	numbers := make([]int, 0, len(byWeek))
	for n := range byWeek {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var out []types.Prerequisite
	seen := make(map[[2]string]bool)
	for i := 0; i+1 < len(numbers); i++ {
		if numbers[i+1] != numbers[i]+1 {
			continue
		}
		for _, from := range byWeek[numbers[i]] {
			for _, to := range byWeek[numbers[i+1]] {
				pair := [2]string{from, to}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				out = append(out, types.Prerequisite{
					FromConceptID: from,
					ToConceptID:   to,
					Method:        MethodInferred,
					Evidence:      EvidenceWeekOrdering,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].FromConceptID != out[j].FromConceptID {
			return out[i].FromConceptID < out[j].FromConceptID
		}
		return out[i].ToConceptID < out[j].ToConceptID
	})
	return out
}

// PrerequisiteEdge converts a derived prerequisite into a store edge whose
// identity is (source, target, method).
func PrerequisiteEdge(p types.Prerequisite) Edge {
	return Edge{
		Type:     RelPrerequisiteOf,
		From:     NodeRef{Label: LabelConcept, ID: p.FromConceptID},
		To:       NodeRef{Label: LabelConcept, ID: p.ToConceptID},
		Identity: map[string]any{"method": p.Method},
		Props:    map[string]any{"evidence": p.Evidence},
	}
}

// Inferencer applies InferPrerequisites to the committed state of a store.
// It must not run while upserts for the same Resource are in flight.
type Inferencer struct {
	store Store
}

// NewInferencer returns an Inferencer over s.
func NewInferencer(s Store) *Inferencer {
	return &Inferencer{store: s}
}

// InferSummary counts resources visited and edges merged by one pass.
type InferSummary struct {
	Resources int
	Edges     int
}

// Run derives and merges prerequisite edges for the given resources, or
// for every Resource in the store when none are given. Re-running on an
// unchanged graph merges the same edges and creates nothing new.
func (in *Inferencer) Run(ctx context.Context, resourceIDs ...string) (InferSummary, error) {
	var summary InferSummary

	if len(resourceIDs) == 0 {
		ids, err := in.store.ResourceIDs(ctx)
		if err != nil {
			return summary, fmt.Errorf("listing resources: %w", err)
		}
		resourceIDs = ids
	}

	for _, id := range resourceIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rows, err := in.store.WeekConcepts(ctx, id)
		if err != nil {
			return summary, fmt.Errorf("reading weeks of %s: %w", id, err)
		}
		for _, p := range InferPrerequisites(rows) {
			if err := in.store.MergeEdge(ctx, PrerequisiteEdge(p)); err != nil {
				return summary, fmt.Errorf("merging prerequisite %s -> %s: %w", p.FromConceptID, p.ToConceptID, err)
			}
			summary.Edges++
		}
		summary.Resources++
	}
	return summary, nil
}
