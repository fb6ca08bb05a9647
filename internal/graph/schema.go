// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"
)

// RequiredConstraints are the uniqueness constraints on each node key.
var RequiredConstraints = []Constraint{
	{Name: "resource_id_unique", Label: LabelResource, Property: "resource_id", Type: ConstraintUnique},
	{Name: "week_id_unique", Label: LabelWeek, Property: "week_id", Type: ConstraintUnique},
	{Name: "concept_id_unique", Label: LabelConcept, Property: "concept_id", Type: ConstraintUnique},
}

// RequiredIndexes are the lookup indexes.
var RequiredIndexes = []Index{
	{Name: "concept_name_idx", Label: LabelConcept, Property: "name"},
}

// SchemaSummary counts schema objects created and already present.
type SchemaSummary struct {
	Created  int
	Existing int
}

// EnsureSchema declares every required constraint and index that is not
// already present under its name. A same-named object with a different
// definition yields a *SchemaConflictError and nothing after it is
// declared. Running it again on a guarded store is a no-op.
func EnsureSchema(ctx context.Context, s Store) (SchemaSummary, error) {
	var summary SchemaSummary

	existing, err := s.Constraints(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing constraints: %w", err)
	}
	byName := make(map[string]Constraint, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	for _, want := range RequiredConstraints {
		have, ok := byName[want.Name]
		if ok {
			if have.Label != want.Label || have.Property != want.Property || have.Type != want.Type {
				return summary, &SchemaConflictError{Name: want.Name, Have: have.String(), Want: want.String()}
			}
			summary.Existing++
			continue
		}
		if err := s.CreateConstraint(ctx, want); err != nil {
			return summary, fmt.Errorf("creating constraint %s: %w", want.Name, err)
		}
		summary.Created++
	}

	indexes, err := s.Indexes(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing indexes: %w", err)
	}
	idxByName := make(map[string]Index, len(indexes))
	for _, i := range indexes {
		idxByName[i.Name] = i
	}

	for _, want := range RequiredIndexes {
		have, ok := idxByName[want.Name]
		if ok {
			if have.Label != want.Label || have.Property != want.Property {
				return summary, &SchemaConflictError{Name: want.Name, Have: have.String(), Want: want.String()}
			}
			summary.Existing++
			continue
		}
		if err := s.CreateIndex(ctx, want); err != nil {
			return summary, fmt.Errorf("creating index %s: %w", want.Name, err)
		}
		summary.Created++
	}

	return summary, nil
}
