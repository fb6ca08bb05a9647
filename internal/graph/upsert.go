// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// Upserter creates or matches Resource, Week, and Concept nodes and the
// HAS_WEEK and TEACHES edges between them. Every call is idempotent per
// natural key, so calls may be repeated or reordered across records.
type Upserter struct {
	store Store
}

// NewUpserter returns an Upserter writing to s.
func NewUpserter(s Store) *Upserter {
	return &Upserter{store: s}
}

// UpsertResource merges the Resource keyed by (subject, term, class) and
// overwrites its title, subject, term, and class.
func (u *Upserter) UpsertResource(ctx context.Context, subject, term, class, title string) (types.Resource, error) {
	id, err := ResourceID(subject, term, class)
	if err != nil {
		return types.Resource{}, err
	}
	r := types.Resource{
		ResourceID: id,
		Title:      strings.TrimSpace(title),
		Subject:    strings.TrimSpace(subject),
		Term:       strings.TrimSpace(term),
		Class:      strings.TrimSpace(class),
	}

	err = u.store.MergeNode(ctx, Node{
		NodeRef: NodeRef{Label: LabelResource, ID: id},
		Props: map[string]any{
			"title":   r.Title,
			"subject": r.Subject,
			"term":    r.Term,
			"class":   r.Class,
		},
	})
	if err != nil {
		return types.Resource{}, fmt.Errorf("merging resource %s: %w", id, err)
	}
	return r, nil
}

// UpsertWeek merges the Week keyed by (resource_id, week number) and the
// single HAS_WEEK edge from r to it. r must already exist.
func (u *Upserter) UpsertWeek(ctx context.Context, r types.Resource, weekNumber int) (types.Week, error) {
	id, err := WeekID(r.ResourceID, weekNumber)
	if err != nil {
		return types.Week{}, err
	}
	parent := NodeRef{Label: LabelResource, ID: r.ResourceID}
	if err := u.requireNode(ctx, LabelWeek, id, parent); err != nil {
		return types.Week{}, err
	}

	ref := NodeRef{Label: LabelWeek, ID: id}
	err = u.store.MergeNode(ctx, Node{
		NodeRef: ref,
		Props:   map[string]any{"week_number": weekNumber},
	})
	if err != nil {
		return types.Week{}, fmt.Errorf("merging week %s: %w", id, err)
	}
	if err := u.mergeEdge(ctx, Edge{Type: RelHasWeek, From: parent, To: ref}); err != nil {
		return types.Week{}, err
	}

	return types.Week{WeekID: id, WeekNumber: weekNumber, ResourceID: r.ResourceID}, nil
}

// UpsertConcept merges the Concept keyed by (resource_id, slug of name),
// copies subject, term, and class from r, and merges the single TEACHES
// edge from w. Both r and w must already exist, and w must belong to r.
func (u *Upserter) UpsertConcept(ctx context.Context, r types.Resource, w types.Week, name string) (types.Concept, error) {
	id, err := ConceptID(r.ResourceID, name)
	if err != nil {
		return types.Concept{}, err
	}
	if w.WeekID == "" {
		return types.Concept{}, &MalformedKeyError{Kind: LabelConcept, Field: "week_id", Context: r.ResourceID}
	}
	if w.ResourceID != "" && w.ResourceID != r.ResourceID {
		return types.Concept{}, &DanglingReferenceError{
			Kind:    LabelConcept,
			ID:      id,
			Missing: NodeRef{Label: LabelWeek, ID: w.WeekID},
			Reason:  fmt.Sprintf("week %s belongs to resource %s, not %s", w.WeekID, w.ResourceID, r.ResourceID),
		}
	}
	if err := u.requireNode(ctx, LabelConcept, id, NodeRef{Label: LabelResource, ID: r.ResourceID}); err != nil {
		return types.Concept{}, err
	}
	week := NodeRef{Label: LabelWeek, ID: w.WeekID}
	if err := u.requireNode(ctx, LabelConcept, id, week); err != nil {
		return types.Concept{}, err
	}

	c := types.Concept{
		ConceptID: id,
		Name:      strings.TrimSpace(name),
		Subject:   r.Subject,
		Term:      r.Term,
		Class:     r.Class,
		WeekID:    w.WeekID,
	}
	ref := NodeRef{Label: LabelConcept, ID: id}
	err = u.store.MergeNode(ctx, Node{
		NodeRef: ref,
		Props: map[string]any{
			"name":    c.Name,
			"subject": c.Subject,
			"term":    c.Term,
			"class":   c.Class,
		},
	})
	if err != nil {
		return types.Concept{}, fmt.Errorf("merging concept %s: %w", id, err)
	}
	if err := u.mergeEdge(ctx, Edge{Type: RelTeaches, From: week, To: ref}); err != nil {
		return types.Concept{}, err
	}
	return c, nil
}

func (u *Upserter) requireNode(ctx context.Context, kind Label, id string, parent NodeRef) error {
	ok, err := u.store.HasNode(ctx, parent)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", parent, err)
	}
	if !ok {
		return &DanglingReferenceError{Kind: kind, ID: id, Missing: parent}
	}
	return nil
}

func (u *Upserter) mergeEdge(ctx context.Context, e Edge) error {
	if err := u.store.MergeEdge(ctx, e); err != nil {
		return fmt.Errorf("merging %s edge %s -> %s: %w", e.Type, e.From.ID, e.To.ID, err)
	}
	return nil
}
