// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned by stores when an edge endpoint does not exist.
var ErrNodeNotFound = errors.New("node not found")

// SchemaConflictError reports a same-named constraint or index whose
// definition differs from the required one. It aborts a load.
type SchemaConflictError struct {
	Name string
	Have string
	Want string
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict: %s is defined as %s, want %s", e.Name, e.Have, e.Want)
}

// DanglingReferenceError reports an upsert whose parent entity has not
// been created yet. Only the offending record is skipped.
type DanglingReferenceError struct {
	// Kind and ID identify the entity being upserted.
	Kind Label
	ID   string

	// Missing is the parent the upsert depends on.
	Missing NodeRef

	// Reason is set when the parent exists but does not match, e.g. a week
	// of another resource.
	Reason string
}

func (e *DanglingReferenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("dangling reference: %s %q: %s", e.Kind, e.ID, e.Reason)
	}
	return fmt.Sprintf("dangling reference: %s %q requires %s which does not exist", e.Kind, e.ID, e.Missing)
}

// MalformedKeyError reports a field needed for a natural key that is empty
// or unparseable.
type MalformedKeyError struct {
	Kind  Label
	Field string
	Value string

	// Context names the enclosing entity, usually a resource_id.
	Context string
}

func (e *MalformedKeyError) Error() string {
	msg := fmt.Sprintf("malformed key for %s: %s %q", e.Kind, e.Field, e.Value)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// IsRecordError reports whether err only invalidates the record that
// caused it, so a batch can continue.
func IsRecordError(err error) bool {
	var dangling *DanglingReferenceError
	var malformed *MalformedKeyError
	return errors.As(err, &dangling) || errors.As(err, &malformed)
}
