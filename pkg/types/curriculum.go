// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the curriculum domain records and configuration
// structs shared by the graph core, the stores, and the CLI.
package types

// Resource is one syllabus document scoped to a subject, class, and term.
// ResourceID is derived from Subject, Term, and Class and never changes;
// the other attributes are refreshed on every load.
type Resource struct {
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	Title      string `json:"title" yaml:"title"`
	Subject    string `json:"subject" yaml:"subject"`
	Term       string `json:"term" yaml:"term"`
	Class      string `json:"class" yaml:"class"`
}

// Week is an ordered teaching slot owned by exactly one Resource.
type Week struct {
	WeekID string `json:"week_id" yaml:"week_id"`

	// WeekNumber is positive but need not be contiguous within a Resource.
	WeekNumber int `json:"week_number" yaml:"week_number"`

	// ResourceID names the owning Resource. It is not stored on the node;
	// ownership lives on the HAS_WEEK edge.
	ResourceID string `json:"-" yaml:"-"`
}

// Concept is a single topic taught within a Week. Subject, Term, and Class
// are copied from the owning Resource.
type Concept struct {
	ConceptID string `json:"concept_id" yaml:"concept_id"`
	Name      string `json:"name" yaml:"name"`
	Subject   string `json:"subject" yaml:"subject"`
	Term      string `json:"term" yaml:"term"`
	Class     string `json:"class" yaml:"class"`

	// WeekID names the Week that TEACHES this concept in the current load.
	WeekID string `json:"-" yaml:"-"`
}

// Prerequisite is a derived PREREQUISITE_OF edge from one concept to another.
type Prerequisite struct {
	FromConceptID string `json:"from" yaml:"from"`
	ToConceptID   string `json:"to" yaml:"to"`

	// Method is the provenance tag, e.g. "inferred". It is part of the
	// edge identity together with both endpoints.
	Method string `json:"method" yaml:"method"`

	// Evidence is a free-text justification for the edge.
	Evidence string `json:"evidence" yaml:"evidence"`
}
