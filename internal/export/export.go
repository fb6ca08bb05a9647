// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the curriculum graph as a YAML or JSON document
// grouped by resource.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml", or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Document is the exported graph.
type Document struct {
	Counts        graph.Counts         `json:"counts" yaml:"counts"`
	Resources     []ResourceEntry      `json:"resources" yaml:"resources"`
	Prerequisites []types.Prerequisite `json:"prerequisites" yaml:"prerequisites"`
}

// ResourceEntry is a resource with its weeks in week order.
type ResourceEntry struct {
	types.Resource `yaml:",inline"`
	Weeks          []WeekEntry `json:"weeks" yaml:"weeks"`
}

// WeekEntry is a week with the concepts it teaches.
type WeekEntry struct {
	WeekID     string          `json:"week_id" yaml:"week_id"`
	WeekNumber int             `json:"week_number" yaml:"week_number"`
	Concepts   []types.Concept `json:"concepts" yaml:"concepts"`
}

// Build reads a snapshot of s and groups it by resource.
func Build(ctx context.Context, s graph.Store) (*Document, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return FromSnapshot(snap), nil
}

// FromSnapshot groups snap by resource. Weeks without a HAS_WEEK edge and
// concepts without a TEACHES edge are left out.
func FromSnapshot(snap *graph.Snapshot) *Document {
	doc := &Document{Counts: snap.Counts(), Resources: []ResourceEntry{}, Prerequisites: []types.Prerequisite{}}

	nodes := make(map[graph.NodeRef]graph.Node, len(snap.Nodes))
	for _, n := range snap.Nodes {
		nodes[n.NodeRef] = n
	}

	weeksOf := map[string][]string{}
	conceptsOf := map[string][]string{}
	for _, e := range snap.Edges {
		switch e.Type {
		case graph.RelHasWeek:
			weeksOf[e.From.ID] = append(weeksOf[e.From.ID], e.To.ID)
		case graph.RelTeaches:
			conceptsOf[e.From.ID] = append(conceptsOf[e.From.ID], e.To.ID)
		case graph.RelPrerequisiteOf:
			doc.Prerequisites = append(doc.Prerequisites, types.Prerequisite{
				FromConceptID: e.From.ID,
				ToConceptID:   e.To.ID,
				Method:        str(e.Identity["method"]),
				Evidence:      str(e.Props["evidence"]),
			})
		}
	}
	sort.Slice(doc.Prerequisites, func(i, j int) bool {
		a, b := doc.Prerequisites[i], doc.Prerequisites[j]
		if a.FromConceptID != b.FromConceptID {
			return a.FromConceptID < b.FromConceptID
		}
		if a.ToConceptID != b.ToConceptID {
			return a.ToConceptID < b.ToConceptID
		}
		return a.Method < b.Method
	})

	for _, n := range snap.Nodes {
		if n.Label != graph.LabelResource {
			continue
		}
		entry := ResourceEntry{
			Resource: types.Resource{
				ResourceID: n.ID,
				Title:      str(n.Props["title"]),
				Subject:    str(n.Props["subject"]),
				Term:       str(n.Props["term"]),
				Class:      str(n.Props["class"]),
			},
			Weeks: []WeekEntry{},
		}
		for _, wid := range weeksOf[n.ID] {
			wn := nodes[graph.NodeRef{Label: graph.LabelWeek, ID: wid}]
			number, _ := graph.IntProp(wn.Props["week_number"])
			week := WeekEntry{WeekID: wid, WeekNumber: number, Concepts: []types.Concept{}}
			for _, cid := range conceptsOf[wid] {
				cn := nodes[graph.NodeRef{Label: graph.LabelConcept, ID: cid}]
				week.Concepts = append(week.Concepts, types.Concept{
					ConceptID: cid,
					Name:      str(cn.Props["name"]),
					Subject:   str(cn.Props["subject"]),
					Term:      str(cn.Props["term"]),
					Class:     str(cn.Props["class"]),
					WeekID:    wid,
				})
			}
			sort.Slice(week.Concepts, func(i, j int) bool { return week.Concepts[i].ConceptID < week.Concepts[j].ConceptID })
			entry.Weeks = append(entry.Weeks, week)
		}
		sort.Slice(entry.Weeks, func(i, j int) bool {
			if entry.Weeks[i].WeekNumber != entry.Weeks[j].WeekNumber {
				return entry.Weeks[i].WeekNumber < entry.Weeks[j].WeekNumber
			}
			return entry.Weeks[i].WeekID < entry.Weeks[j].WeekID
		})
		doc.Resources = append(doc.Resources, entry)
	}
	sort.Slice(doc.Resources, func(i, j int) bool { return doc.Resources[i].ResourceID < doc.Resources[j].ResourceID })
	return doc
}

// Encode writes doc to w in format f.
func Encode(w io.Writer, doc *Document, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	case FormatYAML:
		data, err = yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
	_, err = w.Write(data)
	return err
}

// WriteFile builds the document from s and writes it to path, creating
// parent directories as needed.
func WriteFile(ctx context.Context, s graph.Store, path string, f Format) error {
	doc, err := Build(ctx, s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(out, doc, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
