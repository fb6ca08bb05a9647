// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const maxSlugLen = 80

// slugWhite is any Unicode whitespace, including the non-breaking spaces
// Word documents carry.
const slugWhite = `\s\v\p{Z}\x{1c}-\x{1f}\x{85}`

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9_` + slugWhite + `]`)
	slugSpace = regexp.MustCompile(`[` + slugWhite + `]+`)
)

// Slug lowercases s, drops everything but ASCII letters, digits,
// whitespace and underscores, joins words with underscores, and cuts the
// result at 80 bytes. It returns "" when nothing survives.
func Slug(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// ResourceID derives the natural key of a Resource from its class,
// subject, and term, e.g. "jss1_basic_science_first_term".
func ResourceID(subject, term, class string) (string, error) {
	parts := make([]string, 0, 3)
	for _, f := range []struct{ name, value string }{
		{"class", class},
		{"subject", subject},
		{"term", term},
	} {
		s := Slug(f.value)
		if s == "" {
			return "", &MalformedKeyError{Kind: LabelResource, Field: f.name, Value: f.value}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "_"), nil
}

// WeekID derives the natural key of a Week: "<resource_id>_w<number>".
func WeekID(resourceID string, weekNumber int) (string, error) {
	if strings.TrimSpace(resourceID) == "" {
		return "", &MalformedKeyError{Kind: LabelWeek, Field: "resource_id", Value: resourceID}
	}
	if weekNumber < 1 {
		return "", &MalformedKeyError{
			Kind: LabelWeek, Field: "week_number", Value: strconv.Itoa(weekNumber), Context: resourceID,
		}
	}
	return fmt.Sprintf("%s_w%d", resourceID, weekNumber), nil
}

// ConceptID derives the natural key of a Concept: "<resource_id>_c_<slug>".
func ConceptID(resourceID, name string) (string, error) {
	if strings.TrimSpace(resourceID) == "" {
		return "", &MalformedKeyError{Kind: LabelConcept, Field: "resource_id", Value: resourceID}
	}
	s := Slug(name)
	if s == "" {
		return "", &MalformedKeyError{Kind: LabelConcept, Field: "name", Value: name, Context: resourceID}
	}
	return resourceID + "_c_" + s, nil
}
