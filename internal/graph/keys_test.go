// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Living and Non-Living Things", "living_and_nonliving_things"},
		{"  Family   Health: Sanitation  ", "family_health_sanitation"},
		{"AND EIGHT", "and_eight"},
		{"Energy (Forms & Sources)", "energy_forms_sources"},
		{"already_snake_case", "already_snake_case"},
		{"Living\u00a0Things", "living_things"},
		{"Living \u2003\u00a0Things\u202f", "living_things"},
		{"Tab\vand\u3000Space", "tab_and_space"},
		{"?!--", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestSlugCapsLength(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := Slug(long)
	assert.Len(t, got, maxSlugLen)
	assert.Equal(t, strings.Repeat("word_", 16), got, "cut keeps a trailing underscore")
}

func TestSlugNonBreakingSpaceMatchesSpace(t *testing.T) {
	assert.Equal(t, Slug("Living Things"), Slug("Living\u00a0Things"))

	a, err := ConceptID("r1", "Human\u00a0Body")
	require.NoError(t, err)
	b, err := ConceptID("r1", "Human Body")
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestResourceID(t *testing.T) {
	id, err := ResourceID("Basic Science", "First Term", "JSS1")
	require.NoError(t, err)
	assert.Equal(t, "jss1_basic_science_first_term", id)

	again, err := ResourceID(" basic science ", "FIRST TERM", "jss1")
	require.NoError(t, err)
	assert.Equal(t, id, again, "key must be stable across spacing and case")
}

func TestResourceIDMalformed(t *testing.T) {
	tests := []struct {
		name                 string
		subject, term, class string
		wantField            string
	}{
		{"empty subject", "", "First Term", "JSS1", "subject"},
		{"blank term", "Basic Science", "   ", "JSS1", "term"},
		{"punctuation class", "Basic Science", "First Term", "--", "class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResourceID(tt.subject, tt.term, tt.class)
			var mk *MalformedKeyError
			require.True(t, errors.As(err, &mk), "want MalformedKeyError, got %v", err)
			assert.Equal(t, tt.wantField, mk.Field)
			assert.Equal(t, LabelResource, mk.Kind)
		})
	}
}

func TestWeekID(t *testing.T) {
	id, err := WeekID("jss1_basic_science_first_term", 3)
	require.NoError(t, err)
	assert.Equal(t, "jss1_basic_science_first_term_w3", id)

	for _, n := range []int{0, -1} {
		_, err := WeekID("r", n)
		var mk *MalformedKeyError
		require.ErrorAs(t, err, &mk)
		assert.Equal(t, "week_number", mk.Field)
	}

	_, err = WeekID("", 1)
	var mk *MalformedKeyError
	require.ErrorAs(t, err, &mk)
	assert.Equal(t, "resource_id", mk.Field)
}

func TestConceptID(t *testing.T) {
	id, err := ConceptID("r1", "Human Body: Skeletal System")
	require.NoError(t, err)
	assert.Equal(t, "r1_c_human_body_skeletal_system", id)

	_, err = ConceptID("r1", "***")
	var mk *MalformedKeyError
	require.ErrorAs(t, err, &mk)
	assert.Equal(t, "name", mk.Field)
	assert.Contains(t, err.Error(), "r1")
}
