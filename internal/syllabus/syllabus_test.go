// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

const mathsYAML = `title: Mathematics Scheme of Work
subject: Mathematics
term: First Term
class: JSS1
weeks:
  - week: 1
    topic: Whole numbers
  - week: 2
    topic: Fractions
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maths.yaml")
	writeFile(t, path, mathsYAML)

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", s.Subject)
	assert.Equal(t, "JSS1", s.Class)
	assert.Equal(t, path, s.Source)
	assert.Equal(t, []types.WeekTopic{{Week: 1, Topic: "Whole numbers"}, {Week: 2, Topic: "Fractions"}}, s.Weeks)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "weeks: [\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing syllabus")
}

func TestLoadPathsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.yml"), "subject: B\nterm: T\nclass: C\n")
	writeFile(t, filepath.Join(dir, "a.yaml"), "subject: A\nterm: T\nclass: C\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "nested", "c.yaml"), "subject: C\nterm: T\nclass: C\n")
	single := filepath.Join(t.TempDir(), "d.yaml")
	writeFile(t, single, "subject: D\nterm: T\nclass: C\n")

	got, err := LoadPaths([]string{dir, single})
	require.NoError(t, err)
	var subjects []string
	for _, s := range got {
		subjects = append(subjects, s.Subject)
	}
	assert.Equal(t, []string{"A", "B", "D"}, subjects)
}

func TestLoadPathsMissing(t *testing.T) {
	_, err := LoadPaths([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "s.yaml")
	in := types.Syllabus{
		Title: "Basic Science", Subject: "Basic Science", Term: "Second Term", Class: "JSS2",
		Weeks: []types.WeekTopic{{Week: 1, Topic: "Living things"}},
	}
	require.NoError(t, WriteFile(path, in))

	out, err := LoadFile(path)
	require.NoError(t, err)
	in.Source = path
	assert.Equal(t, in, out)
}
