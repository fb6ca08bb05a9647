// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>WEEK ONE</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Whole </w:t></w:r><w:r><w:t>numbers</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>WEEK</w:t><w:tab/><w:t>TWO</w:t></w:r></w:p>
<w:p><w:r><w:t>Fractions</w:t></w:r></w:p>
</w:body>
</w:document>`

func writeDocx(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestReadDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme.docx")
	writeDocx(t, path, map[string]string{"word/document.xml": documentXML})

	lines, err := ReadDocx(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"WEEK ONE", "Whole numbers", "WEEK\tTWO", "Fractions"}, lines)

	topics := ExtractWeekTopics(lines)
	require.Len(t, topics, 2)
	assert.Equal(t, "Whole numbers", topics[0].Topic)
	assert.Equal(t, "Fractions", topics[1].Topic)
}

const nestedXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t xml:space="preserve">WEEK </w:t></w:r><w:r><w:drawing><w:txbxContent><w:p><w:r><w:t>Note</w:t></w:r></w:p></w:txbxContent></w:drawing></w:r><w:r><w:t>THREE</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Energy</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`

func TestReadDocxNestedParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxed.docx")
	writeDocx(t, path, map[string]string{"word/document.xml": nestedXML})

	lines, err := ReadDocx(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"WEEK THREE", "Energy"}, lines)
}

func TestReadDocxWithoutBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	writeDocx(t, path, map[string]string{"docProps/core.xml": "<x/>"})

	_, err := ReadDocx(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no word/document.xml")
}

func TestReadDocxNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ReadDocx(path)
	require.Error(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("  WEEK 1 \n\n\tSets\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"WEEK 1", "Sets"}, lines)
}

func TestReadDocumentPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme.txt")
	require.NoError(t, os.WriteFile(path, []byte("WEEK 1\nSets\n"), 0o644))

	lines, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"WEEK 1", "Sets"}, lines)
}
