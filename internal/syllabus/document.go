// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadLines returns the non-blank lines of r, trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// ReadDocx returns the non-blank paragraph texts of a Word document, trimmed.
func ReadDocx(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document body: %w", err)
		}
		defer rc.Close()
		lines, err := docxParagraphs(rc)
		if err != nil {
			return nil, fmt.Errorf("parsing document body of %s: %w", path, err)
		}
		return lines, nil
	}
	return nil, fmt.Errorf("%s: no word/document.xml", path)
}

// docxParagraphs collects the text runs of each outermost w:p element,
// table cells included. Paragraphs nested inside another paragraph, such as
// text-box content, contribute nothing.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		lines  []string
		para   strings.Builder
		depth  int
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
				if depth == 1 {
					para.Reset()
				}
			case "t":
				inText = true
			case "tab":
				if depth == 1 {
					para.WriteByte('\t')
				}
			case "br":
				if depth == 1 {
					para.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				depth--
				if depth > 0 {
					continue
				}
				if line := strings.TrimSpace(para.String()); line != "" {
					lines = append(lines, line)
				}
				para.Reset()
			}
		case xml.CharData:
			if inText && depth == 1 {
				para.Write(t)
			}
		}
	}
	return lines, nil
}

// ReadDocument reads the lines of a .docx file or, for any other
// extension, a plain text file.
func ReadDocument(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return ReadDocx(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadLines(f)
}
