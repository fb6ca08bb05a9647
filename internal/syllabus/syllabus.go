// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syllabus reads the ingress records of a load: syllabus YAML
// files, and week/topic lists extracted from scheme-of-work documents.
package syllabus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// LoadFile reads one syllabus YAML file.
func LoadFile(path string) (types.Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Syllabus{}, fmt.Errorf("reading syllabus %s: %w", path, err)
	}
	var s types.Syllabus
	if err := yaml.Unmarshal(data, &s); err != nil {
		return types.Syllabus{}, fmt.Errorf("parsing syllabus %s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// LoadPaths reads every path given. Directories contribute their *.yaml
// and *.yml files in name order; subdirectories are not descended into.
func LoadPaths(paths []string) ([]types.Syllabus, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}

	out := make([]types.Syllabus, 0, len(files))
	for _, f := range files {
		s, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteFile writes s as YAML to path.
func WriteFile(path string, s types.Syllabus) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
