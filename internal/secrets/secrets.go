// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads store credentials from a directory of plain-text
// files. The filename is the key and the trimmed contents are the value.
//
// Recognized keys: neo4j-user, neo4j-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/curriculum-graph/internal/logger"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

const (
	DefaultDir       = ".secrets"
	KeyNeo4jUser     = "neo4j-user"
	KeyNeo4jPassword = "neo4j-password"
)

// Load returns the non-empty secrets in dir. A missing directory yields an
// empty map; unreadable files are logged and skipped.
func Load(dir string, log *logger.Logger) (map[string]string, error) {
	if log == nil {
		log = logger.Nop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping unreadable secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// ApplyNeo4j fills the user and password of cfg from secrets when they are
// not already set. It reports which fields it filled.
func ApplyNeo4j(cfg *types.Neo4jConfig, secrets map[string]string) []string {
	var filled []string
	if cfg.User == "" && secrets[KeyNeo4jUser] != "" {
		cfg.User = secrets[KeyNeo4jUser]
		filled = append(filled, "user")
	}
	if cfg.Password == "" && secrets[KeyNeo4jPassword] != "" {
		cfg.Password = secrets[KeyNeo4jPassword]
		filled = append(filled, "password")
	}
	return filled
}
