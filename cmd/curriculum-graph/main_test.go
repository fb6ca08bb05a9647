// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), strings.Join(args, " "))
	return out.String()
}

const schemeOfWork = `MATHEMATICS SCHEME OF WORK
WEEK ONE
Whole numbers
WEEK TWO: Fractions
WEEK FOUR - Algebra
WEEK FIVE Sets
`

func TestExtractLoadStatsExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CURRICULUM_GRAPH_SQLITE_PATH", filepath.Join(dir, "graph.db"))

	doc := filepath.Join(dir, "scheme.txt")
	require.NoError(t, os.WriteFile(doc, []byte(schemeOfWork), 0o644))
	syllabi := filepath.Join(dir, "syllabi")
	out := execute(t, "extract", doc,
		"--subject", "Mathematics", "--term", "First Term", "--class", "JSS1",
		"--out", filepath.Join(syllabi, "maths.yaml"))
	assert.Contains(t, out, "(4 weeks)")

	script := filepath.Join(dir, "load.cypher")
	out = execute(t, "--backend", "sqlite", "--cypher-out", script, "load", syllabi)
	assert.Contains(t, out, "loaded  jss1_mathematics_first_term (4 weeks, 4 concepts)")
	assert.Contains(t, out, "prerequisites: 2")

	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MERGE (n:`Resource` {`resource_id`: 'jss1_mathematics_first_term'})")

	out = execute(t, "--cypher-out=", "stats", "--json")
	var counts struct {
		Nodes map[string]int `json:"nodes"`
		Edges map[string]int `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, map[string]int{"Resource": 1, "Week": 4, "Concept": 4}, counts.Nodes)
	assert.Equal(t, 2, counts.Edges["PREREQUISITE_OF"])

	out = execute(t, "--cypher-out=", "export", "--format", "yaml")
	assert.Contains(t, out, "resource_id: jss1_mathematics_first_term")
	assert.Contains(t, out, "method: inferred")

	out = execute(t, "--cypher-out=", "infer")
	assert.Contains(t, out, "resources: 1, prerequisites: 2")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "curriculum-graph dev\n", execute(t, "version"))
}

func TestResolveConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CURRICULUM_GRAPH_STORE_BACKEND", "postgres")
	rootCmd.SetArgs([]string{"--backend=", "version"})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store backend")
}

func writeSecrets(t *testing.T, values map[string]string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(".secrets", 0o700))
	for k, v := range values {
		require.NoError(t, os.WriteFile(filepath.Join(".secrets", k), []byte(v+"\n"), 0o600))
	}
}

func TestNeo4jUserFromSecrets(t *testing.T) {
	writeSecrets(t, map[string]string{"neo4j-user": "alice", "neo4j-password": "pw"})

	execute(t, "--backend", "memory", "version")
	assert.Equal(t, "alice", cfg.Store.Neo4j.User)
	assert.Equal(t, "pw", cfg.Store.Neo4j.Password)
}

func TestNeo4jUserEnvBeatsSecrets(t *testing.T) {
	writeSecrets(t, map[string]string{"neo4j-user": "alice"})
	t.Setenv("CURRICULUM_GRAPH_NEO4J_USER", "bob")

	execute(t, "--backend", "memory", "version")
	assert.Equal(t, "bob", cfg.Store.Neo4j.User)
}
