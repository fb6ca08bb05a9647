//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (unit, all).
type Test mg.Namespace

// Unit runs every test that needs no Neo4j server. The Neo4j integration
// tests skip themselves when CURRICULUM_GRAPH_TEST_NEO4J_URI is unset.
func (Test) Unit() error {
	env := map[string]string{"CURRICULUM_GRAPH_TEST_NEO4J_URI": ""}
	return sh.RunWithV(env, binGo, "test", "./...")
}

// All starts the local Neo4j container and runs every test against it.
func (Test) All() error {
	mg.Deps(Neo4j.Up)
	env := map[string]string{
		"CURRICULUM_GRAPH_TEST_NEO4J_URI":      neo4jURI,
		"CURRICULUM_GRAPH_TEST_NEO4J_PASSWORD": neo4jPassword(),
	}
	return sh.RunWithV(env, binGo, "test", "-v", "./...")
}
