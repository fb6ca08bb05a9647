// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/curriculum-graph/internal/cypher"
	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/logger"
	"github.com/pdiddy/curriculum-graph/internal/neo4jstore"
	"github.com/pdiddy/curriculum-graph/internal/sqlitestore"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// openedStore is a graph store plus the cleanup that flushes any Cypher
// script recorded alongside it.
type openedStore struct {
	graph.Store
	script   *os.File
	recorder *cypher.Recorder
	log      *logger.Logger
}

// openStore opens the configured backend and, when CypherOut is set, wraps
// it in a recorder writing to that file.
func openStore(ctx context.Context, c types.StoreConfig, log *logger.Logger) (*openedStore, error) {
	var (
		s   graph.Store
		err error
	)
	switch c.Backend {
	case types.BackendNeo4j:
		s, err = neo4jstore.Open(ctx, c.Neo4j, log)
	case types.BackendSQLite:
		s, err = sqlitestore.Open(c.SQLite)
	case types.BackendMemory:
		s = graph.NewMemoryStore()
	default:
		err = fmt.Errorf("unknown store backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", "backend", c.Backend)

	out := &openedStore{Store: s, log: log}
	if c.CypherOut == "" {
		return out, nil
	}

	if dir := filepath.Dir(c.CypherOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.Close()
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(c.CypherOut)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating cypher script: %w", err)
	}
	out.script = f
	out.recorder = cypher.NewRecorder(s, f)
	out.Store = out.recorder
	return out, nil
}

// Close closes the store and the script file, reporting the first failure.
func (o *openedStore) Close() error {
	var errs []error
	if o.recorder != nil {
		if err := o.recorder.Err(); err != nil {
			errs = append(errs, fmt.Errorf("writing cypher script: %w", err))
		}
		o.log.Info("cypher script written", "path", o.script.Name(), "statements", o.recorder.Statements())
	}
	if o.script != nil {
		if err := o.script.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cypher script: %w", err))
		}
	}
	if err := o.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}
	return errors.Join(errs...)
}

// Comment annotates the Cypher script, if one is being recorded.
func (o *openedStore) Comment(text string) {
	if o.recorder != nil {
		o.recorder.Comment(text)
	}
}
