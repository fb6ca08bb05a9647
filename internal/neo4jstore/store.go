// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package neo4jstore implements graph.Store on a Neo4j server through the
// Bolt driver. MERGE under the uniqueness constraints is atomic per key,
// so upserts from several goroutines are safe.
package neo4jstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/logger"
	"github.com/pdiddy/curriculum-graph/internal/retry"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

const (
	defaultUser        = "neo4j"
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 50
)

// Store is a graph.Store backed by Neo4j.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

var _ graph.Store = (*Store)(nil)

// Open connects to Neo4j and verifies connectivity, retrying transient
// failures with backoff. Authentication failures are not retried.
func Open(ctx context.Context, cfg types.Neo4jConfig, log *logger.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("neo4j: uri required")
	}
	if log == nil {
		log = logger.Nop()
	}
	user := cfg.User
	if user == "" {
		user = defaultUser
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxPool := cfg.MaxPoolSize
	if maxPool <= 0 {
		maxPool = defaultMaxPoolSize
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(user, cfg.Password, ""), func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = maxPool
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	log = log.With("store", "neo4j", "uri", cfg.URI)
	err = retry.Do(ctx, cfg.ConnectRetries, func(ctx context.Context) error {
		vctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := driver.VerifyConnectivity(vctx)
		if isSecurityError(err) {
			return &retry.Permanent{Err: err}
		}
		return err
	}, func(attempt int, wait time.Duration, err error) {
		log.Warn("neo4j not reachable, retrying", "attempt", attempt, "wait", wait, "error", err)
	})
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	log.Debug("connected")
	return &Store{driver: driver, database: cfg.Database, log: log}, nil
}

func isSecurityError(err error) bool {
	var nerr *neo4j.Neo4jError
	return errors.As(err, &nerr) && strings.HasPrefix(nerr.Code, "Neo.ClientError.Security")
}

// Close releases the driver.
func (s *Store) Close() error {
	if s == nil || s.driver == nil {
		return nil
	}
	err := s.driver.Close(context.Background())
	s.driver = nil
	return err
}

func (s *Store) run(ctx context.Context, mode neo4j.AccessMode, q Query) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, q.Cypher, q.Params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]any, len(records))
		for i, r := range records {
			rows[i] = r.AsMap()
		}
		return rows, nil
	}

	var out any
	var err error
	if mode == neo4j.AccessModeWrite {
		out, err = session.ExecuteWrite(ctx, work)
	} else {
		out, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	return out.([]map[string]any), nil
}

func (s *Store) read(ctx context.Context, q Query) ([]map[string]any, error) {
	return s.run(ctx, neo4j.AccessModeRead, q)
}

func (s *Store) write(ctx context.Context, q Query) ([]map[string]any, error) {
	return s.run(ctx, neo4j.AccessModeWrite, q)
}

func (s *Store) Constraints(ctx context.Context) ([]graph.Constraint, error) {
	rows, err := s.read(ctx, Query{Cypher: showConstraints})
	if err != nil {
		return nil, err
	}
	out := make([]graph.Constraint, len(rows))
	for i, row := range rows {
		out[i] = parseConstraint(row)
	}
	return out, nil
}

func (s *Store) Indexes(ctx context.Context) ([]graph.Index, error) {
	rows, err := s.read(ctx, Query{Cypher: showIndexes})
	if err != nil {
		return nil, err
	}
	out := make([]graph.Index, len(rows))
	for i, row := range rows {
		out[i] = parseIndex(row)
	}
	return out, nil
}

func (s *Store) CreateConstraint(ctx context.Context, c graph.Constraint) error {
	_, err := s.write(ctx, CreateConstraintQuery(c))
	return err
}

func (s *Store) CreateIndex(ctx context.Context, i graph.Index) error {
	_, err := s.write(ctx, CreateIndexQuery(i))
	return err
}

func (s *Store) MergeNode(ctx context.Context, n graph.Node) error {
	_, err := s.write(ctx, MergeNodeQuery(n))
	return err
}

func (s *Store) MergeEdge(ctx context.Context, e graph.Edge) error {
	rows, err := s.write(ctx, MergeEdgeQuery(e))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return graph.ErrNodeNotFound
	}
	if n, _ := graph.IntProp(rows[0]["merged"]); n == 0 {
		return graph.ErrNodeNotFound
	}
	return nil
}

func (s *Store) HasNode(ctx context.Context, ref graph.NodeRef) (bool, error) {
	rows, err := s.read(ctx, HasNodeQuery(ref))
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	n, _ := graph.IntProp(rows[0]["found"])
	return n > 0, nil
}

func (s *Store) ResourceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.read(ctx, Query{Cypher: resourceIDs})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := asString(row["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) WeekConcepts(ctx context.Context, resourceID string) ([]graph.WeekConcept, error) {
	rows, err := s.read(ctx, Query{
		Cypher: weekConcepts,
		Params: map[string]any{"resource_id": resourceID},
	})
	if err != nil {
		return nil, err
	}
	out := make([]graph.WeekConcept, 0, len(rows))
	for _, row := range rows {
		number, ok := graph.IntProp(row["week_number"])
		if !ok {
			s.log.Warn("week without numeric week_number", "week_id", row["week_id"])
			continue
		}
		out = append(out, graph.WeekConcept{
			WeekID:     asString(row["week_id"]),
			WeekNumber: number,
			ConceptID:  asString(row["concept_id"]),
		})
	}
	return out, nil
}

func (s *Store) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	snap := &graph.Snapshot{}

	nodes, err := s.read(ctx, Query{Cypher: snapshotNodes})
	if err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}
	for _, row := range nodes {
		labels, _ := row["labels"].([]any)
		label, ok := pickLabel(labels)
		if !ok {
			continue
		}
		props, _ := row["props"].(map[string]any)
		id := asString(props[label.KeyProperty()])
		delete(props, label.KeyProperty())
		snap.Nodes = append(snap.Nodes, graph.Node{
			NodeRef: graph.NodeRef{Label: label, ID: id},
			Props:   props,
		})
	}

	edges, err := s.read(ctx, Query{
		Cypher: snapshotEdges,
		Params: map[string]any{"types": []string{
			string(graph.RelHasWeek), string(graph.RelTeaches), string(graph.RelPrerequisiteOf),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("reading edges: %w", err)
	}
	for _, row := range edges {
		snap.Edges = append(snap.Edges, edgeFromRow(row))
	}

	graph.SortSnapshot(snap)
	return snap, nil
}

func edgeFromRow(row map[string]any) graph.Edge {
	rel := graph.RelType(asString(row["type"]))
	fromLabels, _ := row["from_labels"].([]any)
	toLabels, _ := row["to_labels"].([]any)
	fromLabel, _ := pickLabel(fromLabels)
	toLabel, _ := pickLabel(toLabels)

	e := graph.Edge{
		Type: rel,
		From: graph.NodeRef{Label: fromLabel, ID: asString(row["from_id"])},
		To:   graph.NodeRef{Label: toLabel, ID: asString(row["to_id"])},
	}
	props, _ := row["props"].(map[string]any)
	for _, k := range identityKeys[rel] {
		if v, ok := props[k]; ok {
			if e.Identity == nil {
				e.Identity = map[string]any{}
			}
			e.Identity[k] = v
			delete(props, k)
		}
	}
	if len(props) > 0 {
		e.Props = props
	}
	return e
}
