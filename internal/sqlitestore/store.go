// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlitestore implements graph.Store on a single SQLite file: a
// nodes table keyed by (label, id), an edges table keyed by the canonical
// edge identity, and a registry of declared constraints and indexes.
package sqlitestore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

const defaultPath = "curriculum.db"

// Store is a graph.Store backed by SQLite. All access goes through one
// connection, which makes each merge atomic.
type Store struct {
	db *sql.DB
}

var _ graph.Store = (*Store)(nil)

// Open opens or creates the database at cfg.Path and creates the tables
// if they do not exist.
func Open(cfg types.SQLiteConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_objects (
			name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			property TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			label TEXT NOT NULL,
			id TEXT NOT NULL,
			props TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (label, id)
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			key TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			from_label TEXT NOT NULL,
			from_id TEXT NOT NULL,
			to_label TEXT NOT NULL,
			to_id TEXT NOT NULL,
			identity TEXT NOT NULL DEFAULT '{}',
			props TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_label, from_id, type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const (
	kindConstraint = "constraint"
	kindIndex      = "index"
)

func (s *Store) Constraints(ctx context.Context) ([]graph.Constraint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, label, property, type FROM schema_objects WHERE kind = ? ORDER BY name`, kindConstraint)
	if err != nil {
		return nil, fmt.Errorf("querying constraints: %w", err)
	}
	defer rows.Close()

	var out []graph.Constraint
	for rows.Next() {
		var c graph.Constraint
		if err := rows.Scan(&c.Name, &c.Label, &c.Property, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning constraint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Indexes(ctx context.Context) ([]graph.Index, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, label, property FROM schema_objects WHERE kind = ? ORDER BY name`, kindIndex)
	if err != nil {
		return nil, fmt.Errorf("querying indexes: %w", err)
	}
	defer rows.Close()

	var out []graph.Index
	for rows.Next() {
		var i graph.Index
		if err := rows.Scan(&i.Name, &i.Label, &i.Property); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// CreateConstraint records the constraint. Key uniqueness itself is the
// nodes primary key, so only constraints on a label's key property are
// accepted.
func (s *Store) CreateConstraint(ctx context.Context, c graph.Constraint) error {
	if c.Type != graph.ConstraintUnique || c.Property != c.Label.KeyProperty() {
		return fmt.Errorf("unsupported constraint %s: only uniqueness on the node key", c)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_objects (name, kind, label, property, type) VALUES (?, ?, ?, ?, ?)`,
		c.Name, kindConstraint, string(c.Label), c.Property, string(c.Type))
	if err != nil {
		return fmt.Errorf("recording constraint: %w", err)
	}
	return nil
}

// CreateIndex records the index and builds a partial expression index over
// the property for nodes of that label.
func (s *Store) CreateIndex(ctx context.Context, i graph.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_objects (name, kind, label, property) VALUES (?, ?, ?, ?)`,
		i.Name, kindIndex, string(i.Label), i.Property)
	if err != nil {
		return fmt.Errorf("recording index: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.Commit()
	}

	stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON nodes(json_extract(props, %s)) WHERE label = %s`,
		quoteIdent("idx_"+i.Name), quoteLiteral("$."+i.Property), quoteLiteral(string(i.Label)))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating index %s: %w", i.Name, err)
	}
	return tx.Commit()
}

func (s *Store) MergeNode(ctx context.Context, n graph.Node) error {
	props := make(map[string]any, len(n.Props))
	for k, v := range n.Props {
		if k != n.Label.KeyProperty() {
			props[k] = v
		}
	}
	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encoding properties of %s: %w", n.NodeRef, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (label, id, props) VALUES (?, ?, ?)
		 ON CONFLICT(label, id) DO UPDATE SET props = json_patch(nodes.props, excluded.props)`,
		string(n.Label), n.ID, string(data))
	if err != nil {
		return fmt.Errorf("upserting node %s: %w", n.NodeRef, err)
	}
	return nil
}

func (s *Store) MergeEdge(ctx context.Context, e graph.Edge) error {
	identity, err := marshalProps(e.Identity)
	if err != nil {
		return fmt.Errorf("encoding edge identity: %w", err)
	}
	props, err := marshalProps(e.Props)
	if err != nil {
		return fmt.Errorf("encoding edge properties: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range []graph.NodeRef{e.From, e.To} {
		ok, err := hasNode(ctx, tx, ref)
		if err != nil {
			return err
		}
		if !ok {
			return graph.ErrNodeNotFound
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO edges (key, type, from_label, from_id, to_label, to_id, identity, props)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET props = json_patch(edges.props, excluded.props)`,
		e.Key(), string(e.Type),
		string(e.From.Label), e.From.ID, string(e.To.Label), e.To.ID,
		identity, props,
	)
	if err != nil {
		return fmt.Errorf("upserting edge: %w", err)
	}
	return tx.Commit()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func hasNode(ctx context.Context, q queryer, ref graph.NodeRef) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM nodes WHERE label = ? AND id = ?`, string(ref.Label), ref.ID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", ref, err)
	}
	return n > 0, nil
}

func (s *Store) HasNode(ctx context.Context, ref graph.NodeRef) (bool, error) {
	return hasNode(ctx, s.db, ref)
}

func (s *Store) ResourceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM nodes WHERE label = ? ORDER BY id`, string(graph.LabelResource))
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) WeekConcepts(ctx context.Context, resourceID string) ([]graph.WeekConcept, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.id, json_extract(w.props, '$.week_number'), t.to_id
		 FROM edges h
		 JOIN nodes w ON w.label = 'Week' AND w.id = h.to_id
		 LEFT JOIN edges t ON t.type = 'TEACHES' AND t.from_label = 'Week' AND t.from_id = w.id
		                  AND t.to_label = 'Concept'
		 WHERE h.type = 'HAS_WEEK' AND h.from_label = 'Resource' AND h.from_id = ?
		 ORDER BY 2, 3`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("querying weeks of %s: %w", resourceID, err)
	}
	defer rows.Close()

	var out []graph.WeekConcept
	for rows.Next() {
		var (
			weekID  string
			number  sql.NullInt64
			concept sql.NullString
		)
		if err := rows.Scan(&weekID, &number, &concept); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		if !number.Valid {
			continue
		}
		out = append(out, graph.WeekConcept{
			WeekID:     weekID,
			WeekNumber: int(number.Int64),
			ConceptID:  concept.String,
		})
	}
	return out, rows.Err()
}

func (s *Store) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	nodes, err := s.snapshotNodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.snapshotEdges(ctx)
	if err != nil {
		return nil, err
	}
	snap := &graph.Snapshot{Nodes: nodes, Edges: edges}
	graph.SortSnapshot(snap)
	return snap, nil
}

// snapshotNodes and snapshotEdges each close their rows before returning;
// the store has a single connection.
func (s *Store) snapshotNodes(ctx context.Context) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, id, props FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var out []graph.Node
	for rows.Next() {
		var label, id, raw string
		if err := rows.Scan(&label, &id, &raw); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		props, err := unmarshalProps(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding node %s: %w", id, err)
		}
		out = append(out, graph.Node{
			NodeRef: graph.NodeRef{Label: graph.Label(label), ID: id},
			Props:   props,
		})
	}
	return out, rows.Err()
}

func (s *Store) snapshotEdges(ctx context.Context) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, from_label, from_id, to_label, to_id, identity, props FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	defer rows.Close()

	var out []graph.Edge
	for rows.Next() {
		var e graph.Edge
		var rel, fromLabel, toLabel, identity, props string
		if err := rows.Scan(&rel, &fromLabel, &e.From.ID, &toLabel, &e.To.ID, &identity, &props); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		e.Type = graph.RelType(rel)
		e.From.Label = graph.Label(fromLabel)
		e.To.Label = graph.Label(toLabel)
		if e.Identity, err = unmarshalProps(identity); err != nil {
			return nil, fmt.Errorf("decoding edge identity: %w", err)
		}
		if e.Props, err = unmarshalProps(props); err != nil {
			return nil, fmt.Errorf("decoding edge properties: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func marshalProps(props map[string]any) (string, error) {
	if len(props) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalProps decodes a JSON object, keeping whole numbers as int64.
// An empty object decodes to nil.
func unmarshalProps(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewBufferString(raw))
	dec.UseNumber()
	var props map[string]any
	if err := dec.Decode(&props); err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, nil
	}
	for k, v := range props {
		num, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := num.Int64(); err == nil {
			props[k] = i
		} else if f, err := num.Float64(); err == nil {
			props[k] = f
		}
	}
	return props, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
