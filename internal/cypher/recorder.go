// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cypher records graph mutations as a replayable Cypher script.
// Each statement is the one the Neo4j store would run, with parameters
// written inline, so the script can be piped into cypher-shell against
// any server.
package cypher

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/neo4jstore"
)

// Recorder wraps a graph.Store and writes a statement for every schema
// declaration and merge that the wrapped store accepts. Reads pass
// through unrecorded.
type Recorder struct {
	graph.Store

	mu  sync.Mutex
	w   io.Writer
	err error
	n   int
}

// NewRecorder records the mutations applied to inner onto w.
func NewRecorder(inner graph.Store, w io.Writer) *Recorder {
	return &Recorder{Store: inner, w: w}
}

// Statements returns how many statements were written.
func (r *Recorder) Statements() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Comment writes a "//" comment line.
func (r *Recorder) Comment(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write("// " + strings.ReplaceAll(text, "\n", " ") + "\n")
}

func (r *Recorder) CreateConstraint(ctx context.Context, c graph.Constraint) error {
	if err := r.Store.CreateConstraint(ctx, c); err != nil {
		return err
	}
	r.record(neo4jstore.CreateConstraintQuery(c))
	return nil
}

func (r *Recorder) CreateIndex(ctx context.Context, i graph.Index) error {
	if err := r.Store.CreateIndex(ctx, i); err != nil {
		return err
	}
	r.record(neo4jstore.CreateIndexQuery(i))
	return nil
}

func (r *Recorder) MergeNode(ctx context.Context, n graph.Node) error {
	if err := r.Store.MergeNode(ctx, n); err != nil {
		return err
	}
	r.record(neo4jstore.MergeNodeQuery(n))
	return nil
}

func (r *Recorder) MergeEdge(ctx context.Context, e graph.Edge) error {
	if err := r.Store.MergeEdge(ctx, e); err != nil {
		return err
	}
	q := neo4jstore.MergeEdgeQuery(e)
	q.Cypher = strings.TrimSuffix(q.Cypher, neo4jstore.ReturnMerged)
	r.record(q)
	return nil
}

func (r *Recorder) record(q neo4jstore.Query) {
	stmt := Inline(q.Cypher, q.Params)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(stmt + ";\n")
	r.n++
}

func (r *Recorder) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

var paramRef = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Inline replaces every $name in cypher with the literal form of
// params[name]. Unknown parameters are left as they are.
func Inline(cypher string, params map[string]any) string {
	return paramRef.ReplaceAllStringFunc(cypher, func(m string) string {
		v, ok := params[m[1:]]
		if !ok {
			return m
		}
		return Literal(v)
	})
}

// Literal renders v as a Cypher literal.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Literal(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = neo4jstore.Ident(k) + ": " + Literal(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
