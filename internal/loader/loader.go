// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader runs a load batch: the schema guard once, the entity
// upserts for every syllabus, then the prerequisite inference pass over
// the resources the batch touched.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/curriculum-graph/internal/graph"
	"github.com/pdiddy/curriculum-graph/internal/logger"
	"github.com/pdiddy/curriculum-graph/pkg/types"
)

// RecordError is a failure confined to one syllabus record. The batch
// continues past it.
type RecordError struct {
	Source     string
	ResourceID string
	Week       int
	Topic      string
	Err        error
}

func (e RecordError) Error() string {
	where := e.Source
	if where == "" {
		where = e.ResourceID
	}
	if e.Week > 0 {
		where = fmt.Sprintf("%s week %d", where, e.Week)
	}
	if e.Topic != "" {
		where = fmt.Sprintf("%s %q", where, e.Topic)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// Summary reports what a batch did.
type Summary struct {
	BatchID       string
	Schema        graph.SchemaSummary
	Resources     int
	Weeks         int
	Concepts      int
	Prerequisites int
	Errors        []RecordError
}

// Failed reports whether any record was skipped.
func (s Summary) Failed() bool { return len(s.Errors) > 0 }

// Err joins the record errors of s, or returns nil when there are none.
func (s Summary) Err() error {
	if len(s.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(s.Errors))
	for i, e := range s.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// commenter is implemented by stores that annotate their output, such as
// the Cypher recorder.
type commenter interface {
	Comment(text string)
}

// Loader writes syllabi into a graph store.
type Loader struct {
	store graph.Store
	cfg   types.LoadConfig
	log   *logger.Logger
	out   io.Writer
}

// New returns a Loader. Progress lines go to w; log may be nil.
func New(s graph.Store, cfg types.LoadConfig, log *logger.Logger, w io.Writer) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	if w == nil {
		w = io.Discard
	}
	return &Loader{store: s, cfg: cfg, log: log, out: w}
}

// result is what loading one syllabus produced.
type result struct {
	resourceID string
	weeks      int
	concepts   int
	errs       []RecordError
}

// Load runs one batch. A schema conflict or a store failure aborts it and
// is returned; record-level failures are collected in Summary.Errors.
// Upserts of different syllabi run in parallel up to cfg.Concurrency, and
// inference starts only after every upsert has finished.
func (l *Loader) Load(ctx context.Context, syllabi []types.Syllabus) (Summary, error) {
	summary := Summary{BatchID: uuid.NewString()}
	log := l.log.With("batch", summary.BatchID)
	l.comment("batch " + summary.BatchID)

	schema, err := graph.EnsureSchema(ctx, l.store)
	if err != nil {
		return summary, fmt.Errorf("ensuring schema: %w", err)
	}
	summary.Schema = schema
	log.Info("schema ready", "created", schema.Created, "existing", schema.Existing)

	results := make([]result, len(syllabi))
	limit := l.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	upserter := graph.NewUpserter(l.store)
	for i := range syllabi {
		g.Go(func() error {
			res, err := loadSyllabus(gctx, upserter, syllabi[i])
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	touched := map[string]bool{}
	for i, res := range results {
		for _, re := range res.errs {
			fmt.Fprintf(l.out, "failed  %s\n", re)
			log.Warn("record skipped", "source", re.Source, "resource", re.ResourceID, "week", re.Week, "error", re.Err)
		}
		summary.Errors = append(summary.Errors, res.errs...)
		if res.resourceID == "" {
			continue
		}
		fmt.Fprintf(l.out, "loaded  %s (%d weeks, %d concepts)\n", res.resourceID, res.weeks, res.concepts)
		log.Debug("syllabus loaded", "source", syllabi[i].Source, "resource", res.resourceID)
		touched[res.resourceID] = true
		summary.Weeks += res.weeks
		summary.Concepts += res.concepts
	}
	summary.Resources = len(touched)

	if l.cfg.SkipInference {
		log.Info("inference skipped")
	} else if len(touched) > 0 {
		ids := make([]string, 0, len(touched))
		for id := range touched {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		inferred, err := l.infer(ctx, log, ids...)
		if err != nil {
			return summary, err
		}
		summary.Prerequisites = inferred.Edges
	}

	fmt.Fprintf(l.out, "\nresources: %d, weeks: %d, concepts: %d, prerequisites: %d, failed: %d\n",
		summary.Resources, summary.Weeks, summary.Concepts, summary.Prerequisites, len(summary.Errors))
	log.Info("batch complete",
		"resources", summary.Resources,
		"weeks", summary.Weeks,
		"concepts", summary.Concepts,
		"prerequisites", summary.Prerequisites,
		"failed", len(summary.Errors))
	return summary, nil
}

// Infer runs the prerequisite pass alone, over the given resources or over
// every resource when none are given.
func (l *Loader) Infer(ctx context.Context, resourceIDs ...string) (graph.InferSummary, error) {
	return l.infer(ctx, l.log, resourceIDs...)
}

func (l *Loader) infer(ctx context.Context, log *logger.Logger, resourceIDs ...string) (graph.InferSummary, error) {
	l.comment("prerequisite inference")
	summary, err := graph.NewInferencer(l.store).Run(ctx, resourceIDs...)
	if err != nil {
		return summary, fmt.Errorf("inferring prerequisites: %w", err)
	}
	log.Info("prerequisites inferred", "resources", summary.Resources, "edges", summary.Edges)
	return summary, nil
}

func (l *Loader) comment(text string) {
	if c, ok := l.store.(commenter); ok {
		c.Comment(text)
	}
}

// loadSyllabus upserts one resource with its weeks and concepts. Only
// errors that are not record errors are returned.
func loadSyllabus(ctx context.Context, u *graph.Upserter, s types.Syllabus) (result, error) {
	var res result
	record := func(err error, week int, topic string) error {
		if !graph.IsRecordError(err) {
			return err
		}
		res.errs = append(res.errs, RecordError{
			Source:     s.Source,
			ResourceID: res.resourceID,
			Week:       week,
			Topic:      topic,
			Err:        err,
		})
		return nil
	}

	r, err := u.UpsertResource(ctx, s.Subject, s.Term, s.Class, s.Title)
	if err != nil {
		return res, record(err, 0, "")
	}
	res.resourceID = r.ResourceID

	weeks := map[int]types.Week{}
	concepts := map[string]bool{}
	for _, wt := range s.Weeks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		w, ok := weeks[wt.Week]
		if !ok {
			w, err = u.UpsertWeek(ctx, r, wt.Week)
			if err != nil {
				if err := record(err, wt.Week, wt.Topic); err != nil {
					return res, err
				}
				continue
			}
			weeks[wt.Week] = w
		}
		c, err := u.UpsertConcept(ctx, r, w, wt.Topic)
		if err != nil {
			if err := record(err, wt.Week, wt.Topic); err != nil {
				return res, err
			}
			continue
		}
		concepts[c.ConceptID] = true
	}
	res.weeks = len(weeks)
	res.concepts = len(concepts)
	return res, nil
}
