package fixtures

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

var ErrWriterRequired = errors.New("fixtures: record writer is required")

// ImportOptions tunes a fixture import.
type ImportOptions struct {
	// DryRun converts and orders documents without writing them.
	DryRun bool
}

// Failure records a document that could not be imported.
type Failure struct {
	Entity string
	Key    string
	Source string
	Err    error
}

// Result summarizes an import.
type Result struct {
	Imported []*records.Record
	Skipped  int
	Failures []Failure
}

// Err joins the failure errors, or returns nil.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// Importer writes fixture documents through the record writer. Parents are
// written before their children.
type Importer struct {
	writer   *records.Writer
	registry *schema.Registry
	logger   interfaces.Logger
}

type ImporterOption func(*Importer)

func WithImporterLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewImporter(writer *records.Writer, registry *schema.Registry, opts ...ImporterOption) *Importer {
	i := &Importer{
		writer:   writer,
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import upserts docs. A failing document does not stop the import; its
// descendants then fail on the missing parent. The returned error joins
// every failure.
func (i *Importer) Import(ctx context.Context, docs []*Document, opts ImportOptions) (*Result, error) {
	if i.writer == nil || i.registry == nil {
		return nil, ErrWriterRequired
	}

	result := &Result{}
	for _, doc := range i.order(docs) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := logging.WithEntity(i.logger, doc.Entity, doc.Key)

		record, err := i.convert(doc)
		if err == nil && opts.DryRun {
			result.Skipped++
			continue
		}
		if err == nil {
			record, err = i.writer.Upsert(ctx, record)
		}
		if err != nil {
			logger.Warn("fixtures.import.failed", "source", doc.Source, "error", err)
			result.Failures = append(result.Failures, Failure{
				Entity: doc.Entity,
				Key:    doc.Key,
				Source: doc.Source,
				Err:    fmt.Errorf("fixtures: import %s/%s: %w", doc.Entity, doc.Key, err),
			})
			continue
		}
		result.Imported = append(result.Imported, record)
	}

	i.logger.Info("fixtures.import",
		"imported", len(result.Imported),
		"skipped", result.Skipped,
		"failed", len(result.Failures),
		"dry_run", opts.DryRun,
	)
	return result, result.Err()
}

func (i *Importer) convert(doc *Document) (*records.Record, error) {
	def, ok := i.registry.Lookup(doc.Entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", records.ErrUnknownEntity, doc.Entity)
	}
	return doc.Record(def)
}

type docRef struct {
	entity string
	key    string
}

// order sorts docs so every parent present in the batch precedes its
// children. Ties keep entity, then key order. Parent chains that loop are
// cut and left for the writer to reject.
func (i *Importer) order(docs []*Document) []*Document {
	byRef := make(map[docRef]*Document, len(docs))
	for _, doc := range docs {
		if doc != nil {
			byRef[docRef{doc.Entity, doc.Key}] = doc
		}
	}

	depth := make(map[*Document]int, len(docs))
	var depthOf func(doc *Document, seen map[*Document]bool) int
	depthOf = func(doc *Document, seen map[*Document]bool) int {
		if d, ok := depth[doc]; ok {
			return d
		}
		if doc.Parent == "" || seen[doc] {
			return 0
		}
		seen[doc] = true
		d := 0
		if parent, ok := byRef[docRef{i.parentEntity(doc.Entity), doc.Parent}]; ok {
			d = depthOf(parent, seen) + 1
		}
		depth[doc] = d
		return d
	}

	out := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		depthOf(doc, map[*Document]bool{})
		out = append(out, doc)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if depth[out[a]] != depth[out[b]] {
			return depth[out[a]] < depth[out[b]]
		}
		if out[a].Entity != out[b].Entity {
			return out[a].Entity < out[b].Entity
		}
		return out[a].Key < out[b].Key
	})
	return out
}

func (i *Importer) parentEntity(entity string) string {
	def, ok := i.registry.Lookup(entity)
	if !ok {
		return ""
	}
	name, _ := parentEntityOf(def)
	return name
}
