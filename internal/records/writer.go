package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/identity"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/internal/validation"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// Writer is the administrative write path. The public read path never
// calls it.
type Writer struct {
	store     Store
	registry  *schema.Registry
	validator *validation.Validator
	now       func() time.Time
	logger    interfaces.Logger
}

type WriterOption func(*Writer)

func WithWriterClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		if now != nil {
			w.now = now
		}
	}
}

func WithWriterLogger(logger interfaces.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWriter(store Store, registry *schema.Registry, opts ...WriterOption) *Writer {
	w := &Writer{
		store:     store,
		registry:  registry,
		validator: validation.NewValidator(),
		now:       time.Now,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Upsert validates record against its entity schema and stores it. Records
// without an id get a deterministic one derived from their key.
func (w *Writer) Upsert(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordInvalid
	}
	def, ok := w.registry.Lookup(record.EntityType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, record.EntityType)
	}

	record = record.Clone()
	record.EntityType = def.Name
	record.Key = strings.TrimSpace(record.Key)
	for name, value := range record.Codes {
		if strings.TrimSpace(value) == "" {
			delete(record.Codes, name)
		}
	}
	if record.ID == uuid.Nil {
		record.ID = identity.RecordUUID(def.Name, record.Key)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if err := w.validate(def, record); err != nil {
		return nil, err
	}
	if err := w.checkKey(ctx, def, record); err != nil {
		return nil, err
	}
	if err := w.checkParent(ctx, def, record); err != nil {
		return nil, err
	}

	now := w.now().UTC()
	record.UpdatedAt = now
	existing, err := w.store.FindOne(ctx, def.Name, record.ID)
	switch {
	case err == nil:
		record.CreatedAt = existing.CreatedAt
	case IsNotFound(err):
		record.CreatedAt = now
	default:
		return nil, err
	}

	saved, err := w.store.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithEntity(w.logger, def.Name, record.Key).Debug("records.upsert", "id", saved.ID)
	return saved, nil
}

// Delete removes a record together with every record nested under it.
// Records already removed in this call are skipped, so stored cycles end.
func (w *Writer) Delete(ctx context.Context, entityType string, id uuid.UUID) error {
	def, ok := w.registry.Lookup(entityType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	return w.deleteTree(ctx, def, id, map[uuid.UUID]bool{})
}

func (w *Writer) deleteTree(ctx context.Context, def schema.Definition, id uuid.UUID, visited map[uuid.UUID]bool) error {
	if visited[id] {
		return nil
	}
	visited[id] = true
	for _, rel := range def.Relations {
		childDef, ok := w.registry.Lookup(rel.Entity)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntity, rel.Entity)
		}
		children, err := w.store.Find(ctx, Query{EntityType: childDef.Name, ParentIDs: []uuid.UUID{id}})
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := w.deleteTree(ctx, childDef, child.ID, visited); err != nil && !IsNotFound(err) {
				return err
			}
		}
	}
	return w.store.Delete(ctx, def.Name, id)
}

func (w *Writer) validate(def schema.Definition, record *Record) error {
	var issues []validation.Issue
	for _, f := range def.Fields {
		if !f.Required || f.Kind != schema.KindText {
			continue
		}
		if strings.TrimSpace(record.Text(f.Name).RU) == "" {
			issues = append(issues, validation.Issue{
				Location: "/texts/" + f.Name + "/ru",
				Message:  "base language value is required",
			})
		}
	}
	if len(issues) > 0 {
		return &validation.PayloadValidationError{Schema: def.Name, Issues: issues}
	}

	doc, err := validation.ToDocument(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	return w.validator.Validate(def.Name, def.JSONSchema(), doc)
}

func (w *Writer) checkKey(ctx context.Context, def schema.Definition, record *Record) error {
	if record.Key == "" {
		return nil
	}
	existing, err := w.store.FindByKey(ctx, def.Name, record.Key)
	switch {
	case err == nil:
		if existing.ID != record.ID {
			return fmt.Errorf("%w: %s %q", ErrDuplicateKey, def.Name, record.Key)
		}
		return nil
	case IsNotFound(err):
		return nil
	default:
		return err
	}
}

func (w *Writer) checkParent(ctx context.Context, def schema.Definition, record *Record) error {
	if record.ParentID == nil {
		return nil
	}
	if *record.ParentID == uuid.Nil {
		record.ParentID = nil
		return nil
	}

	parentEntity := ""
	switch {
	case def.IsHierarchy():
		parentEntity = def.Name
	case def.Parent != nil:
		parentEntity = def.Parent.Entity
	default:
		return fmt.Errorf("%w: %s", ErrParentNotAllowed, def.Name)
	}

	if *record.ParentID == record.ID {
		return fmt.Errorf("%w: %s %s is its own parent", ErrHierarchyCycle, def.Name, record.ID)
	}
	if _, err := w.store.FindOne(ctx, parentEntity, *record.ParentID); err != nil {
		return fmt.Errorf("records: parent of %s: %w", def.Name, err)
	}
	if !def.IsHierarchy() {
		return nil
	}

	siblings, err := w.store.Find(ctx, Query{EntityType: def.Name})
	if err != nil {
		return err
	}
	parents := make(map[uuid.UUID]uuid.UUID, len(siblings)+1)
	for _, r := range siblings {
		if r.ParentID != nil {
			parents[r.ID] = *r.ParentID
		}
	}
	parents[record.ID] = *record.ParentID
	if createsCycle(parents, record.ID) {
		return fmt.Errorf("%w: %s %s", ErrHierarchyCycle, def.Name, record.ID)
	}
	return nil
}

// createsCycle walks up from start and reports whether it returns to start.
// Each record has at most one parent, so the walk is bounded by the map size.
func createsCycle(parents map[uuid.UUID]uuid.UUID, start uuid.UUID) bool {
	current := start
	for steps := 0; steps <= len(parents); steps++ {
		next, ok := parents[current]
		if !ok {
			return false
		}
		if next == start {
			return true
		}
		current = next
	}
	return true
}

// IsValidationError reports whether err came from schema validation.
func IsValidationError(err error) bool {
	return errors.Is(err, validation.ErrSchemaValidation) || errors.Is(err, ErrRecordInvalid)
}
