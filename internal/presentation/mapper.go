package presentation

import (
	"context"
	"sync"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// Mapper renders record trees into single-language objects.
type Mapper struct {
	registry *schema.Registry
	media    interfaces.MediaResolver
	logger   interfaces.Logger

	mu     sync.RWMutex
	shapes map[string]*Shape
}

type Option func(*Mapper)

// WithMediaResolver sets the resolver for file fields. Without one every
// file renders as null.
func WithMediaResolver(resolver interfaces.MediaResolver) Option {
	return func(m *Mapper) {
		m.media = resolver
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewMapper(registry *schema.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		registry: registry,
		logger:   logging.NoOp(),
		shapes:   map[string]*Shape{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ShapeOf returns the cached default shape of entityType.
func (m *Mapper) ShapeOf(entityType string) (*Shape, bool) {
	def, ok := m.registry.Lookup(entityType)
	if !ok {
		return nil, false
	}
	m.mu.RLock()
	shape, ok := m.shapes[def.Name]
	m.mu.RUnlock()
	if ok {
		return shape, true
	}
	shape = ShapeFor(def)
	m.mu.Lock()
	m.shapes[def.Name] = shape
	m.mu.Unlock()
	return shape, true
}

// Present renders node in lang. A nil shape uses the entity default.
// Relations that were never attached to node are left out.
func (m *Mapper) Present(ctx context.Context, node *records.Node, lang locale.Language, shape *Shape) *Object {
	if node == nil || node.Record == nil {
		return nil
	}
	record := node.Record
	def, _ := m.registry.Lookup(record.EntityType)
	if shape == nil {
		if shape, _ = m.ShapeOf(record.EntityType); shape == nil {
			shape = &Shape{Name: record.EntityType, Projections: []Projection{{Key: "id", Kind: ProjectID}}}
		}
	}

	out := NewObject()
	for _, p := range shape.Projections {
		out.Set(p.Key, m.project(ctx, def, record, p, lang))
	}
	for _, nested := range shape.Nested {
		children, attached := node.Children[nested.Relation]
		if !attached {
			continue
		}
		items := make([]*Object, 0, len(children))
		for _, child := range children {
			items = append(items, m.Present(ctx, child, lang, nested.Shape))
		}
		out.Set(nested.Key, items)
	}
	return out
}

// PresentAll renders nodes in order. The result is never nil.
func (m *Mapper) PresentAll(ctx context.Context, nodes []*records.Node, lang locale.Language, shape *Shape) []*Object {
	out := make([]*Object, 0, len(nodes))
	for _, node := range nodes {
		if obj := m.Present(ctx, node, lang, shape); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

func (m *Mapper) project(ctx context.Context, def schema.Definition, record *records.Record, p Projection, lang locale.Language) any {
	switch p.Kind {
	case ProjectID:
		return record.ID.String()
	case ProjectKey:
		return record.Key
	case ProjectText:
		return record.Text(p.Field).Resolve(lang)
	case ProjectList:
		return record.List(p.Field).Resolve(lang)
	case ProjectFile:
		return m.fileURL(ctx, record, p.Field)
	case ProjectCode:
		if code := record.Code(p.Field); code != "" {
			return code
		}
		return nil
	case ProjectCodeLabel:
		code := record.Code(p.Field)
		if code == "" {
			return nil
		}
		field, _ := def.Field(p.Field)
		return field.Labels.Resolve(code, lang)
	case ProjectDate:
		if record.Date == nil {
			return nil
		}
		return record.Date.UTC().Format(DateLayout)
	case ProjectOrder:
		return record.Order
	default:
		return record.Field(p.Field)
	}
}

func (m *Mapper) fileURL(ctx context.Context, record *records.Record, field string) any {
	path := record.File(field)
	if path == "" || m.media == nil {
		return nil
	}
	url, err := m.media.ResolveURL(ctx, interfaces.MediaReference{Path: path, Entity: record.EntityType, Field: field})
	if err != nil || url == "" {
		m.logger.Debug("presentation.file.unresolved", "entity", record.EntityType, "field", field, "error", err)
		return nil
	}
	return url
}
