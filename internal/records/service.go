package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// DefaultMaxDepth bounds nested expansion when no option overrides it.
const DefaultMaxDepth = 16

// Service is the read facade used by public endpoints. Every result is
// restricted to active records.
type Service interface {
	List(ctx context.Context, req ListRequest) ([]*Node, error)
	Get(ctx context.Context, req GetRequest) (*Node, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithMaxDepth sets how many nested levels are attached below a listed
// record. Values below one keep the default.
func WithMaxDepth(depth int) ServiceOption {
	return func(s *service) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	store    Store
	registry *schema.Registry
	maxDepth int
	logger   interfaces.Logger
}

func NewService(store Store, registry *schema.Registry, opts ...ServiceOption) Service {
	s := &service{
		store:    store,
		registry: registry,
		maxDepth: DefaultMaxDepth,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) List(ctx context.Context, req ListRequest) ([]*Node, error) {
	def, err := s.definition(req.EntityType)
	if err != nil {
		return nil, err
	}

	query := Query{EntityType: def.Name, ActiveOnly: true}
	search := strings.TrimSpace(req.Search)
	kind := strings.TrimSpace(req.Type)

	if def.Parent != nil {
		ref := strings.TrimSpace(req.Parent)
		switch {
		case ref != "":
			parent, err := s.activeRecord(ctx, def.Parent.Entity, ref)
			if err != nil {
				return nil, err
			}
			query.ParentIDs = []uuid.UUID{parent.ID}
		case def.Parent.Required:
			return nil, &MissingParentFilterError{Entity: def.Name, Param: def.Parent.Param}
		case def.IsHierarchy() && search == "" && kind == "":
			query.RootsOnly = true
		}
	}

	found, err := s.store.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	matched := found[:0]
	for _, record := range found {
		if !record.IsActive {
			continue
		}
		if kind != "" && def.TypeField != "" && record.Code(def.TypeField) != kind {
			continue
		}
		if search != "" && !matchesSearch(def, record, search) {
			continue
		}
		matched = append(matched, record)
	}
	SortRecords(def, matched)

	nodes := make([]*Node, 0, len(matched))
	for _, record := range matched {
		nodes = append(nodes, newNode(record))
	}
	if req.IncludeChildren {
		if err := s.attachTrees(ctx, def, nodes); err != nil {
			return nil, err
		}
	}

	logging.WithEntity(s.logger, def.Name, "").Debug("records.list",
		"count", len(nodes),
		"parent", req.Parent,
		"children", req.IncludeChildren,
	)
	return nodes, nil
}

func (s *service) Get(ctx context.Context, req GetRequest) (*Node, error) {
	def, err := s.definition(req.EntityType)
	if err != nil {
		return nil, err
	}
	record, err := s.activeRecord(ctx, def.Name, req.ID)
	if err != nil {
		return nil, err
	}
	node := newNode(record)
	if req.IncludeChildren {
		if err := s.attachTrees(ctx, def, []*Node{node}); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (s *service) definition(entityType string) (schema.Definition, error) {
	def, ok := s.registry.Lookup(entityType)
	if !ok {
		return schema.Definition{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	return def, nil
}

// activeRecord resolves ref as an id first and as a natural key otherwise.
// Inactive records are reported as not found.
func (s *service) activeRecord(ctx context.Context, entityType, ref string) (*Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &NotFoundError{Entity: entityType}
	}

	var (
		record *Record
		err    error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		record, err = s.store.FindOne(ctx, entityType, id)
	} else {
		record, err = s.store.FindByKey(ctx, entityType, ref)
	}
	if err != nil {
		return nil, err
	}
	if !record.IsActive {
		return nil, &NotFoundError{Entity: entityType, Key: ref}
	}
	return record, nil
}

func matchesSearch(def schema.Definition, record *Record, term string) bool {
	fields := def.SearchFields()
	if len(fields) == 0 {
		for _, f := range def.Fields {
			if f.Kind == schema.KindText {
				fields = append(fields, f)
			}
		}
	}
	for _, f := range fields {
		switch f.Kind {
		case schema.KindText:
			if record.Text(f.Name).Contains(term) {
				return true
			}
		case schema.KindList:
			if record.List(f.Name).Contains(term) {
				return true
			}
		}
	}
	return false
}
