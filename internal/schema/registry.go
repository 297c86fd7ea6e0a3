package schema

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry holds entity definitions by name.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: map[string]Definition{}}
}

// Register validates and stores definitions. Names must be unique.
func (r *Registry) Register(defs ...Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, exists := r.defs[def.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDefinitionExists, def.Name)
		}
		r.defs[def.Name] = def
	}
	return nil
}

// Lookup finds a definition. Hyphens and case are ignored so URL segments
// such as "organization-structure" resolve directly.
func (r *Registry) Lookup(name string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[key]
	return def, ok
}

// Names returns registered entity names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.defs))
}

// CheckReferences verifies every relation and parent filter points at a
// registered entity, and that has_many children declare a parent filter
// back to their owner.
func (r *Registry) CheckReferences() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range slices.Sorted(maps.Keys(r.defs)) {
		def := r.defs[name]
		for _, rel := range def.Relations {
			child, ok := r.defs[rel.Entity]
			if !ok {
				return fmt.Errorf("%w: %s.%s -> %s", ErrUnknownRelation, def.Name, rel.Name, rel.Entity)
			}
			if rel.Kind == HasMany && (child.Parent == nil || child.Parent.Entity != def.Name) {
				return fmt.Errorf("%w: %s.%s: %s has no parent filter on %s", ErrDefinitionInvalid, def.Name, rel.Name, child.Name, def.Name)
			}
		}
		if def.Parent != nil {
			if _, ok := r.defs[def.Parent.Entity]; !ok {
				return fmt.Errorf("%w: %s parent -> %s", ErrUnknownRelation, def.Name, def.Parent.Entity)
			}
		}
	}
	return nil
}

// MustCatalogRegistry returns a registry holding Catalog. It panics when
// the built-in definitions are inconsistent.
func MustCatalogRegistry() *Registry {
	reg := NewRegistry()
	if err := reg.Register(Catalog()...); err != nil {
		panic(err)
	}
	if err := reg.CheckReferences(); err != nil {
		panic(err)
	}
	return reg
}
