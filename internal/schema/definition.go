package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-unicms/internal/locale"
)

// FieldKind selects how a field is stored and presented.
type FieldKind string

const (
	KindText  FieldKind = "text"
	KindList  FieldKind = "list"
	KindPlain FieldKind = "plain"
	KindDate  FieldKind = "date"
	KindFile  FieldKind = "file"
	KindCode  FieldKind = "code"
)

// RelationKind describes how child records point at their owner.
type RelationKind string

const (
	HasMany    RelationKind = "has_many"
	SelfParent RelationKind = "self_parent"
)

// SortByID is the secondary key that orders by record id.
const SortByID = "id"

var (
	ErrDefinitionInvalid = errors.New("schema: definition invalid")
	ErrDefinitionExists  = errors.New("schema: definition already registered")
	ErrUnknownRelation   = errors.New("schema: relation targets unknown entity")
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Field declares one attribute of an entity.
type Field struct {
	Name       string
	Kind       FieldKind
	Required   bool
	Searchable bool
	Labels     locale.Labels
}

// Relation declares a nested collection rendered under Name.
type Relation struct {
	Name   string
	Entity string
	Kind   RelationKind
	Nested bool
}

// OrderPolicy defines the deterministic listing order. Records sort by
// order ascending, then Secondary, then id. With DateDesc the record date
// descending comes first and undated records go last.
type OrderPolicy struct {
	DateDesc  bool
	Secondary string
}

// ParentFilter names the query parameter that scopes a listing to one
// parent record of Entity, looked up by key or id.
type ParentFilter struct {
	Param    string
	Entity   string
	Required bool
}

// Definition is the schema of one entity type.
type Definition struct {
	Name      string
	Fields    []Field
	Relations []Relation
	Order     OrderPolicy
	Parent    *ParentFilter
	// TypeField is the code field matched by the type filter.
	TypeField string
	// DateField is the output name of the record date. Empty means the
	// entity carries no date.
	DateField string
	// ExposeKey adds the natural key to presented records.
	ExposeKey bool
}

// Field returns the named field.
func (d Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// NestedRelations returns relations attached when children are requested.
func (d Definition) NestedRelations() []Relation {
	out := make([]Relation, 0, len(d.Relations))
	for _, rel := range d.Relations {
		if rel.Nested {
			out = append(out, rel)
		}
	}
	return out
}

// SelfRelation returns the self-referencing relation, if any.
func (d Definition) SelfRelation() (Relation, bool) {
	for _, rel := range d.Relations {
		if rel.Kind == SelfParent {
			return rel, true
		}
	}
	return Relation{}, false
}

// IsHierarchy reports whether records of d form a tree.
func (d Definition) IsHierarchy() bool {
	_, ok := d.SelfRelation()
	return ok
}

// SearchFields returns the searchable localized fields.
func (d Definition) SearchFields() []Field {
	var out []Field
	for _, f := range d.Fields {
		if f.Searchable && (f.Kind == KindText || f.Kind == KindList) {
			out = append(out, f)
		}
	}
	return out
}

// HasDate reports whether records carry a date column.
func (d Definition) HasDate() bool {
	return d.DateField != ""
}

func (d Definition) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&d.Fields, validation.Required),
		validation.Field(&d.Order, validation.By(d.validateOrder)),
		validation.Field(&d.TypeField, validation.By(d.codeField)),
		validation.Field(&d.DateField, validation.When(d.Order.DateDesc, validation.Required)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDefinitionInvalid, d.Name, err)
	}

	seen := map[string]bool{}
	for _, f := range d.Fields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrDefinitionInvalid, d.Name, f.Name, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrDefinitionInvalid, d.Name, f.Name)
		}
		seen[f.Name] = true
	}
	for _, rel := range d.Relations {
		if err := rel.validate(); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrDefinitionInvalid, d.Name, rel.Name, err)
		}
		if seen[rel.Name] {
			return fmt.Errorf("%w: %s: relation %q shadows a field", ErrDefinitionInvalid, d.Name, rel.Name)
		}
		if rel.Kind == SelfParent && rel.Entity != d.Name {
			return fmt.Errorf("%w: %s: self relation must target itself", ErrDefinitionInvalid, d.Name)
		}
		seen[rel.Name] = true
	}
	if d.Parent != nil {
		if err := validation.ValidateStruct(d.Parent,
			validation.Field(&d.Parent.Param, validation.Required, validation.Match(identifierPattern)),
			validation.Field(&d.Parent.Entity, validation.Required),
		); err != nil {
			return fmt.Errorf("%w: %s parent filter: %v", ErrDefinitionInvalid, d.Name, err)
		}
	}
	return nil
}

func (d Definition) validateOrder(value any) error {
	policy, _ := value.(OrderPolicy)
	key := strings.TrimSpace(policy.Secondary)
	if key == "" || key == SortByID {
		return nil
	}
	f, ok := d.Field(key)
	if !ok {
		return fmt.Errorf("secondary sort key %q is not a field", key)
	}
	if f.Kind == KindList || f.Kind == KindFile {
		return fmt.Errorf("secondary sort key %q must be a scalar field", key)
	}
	return nil
}

func (d Definition) codeField(value any) error {
	name, _ := value.(string)
	if name == "" {
		return nil
	}
	f, ok := d.Field(name)
	if !ok || f.Kind != KindCode {
		return fmt.Errorf("type field %q must be a code field", name)
	}
	return nil
}

func (f Field) validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&f.Kind, validation.Required, validation.In(KindText, KindList, KindPlain, KindDate, KindFile, KindCode)),
		validation.Field(&f.Labels, validation.When(f.Kind != KindCode, validation.Empty)),
	)
}

func (r Relation) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&r.Entity, validation.Required),
		validation.Field(&r.Kind, validation.Required, validation.In(HasMany, SelfParent)),
	)
}
