package fixtures

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/identity"
	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
)

// DateLayout is the layout of fixture dates.
const DateLayout = "2006-01-02"

var (
	ErrDocumentInvalid   = errors.New("fixtures: document invalid")
	ErrParentUnsupported = errors.New("fixtures: entity does not accept a parent")
)

// Document is one record as written in a fixture file. Parent holds the
// natural key of the parent record; its entity comes from the schema.
type Document struct {
	Source string `json:"-" yaml:"-"`

	Entity string                 `json:"entity" yaml:"entity"`
	Key    string                 `json:"key" yaml:"key"`
	Parent string                 `json:"parent,omitempty" yaml:"parent,omitempty"`
	Active *bool                  `json:"active,omitempty" yaml:"active,omitempty"`
	Order  int                    `json:"order,omitempty" yaml:"order,omitempty"`
	Date   string                 `json:"date,omitempty" yaml:"date,omitempty"`
	Texts  map[string]locale.Text `json:"texts,omitempty" yaml:"texts,omitempty"`
	Lists  map[string]locale.List `json:"lists,omitempty" yaml:"lists,omitempty"`
	Fields map[string]any         `json:"fields,omitempty" yaml:"fields,omitempty"`
	Files  map[string]string      `json:"files,omitempty" yaml:"files,omitempty"`
	Codes  map[string]string      `json:"codes,omitempty" yaml:"codes,omitempty"`
}

// Validate checks the document shape. Schema rules are applied later by the
// record writer.
func (d *Document) Validate() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.Entity, validation.Required),
		validation.Field(&d.Key, validation.Required),
		validation.Field(&d.Order, validation.Min(0)),
		validation.Field(&d.Date, validation.Date(DateLayout)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDocumentInvalid, d.label(), err)
	}
	return nil
}

// Normalize trims the entity and slug-normalizes the key and parent key.
func (d *Document) Normalize() error {
	d.Entity = strings.ToLower(strings.TrimSpace(d.Entity))
	d.Entity = strings.ReplaceAll(d.Entity, "-", "_")

	key, err := normalizeKey(d.Key)
	if err != nil {
		return fmt.Errorf("%w: %s: key: %v", ErrDocumentInvalid, d.label(), err)
	}
	d.Key = key

	parent, err := normalizeKey(d.Parent)
	if err != nil {
		return fmt.Errorf("%w: %s: parent: %v", ErrDocumentInvalid, d.label(), err)
	}
	d.Parent = parent
	return nil
}

// IsActive defaults to true when the document does not say otherwise.
func (d *Document) IsActive() bool {
	return d.Active == nil || *d.Active
}

// Record converts the document into a record of def. The id and parent id
// are derived from natural keys so re-imports address the same rows.
func (d *Document) Record(def schema.Definition) (*records.Record, error) {
	record := &records.Record{
		ID:         identity.RecordUUID(def.Name, d.Key),
		EntityType: def.Name,
		Key:        d.Key,
		IsActive:   d.IsActive(),
		Order:      d.Order,
		Texts:      maps.Clone(d.Texts),
		Lists:      maps.Clone(d.Lists),
		Fields:     maps.Clone(d.Fields),
		Files:      maps.Clone(d.Files),
		Codes:      maps.Clone(d.Codes),
	}

	if d.Date != "" {
		date, err := time.Parse(DateLayout, d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: date: %v", ErrDocumentInvalid, d.label(), err)
		}
		record.Date = &date
	}

	if d.Parent != "" {
		parentEntity, ok := parentEntityOf(def)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrParentUnsupported, d.label())
		}
		parentID := identity.RecordUUID(parentEntity, d.Parent)
		if parentID == uuid.Nil {
			return nil, fmt.Errorf("%w: %s: parent key", ErrDocumentInvalid, d.label())
		}
		record.ParentID = &parentID
	}
	return record, nil
}

func (d *Document) label() string {
	name := d.Entity
	if d.Key != "" {
		name += "/" + d.Key
	}
	if d.Source != "" {
		name += " (" + d.Source + ")"
	}
	return name
}

func parentEntityOf(def schema.Definition) (string, bool) {
	if def.IsHierarchy() {
		return def.Name, true
	}
	if def.Parent != nil {
		return def.Parent.Entity, true
	}
	return "", false
}

func normalizeKey(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	return slug.Normalize(value)
}
