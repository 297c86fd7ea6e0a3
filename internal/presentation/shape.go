package presentation

import "github.com/goliatone/go-unicms/internal/schema"

// ProjectionKind selects how a record value is rendered.
type ProjectionKind string

const (
	ProjectID        ProjectionKind = "id"
	ProjectKey       ProjectionKind = "key"
	ProjectText      ProjectionKind = "text"
	ProjectList      ProjectionKind = "list"
	ProjectPlain     ProjectionKind = "plain"
	ProjectFile      ProjectionKind = "file"
	ProjectCode      ProjectionKind = "code"
	ProjectCodeLabel ProjectionKind = "code_label"
	ProjectDate      ProjectionKind = "date"
	ProjectOrder     ProjectionKind = "order"
)

// DateLayout is the wire format of record dates.
const DateLayout = "2006-01-02"

// Projection renders one output key from the record field Field.
type Projection struct {
	Key   string
	Field string
	Kind  ProjectionKind
}

// Nested renders the children attached under Relation as an array at Key.
// A nil Shape uses the default shape of the child entity.
type Nested struct {
	Key      string
	Relation string
	Shape    *Shape
}

// Shape is the ordered output layout of an entity.
type Shape struct {
	Name        string
	Projections []Projection
	Nested      []Nested
}

// ShapeFor returns the default layout of def: id, key when exposed, fields
// in declaration order, the record date, order, then nested relations.
func ShapeFor(def schema.Definition) *Shape {
	shape := &Shape{Name: def.Name}
	add := func(key, field string, kind ProjectionKind) {
		shape.Projections = append(shape.Projections, Projection{Key: key, Field: field, Kind: kind})
	}

	add("id", "", ProjectID)
	if def.ExposeKey {
		add("key", "", ProjectKey)
	}
	for _, f := range def.Fields {
		switch f.Kind {
		case schema.KindText:
			add(f.Name, f.Name, ProjectText)
		case schema.KindList:
			add(f.Name, f.Name, ProjectList)
		case schema.KindFile:
			add(f.Name, f.Name, ProjectFile)
		case schema.KindCode:
			add(f.Name, f.Name, ProjectCode)
			add(f.Name+"_display", f.Name, ProjectCodeLabel)
		default:
			add(f.Name, f.Name, ProjectPlain)
		}
	}
	if def.HasDate() {
		add(def.DateField, "", ProjectDate)
	}
	add("order", "", ProjectOrder)

	for _, rel := range def.NestedRelations() {
		shape.Nested = append(shape.Nested, Nested{Key: rel.Name, Relation: rel.Name})
	}
	return shape
}
