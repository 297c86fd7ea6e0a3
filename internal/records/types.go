package records

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-unicms/internal/locale"
)

// Record is the stored form of every content entity. Localized fields live
// in Texts and Lists keyed by field name; the entity schema decides which
// keys are meaningful.
type Record struct {
	bun.BaseModel `bun:"table:content_records,alias:cr"`

	ID         uuid.UUID              `bun:",pk,type:uuid" json:"id"`
	EntityType string                 `bun:"entity_type,notnull" json:"entity_type"`
	Key        string                 `bun:"key" json:"key,omitempty"`
	ParentID   *uuid.UUID             `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	IsActive   bool                   `bun:"is_active,notnull" json:"is_active"`
	Order      int                    `bun:"sort_order,notnull" json:"order"`
	Date       *time.Time             `bun:"record_date" json:"date,omitempty"`
	Texts      map[string]locale.Text `bun:"texts,type:jsonb" json:"texts,omitempty"`
	Lists      map[string]locale.List `bun:"lists,type:jsonb" json:"lists,omitempty"`
	Fields     map[string]any         `bun:"fields,type:jsonb" json:"fields,omitempty"`
	Files      map[string]string      `bun:"files,type:jsonb" json:"files,omitempty"`
	Codes      map[string]string      `bun:"codes,type:jsonb" json:"codes,omitempty"`
	CreatedAt  time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time              `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

func (r *Record) Text(name string) locale.Text { return r.Texts[name] }
func (r *Record) List(name string) locale.List { return r.Lists[name] }
func (r *Record) Field(name string) any        { return r.Fields[name] }
func (r *Record) File(name string) string      { return r.Files[name] }
func (r *Record) Code(name string) string      { return r.Codes[name] }

// Clone returns a copy that shares no maps or slices with r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.ParentID != nil {
		parent := *r.ParentID
		out.ParentID = &parent
	}
	if r.Date != nil {
		date := *r.Date
		out.Date = &date
	}
	out.Texts = maps.Clone(r.Texts)
	if r.Lists != nil {
		out.Lists = make(map[string]locale.List, len(r.Lists))
		for name, l := range r.Lists {
			out.Lists[name] = locale.List{RU: slices.Clone(l.RU), EN: slices.Clone(l.EN), KG: slices.Clone(l.KG)}
		}
	}
	out.Fields = maps.Clone(r.Fields)
	out.Files = maps.Clone(r.Files)
	out.Codes = maps.Clone(r.Codes)
	return &out
}

// Node is a record with its nested collections keyed by relation name.
type Node struct {
	Record   *Record
	Children map[string][]*Node
}

func newNode(record *Record) *Node {
	return &Node{Record: record, Children: map[string][]*Node{}}
}

// Depth returns the number of node levels below and including n.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, children := range n.Children {
		for _, child := range children {
			deepest = max(deepest, child.Depth())
		}
	}
	return deepest + 1
}

// Query is the predicate passed to a Store.
type Query struct {
	EntityType string
	ParentIDs  []uuid.UUID
	// RootsOnly restricts results to records without a parent. Ignored when
	// ParentIDs is set.
	RootsOnly  bool
	ActiveOnly bool
}

// Matches applies q to a single record.
func (q Query) Matches(r *Record) bool {
	if r == nil || r.EntityType != q.EntityType {
		return false
	}
	if q.ActiveOnly && !r.IsActive {
		return false
	}
	if len(q.ParentIDs) > 0 {
		return r.ParentID != nil && slices.Contains(q.ParentIDs, *r.ParentID)
	}
	if q.RootsOnly {
		return r.ParentID == nil
	}
	return true
}

// ListRequest selects records for a listing.
type ListRequest struct {
	EntityType string
	// Parent is the key or id of the parent named by the entity's parent
	// filter.
	Parent          string
	Search          string
	Type            string
	IncludeChildren bool
}

// GetRequest selects a single record by id or natural key.
type GetRequest struct {
	EntityType      string
	ID              string
	IncludeChildren bool
}
