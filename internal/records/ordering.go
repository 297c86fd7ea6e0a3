package records

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-unicms/internal/schema"
)

// SortRecords orders records by the definition's policy. The order is
// total: ties always end on the record id.
func SortRecords(def schema.Definition, records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		return compareRecords(def, a, b)
	})
}

func compareRecords(def schema.Definition, a, b *Record) int {
	if def.Order.DateDesc {
		if c := compareDatesDesc(a.Date, b.Date); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := compareSecondary(def, a, b); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// compareDatesDesc puts newer dates first and undated records last.
func compareDatesDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Compare(*a)
}

func compareSecondary(def schema.Definition, a, b *Record) int {
	key := def.Order.Secondary
	if key == "" || key == schema.SortByID {
		return 0
	}
	field, ok := def.Field(key)
	if !ok {
		return 0
	}
	switch field.Kind {
	case schema.KindText:
		return strings.Compare(a.Text(key).RU, b.Text(key).RU)
	case schema.KindCode:
		return strings.Compare(a.Code(key), b.Code(key))
	default:
		return compareValues(a.Field(key), b.Field(key))
	}
}

// compareValues orders plain values numerically when both are numbers and
// by their string form otherwise. Missing values sort first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
