package locale

import (
	"maps"
	"slices"
	"strings"
)

// Text is a localized string field. RU is the base value.
type Text struct {
	RU string `json:"ru"`
	EN string `json:"en,omitempty"`
	KG string `json:"kg,omitempty"`
}

// Variant returns the raw value stored for lang.
func (t Text) Variant(lang Language) string {
	switch lang {
	case EN:
		return t.EN
	case KG:
		return t.KG
	default:
		return t.RU
	}
}

// Resolve returns the lang value when it holds visible text and the ru value
// otherwise, even when ru is empty.
func (t Text) Resolve(lang Language) string {
	if lang != RU {
		if v := t.Variant(lang); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return t.RU
}

// IsZero reports whether no variant carries text.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.RU) == "" && strings.TrimSpace(t.EN) == "" && strings.TrimSpace(t.KG) == ""
}

// Contains reports a case-insensitive substring match of term in any variant.
// An empty term matches everything.
func (t Text) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range [...]string{t.RU, t.EN, t.KG} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// List is a localized list field such as features or responsibilities.
type List struct {
	RU []string `json:"ru"`
	EN []string `json:"en,omitempty"`
	KG []string `json:"kg,omitempty"`
}

// Variant returns the raw slice stored for lang.
func (l List) Variant(lang Language) []string {
	switch lang {
	case EN:
		return l.EN
	case KG:
		return l.KG
	default:
		return l.RU
	}
}

// Resolve returns the lang items when the collection is non-empty and the ru
// items otherwise. The result is never nil.
func (l List) Resolve(lang Language) []string {
	items := l.RU
	if lang != RU {
		if v := l.Variant(lang); len(v) > 0 {
			items = v
		}
	}
	if items == nil {
		return []string{}
	}
	return items
}

// Contains matches term against every item of every variant.
func (l List) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, items := range [...][]string{l.RU, l.EN, l.KG} {
		for _, item := range items {
			if strings.Contains(strings.ToLower(item), term) {
				return true
			}
		}
	}
	return false
}

// Labels maps enumerated codes onto localized display labels.
type Labels map[string]Text

// Resolve returns the label for code in lang, then in ru, then the code
// itself.
func (l Labels) Resolve(code string, lang Language) string {
	label, ok := l[code]
	if !ok {
		return code
	}
	if v := label.Resolve(lang); strings.TrimSpace(v) != "" {
		return v
	}
	return code
}

// Codes returns the labelled codes in sorted order.
func (l Labels) Codes() []string {
	return slices.Sorted(maps.Keys(l))
}
