package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Negotiator picks a content language from an Accept-Language header.
// Browsers send the ISO code "ky" for Kyrgyz, which maps onto kg.
type Negotiator struct {
	matcher language.Matcher
	langs   []Language
}

// NewNegotiator builds a matcher over the normalizer's languages. The
// fallback language is listed first so it wins weak matches.
func NewNegotiator(n *Normalizer) *Negotiator {
	if n == nil {
		n = defaultNormalizer
	}
	langs := []Language{n.Fallback()}
	for _, lang := range n.Languages() {
		if lang != n.Fallback() {
			langs = append(langs, lang)
		}
	}
	tags := make([]language.Tag, 0, len(langs))
	for _, lang := range langs {
		tags = append(tags, tagFor(lang))
	}
	return &Negotiator{matcher: language.NewMatcher(tags), langs: langs}
}

// Negotiate returns the best language for header. The boolean is false when
// the header is empty, malformed or matches nothing.
func (n *Negotiator) Negotiate(header string) (Language, bool) {
	if n == nil || strings.TrimSpace(header) == "" {
		return Default, false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return n.langs[0], false
	}
	_, index, confidence := n.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(n.langs) {
		return n.langs[0], false
	}
	return n.langs[index], true
}

func tagFor(lang Language) language.Tag {
	switch lang {
	case EN:
		return language.English
	case KG:
		return language.Make("ky")
	default:
		return language.Russian
	}
}
