// Package locale resolves localized field values for the ru/en/kg content
// languages. Language codes coming from clients are normalized once at the
// boundary; everything past that point works with a Language.
package locale

import (
	"maps"
	"slices"
	"strings"
)

// Language is one of the supported content languages.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
	KG Language = "kg"
)

// Default is the base language. Every localized field carries a value for it.
const Default = RU

// Supported lists the languages in their canonical order.
func Supported() []Language {
	return []Language{RU, EN, KG}
}

func (l Language) String() string { return string(l) }

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case RU, EN, KG:
		return true
	}
	return false
}

// Normalizer maps raw client codes onto supported languages.
type Normalizer struct {
	fallback  Language
	aliases   map[string]Language
	supported map[Language]bool
}

// DefaultAliases holds the legacy codes still sent by older clients.
func DefaultAliases() map[string]string {
	return map[string]string{"ky": "kg"}
}

// NewNormalizer builds a normalizer. Unknown languages in supported, and
// aliases pointing at them, are ignored. An invalid fallback becomes ru.
func NewNormalizer(fallback string, supported []string, aliases map[string]string) *Normalizer {
	n := &Normalizer{
		fallback:  Language(clean(fallback)),
		aliases:   map[string]Language{},
		supported: map[Language]bool{},
	}
	for _, code := range supported {
		if lang := Language(clean(code)); lang.Valid() {
			n.supported[lang] = true
		}
	}
	if len(n.supported) == 0 {
		for _, lang := range Supported() {
			n.supported[lang] = true
		}
	}
	if !n.fallback.Valid() || !n.supported[n.fallback] {
		n.fallback = Default
		n.supported[Default] = true
	}
	for from, to := range aliases {
		target := Language(clean(to))
		if n.supported[target] {
			n.aliases[clean(from)] = target
		}
	}
	return n
}

// Normalize returns the language for code. Missing, unknown and unsupported
// codes resolve to the fallback language; this never fails.
func (n *Normalizer) Normalize(code string) Language {
	if n == nil {
		return Normalize(code)
	}
	lang, _ := n.Lookup(code)
	return lang
}

// Lookup is Normalize that also reports whether code named a supported
// language or alias.
func (n *Normalizer) Lookup(code string) (Language, bool) {
	key := clean(code)
	if alias, ok := n.aliases[key]; ok {
		return alias, true
	}
	if lang := Language(key); n.supported[lang] {
		return lang, true
	}
	return n.fallback, false
}

// Fallback returns the language used when a code cannot be resolved.
func (n *Normalizer) Fallback() Language {
	if n == nil {
		return Default
	}
	return n.fallback
}

// Languages returns the supported languages in canonical order.
func (n *Normalizer) Languages() []Language {
	out := make([]Language, 0, len(n.supported))
	for _, lang := range Supported() {
		if n.supported[lang] {
			out = append(out, lang)
		}
	}
	return out
}

// Aliases returns the alias table sorted by alias code.
func (n *Normalizer) Aliases() []string {
	return slices.Sorted(maps.Keys(n.aliases))
}

var defaultNormalizer = NewNormalizer(string(Default), nil, DefaultAliases())

// Normalize resolves code with the default ru/en/kg table and the ky alias.
func Normalize(code string) Language {
	return defaultNormalizer.Normalize(code)
}

func clean(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
