package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-unicms/internal/composites"
	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/presentation"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// DefaultBasePath is where the public routes mount when no base path is set.
const DefaultBasePath = "/api"

// PublicAPI registers the read-only content endpoints.
type PublicAPI struct {
	basePath   string
	records    records.Service
	registry   *schema.Registry
	mapper     *presentation.Mapper
	pages      *composites.Pages
	normalizer *locale.Normalizer
	negotiator *locale.Negotiator
	logger     interfaces.Logger
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

// NewPublicAPI constructs a PublicAPI instance.
func NewPublicAPI(opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath:   DefaultBasePath,
		normalizer: locale.NewNormalizer(string(locale.Default), nil, locale.DefaultAliases()),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithRecords wires the record read service and the registry describing
// its entities.
func WithRecords(service records.Service, registry *schema.Registry) PublicOption {
	return func(api *PublicAPI) {
		api.records = service
		api.registry = registry
	}
}

func WithMapper(mapper *presentation.Mapper) PublicOption {
	return func(api *PublicAPI) {
		api.mapper = mapper
	}
}

// WithPages wires the composite page renderer.
func WithPages(pages *composites.Pages) PublicOption {
	return func(api *PublicAPI) {
		api.pages = pages
	}
}

// WithNormalizer replaces the language table used for ?lang.
func WithNormalizer(normalizer *locale.Normalizer) PublicOption {
	return func(api *PublicAPI) {
		if normalizer != nil {
			api.normalizer = normalizer
		}
	}
}

// WithAcceptLanguage enables Accept-Language negotiation when ?lang is
// absent.
func WithAcceptLanguage(enabled bool) PublicOption {
	return func(api *PublicAPI) {
		api.negotiator = nil
		if enabled {
			api.negotiator = locale.NewNegotiator(api.normalizer)
		}
	}
}

func WithLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the public endpoints to the provided mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api.records == nil || api.registry == nil || api.mapper == nil {
		return fmt.Errorf("http: records service, registry and mapper are required")
	}
	base := api.basePath

	mux.HandleFunc("GET "+joinPath(base, "languages"), api.handleLanguages)
	if api.pages != nil {
		pages := joinPath(base, "pages")
		mux.HandleFunc("GET "+joinPath(pages, composites.BachelorQuotasPage), api.handleBachelorQuotas)
		mux.HandleFunc("GET "+joinPath(pages, composites.CollegePage), api.handleCollege)
	}
	mux.HandleFunc("GET "+joinPath(base, "{entity}"), api.handleList)
	mux.HandleFunc("GET "+joinPath(base, "{entity}/{id}"), api.handleGet)
	return nil
}

// Handler returns a mux with the public endpoints registered.
func (api *PublicAPI) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// language applies ?lang first, then Accept-Language when enabled, then
// the fallback language.
func (api *PublicAPI) language(r *http.Request) locale.Language {
	if raw := strings.TrimSpace(r.URL.Query().Get("lang")); raw != "" {
		return api.normalizer.Normalize(raw)
	}
	if api.negotiator != nil {
		if lang, ok := api.negotiator.Negotiate(r.Header.Get("Accept-Language")); ok {
			return lang
		}
	}
	return api.normalizer.Fallback()
}

func (api *PublicAPI) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.WithFields(api.logger, logging.ContextFields(r.Context())).Error("http.request.failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, payload)
}
