package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/records"
)

type languagesResponse struct {
	Default   locale.Language   `json:"default"`
	Languages []locale.Language `json:"languages"`
	Aliases   []string          `json:"aliases"`
}

func (api *PublicAPI) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		Default:   api.normalizer.Fallback(),
		Languages: api.normalizer.Languages(),
		Aliases:   api.normalizer.Aliases(),
	})
}

func (api *PublicAPI) handleList(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	def, ok := api.registry.Lookup(entity)
	if !ok {
		api.fail(w, r, fmt.Errorf("%w: %s", records.ErrUnknownEntity, entity))
		return
	}
	query := r.URL.Query()
	req := records.ListRequest{
		EntityType:      def.Name,
		Search:          strings.TrimSpace(query.Get("search")),
		Type:            strings.TrimSpace(query.Get("type")),
		IncludeChildren: parseBoolQuery(query.Get("children"), true),
	}
	if def.Parent != nil {
		req.Parent = strings.TrimSpace(query.Get(def.Parent.Param))
	}

	ctx := logging.ContextWithFields(r.Context(), map[string]any{"entity": def.Name})
	nodes, err := api.records.List(ctx, req)
	if err != nil {
		api.fail(w, r.WithContext(ctx), err)
		return
	}
	lang := api.language(r)
	w.Header().Set("Content-Language", lang.String())
	writeJSON(w, http.StatusOK, api.mapper.PresentAll(ctx, nodes, lang, nil))
}

func (api *PublicAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	def, ok := api.registry.Lookup(entity)
	if !ok {
		api.fail(w, r, fmt.Errorf("%w: %s", records.ErrUnknownEntity, entity))
		return
	}
	ctx := logging.ContextWithFields(r.Context(), map[string]any{"entity": def.Name})
	node, err := api.records.Get(ctx, records.GetRequest{
		EntityType:      def.Name,
		ID:              r.PathValue("id"),
		IncludeChildren: parseBoolQuery(r.URL.Query().Get("children"), true),
	})
	if err != nil {
		api.fail(w, r.WithContext(ctx), err)
		return
	}
	lang := api.language(r)
	w.Header().Set("Content-Language", lang.String())
	writeJSON(w, http.StatusOK, api.mapper.Present(ctx, node, lang, nil))
}

func (api *PublicAPI) handleBachelorQuotas(w http.ResponseWriter, r *http.Request) {
	lang := api.language(r)
	body, err := api.pages.BachelorQuotas(r.Context(), lang)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Language", lang.String())
	writeRaw(w, http.StatusOK, body)
}

func (api *PublicAPI) handleCollege(w http.ResponseWriter, r *http.Request) {
	lang := api.language(r)
	body, err := api.pages.College(r.Context(), lang)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Language", lang.String())
	writeRaw(w, http.StatusOK, body)
}
