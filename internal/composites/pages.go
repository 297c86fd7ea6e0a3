package composites

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/pagecache"
	"github.com/goliatone/go-unicms/internal/presentation"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// Page names, also used as cache keys.
const (
	BachelorQuotasPage = "bachelor-quotas"
	CollegePage        = "college"
)

// Pages renders the composite endpoints that bundle several collections in
// one response.
type Pages struct {
	records records.Service
	mapper  *presentation.Mapper
	cache   *pagecache.Cache
	logger  interfaces.Logger
}

type Option func(*Pages)

func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pages) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPages wires the composite renderer. A nil cache renders every request.
func NewPages(svc records.Service, mapper *presentation.Mapper, cache *pagecache.Cache, opts ...Option) *Pages {
	p := &Pages{records: svc, mapper: mapper, cache: cache, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Names lists the composite pages.
func Names() []string {
	return []string{BachelorQuotasPage, CollegePage}
}

// BachelorQuotas returns the quota page: quota types with their
// requirements and benefits, stats, additional support and process steps.
func (p *Pages) BachelorQuotas(ctx context.Context, lang locale.Language) ([]byte, error) {
	return p.cache.GetOrFetch(ctx, BachelorQuotasPage, lang, func(ctx context.Context) ([]byte, error) {
		sections := []struct {
			key    string
			entity string
		}{
			{"quotas", schema.QuotaType},
			{"quota_stats", schema.QuotaStat},
			{"additional_support", schema.AdditionalSupport},
			{"process_steps", schema.ProcessStep},
		}
		out := presentation.NewObject()
		for _, section := range sections {
			items, err := p.collection(ctx, section.entity, lang)
			if err != nil {
				return nil, err
			}
			out.Set(section.key, items)
		}
		return p.encode(BachelorQuotasPage, lang, out)
	})
}

// College returns the college tabs with their cards nested under each tab.
func (p *Pages) College(ctx context.Context, lang locale.Language) ([]byte, error) {
	return p.cache.GetOrFetch(ctx, CollegePage, lang, func(ctx context.Context) ([]byte, error) {
		tabs, err := p.collection(ctx, schema.CollegeTab, lang)
		if err != nil {
			return nil, err
		}
		return p.encode(CollegePage, lang, presentation.NewObject().Set("tabs", tabs))
	})
}

// Invalidate drops the cached variants of page name, or every page when
// name is empty.
func (p *Pages) Invalidate(name string) int {
	if name == "" {
		return p.cache.InvalidateAll()
	}
	return p.cache.Invalidate(name)
}

func (p *Pages) collection(ctx context.Context, entity string, lang locale.Language) ([]*presentation.Object, error) {
	nodes, err := p.records.List(ctx, records.ListRequest{EntityType: entity, IncludeChildren: true})
	if err != nil {
		return nil, fmt.Errorf("composites: %s: %w", entity, err)
	}
	return p.mapper.PresentAll(ctx, nodes, lang, nil), nil
}

func (p *Pages) encode(name string, lang locale.Language, body *presentation.Object) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("composites: encode %s: %w", name, err)
	}
	p.logger.Debug("composites.render", "page", name, "lang", lang, "bytes", len(raw))
	return raw, nil
}
