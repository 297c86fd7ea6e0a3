package unicms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-unicms/internal/commands"
	"github.com/goliatone/go-unicms/internal/di"
	"github.com/goliatone/go-unicms/internal/presentation"
	"github.com/goliatone/go-unicms/internal/records"
)

// Object is a presented record: an ordered JSON object in one language.
type Object = presentation.Object

// Service exports the read contract over stored records.
type Service = records.Service

// ListOptions selects records for Module.List.
type ListOptions struct {
	// Lang is any client language code; unknown codes fall back to ru.
	Lang string
	// Parent is the key or id of the parent named by the entity's parent
	// filter, for example the tab of a college card.
	Parent string
	Search string
	Type   string
	// Flat skips nested collections.
	Flat bool
}

// GetOptions selects the presentation of Module.Get.
type GetOptions struct {
	Lang string
	Flat bool
}

// Module is the top level content service facade.
type Module struct {
	container *di.Container
}

// New constructs a module using cfg and optional container overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Records() Service {
	return m.container.Service()
}

// Handler returns the public JSON API.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// List returns the active records of entity presented in opts.Lang.
func (m *Module) List(ctx context.Context, entity string, opts ListOptions) ([]*Object, error) {
	def, ok := m.container.Registry().Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	nodes, err := m.container.Service().List(ctx, records.ListRequest{
		EntityType:      def.Name,
		Parent:          strings.TrimSpace(opts.Parent),
		Search:          strings.TrimSpace(opts.Search),
		Type:            strings.TrimSpace(opts.Type),
		IncludeChildren: !opts.Flat,
	})
	if err != nil {
		return nil, err
	}
	return m.container.Mapper().PresentAll(ctx, nodes, m.ResolveLanguage(opts.Lang), nil), nil
}

// Get returns one active record of entity by id or natural key.
func (m *Module) Get(ctx context.Context, entity, id string, opts GetOptions) (*Object, error) {
	def, ok := m.container.Registry().Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	node, err := m.container.Service().Get(ctx, records.GetRequest{
		EntityType:      def.Name,
		ID:              id,
		IncludeChildren: !opts.Flat,
	})
	if err != nil {
		return nil, err
	}
	return m.container.Mapper().Present(ctx, node, m.ResolveLanguage(opts.Lang), nil), nil
}

// BachelorQuotasPage returns the cached bachelor quotas page body.
func (m *Module) BachelorQuotasPage(ctx context.Context, lang string) ([]byte, error) {
	return m.container.Pages().BachelorQuotas(ctx, m.ResolveLanguage(lang))
}

// CollegePage returns the cached college page body.
func (m *Module) CollegePage(ctx context.Context, lang string) ([]byte, error) {
	return m.container.Pages().College(ctx, m.ResolveLanguage(lang))
}

// ImportFixtures loads the fixture files under dir and upserts them.
func (m *Module) ImportFixtures(ctx context.Context, dir string, dryRun bool) error {
	return m.container.Commands().ImportFixtures.Execute(ctx, commands.ImportFixtures{Dir: dir, DryRun: dryRun})
}

// InvalidatePages drops the named cached page, or every page when name is
// empty.
func (m *Module) InvalidatePages(ctx context.Context, name string) error {
	return m.container.Commands().InvalidatePages.Execute(ctx, commands.InvalidatePages{Name: name})
}

// ResolveLanguage maps a client language code onto a supported language.
func (m *Module) ResolveLanguage(code string) Language {
	return m.container.Normalizer().Normalize(code)
}

// Languages lists the supported languages, fallback first.
func (m *Module) Languages() []Language {
	return m.container.Normalizer().Languages()
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

