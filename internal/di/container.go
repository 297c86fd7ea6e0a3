package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-unicms/internal/commands"
	"github.com/goliatone/go-unicms/internal/composites"
	"github.com/goliatone/go-unicms/internal/fixtures"
	httpapi "github.com/goliatone/go-unicms/internal/http"
	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/internal/logging/console"
	"github.com/goliatone/go-unicms/internal/logging/gologger"
	"github.com/goliatone/go-unicms/internal/media"
	"github.com/goliatone/go-unicms/internal/pagecache"
	"github.com/goliatone/go-unicms/internal/presentation"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/runtimeconfig"
	"github.com/goliatone/go-unicms/internal/schema"
	"github.com/goliatone/go-unicms/internal/storage"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// mediaGroup and mediaRoute name the go-urlkit route built from
// MediaConfig.Route.
const (
	mediaGroup = "media"
	mediaRoute = "file"
)

const openTimeout = 10 * time.Second

// Container wires the content service from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	ctx            context.Context
	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	registry     *schema.Registry
	normalizer   *locale.Normalizer
	store        records.Store
	service      records.Service
	writer       *records.Writer
	media        interfaces.MediaResolver
	routeManager *urlkit.RouteManager
	mapper       *presentation.Mapper
	pageCache    *pagecache.Cache
	pages        *composites.Pages
	importer     *fixtures.Importer
	commands     commands.HandlerSet
	public       *httpapi.PublicAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithContext bounds storage setup.
func WithContext(ctx context.Context) Option {
	return func(c *Container) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLoggerProvider overrides the provider selected by LoggingConfig.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening StorageConfig.DSN. The caller keeps
// ownership of db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache in front of bun.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithStore overrides the record store.
func WithStore(store records.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithRegistry overrides the built-in entity catalog.
func WithRegistry(registry *schema.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithMediaResolver overrides the resolver built from MediaConfig.
func WithMediaResolver(resolver interfaces.MediaResolver) Option {
	return func(c *Container) {
		c.media = resolver
	}
}

func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, ctx: context.Background()}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, logging.RootModule)

	if c.registry == nil {
		c.registry = schema.MustCatalogRegistry()
	}
	c.normalizer = locale.NewNormalizer(cfg.I18N.DefaultLocale, cfg.I18N.Locales, cfg.I18N.Aliases)

	if err := c.configureStore(); err != nil {
		return nil, err
	}
	c.configureMedia()

	c.service = records.NewService(c.store, c.registry,
		records.WithMaxDepth(cfg.Hierarchy.MaxDepth),
		records.WithLogger(c.moduleLogger(logging.RecordsModule)),
	)
	c.writer = records.NewWriter(c.store, c.registry,
		records.WithWriterLogger(c.moduleLogger(logging.RecordsModule)),
	)

	mapperOpts := []presentation.Option{presentation.WithLogger(c.moduleLogger(logging.RecordsModule))}
	if c.media != nil {
		mapperOpts = append(mapperOpts, presentation.WithMediaResolver(c.media))
	}
	c.mapper = presentation.NewMapper(c.registry, mapperOpts...)

	cacheCfg := pagecache.DefaultConfig()
	cacheCfg.TTL = cfg.Pages.CacheTTL
	c.pageCache = pagecache.New(cacheCfg)
	c.pages = composites.NewPages(c.service, c.mapper, c.pageCache,
		composites.WithLogger(c.moduleLogger(logging.PagesModule)),
	)

	c.configureCommands()

	c.public = httpapi.NewPublicAPI(
		httpapi.WithBasePath(cfg.HTTP.BasePath),
		httpapi.WithRecords(c.service, c.registry),
		httpapi.WithMapper(c.mapper),
		httpapi.WithPages(c.pages),
		httpapi.WithNormalizer(c.normalizer),
		httpapi.WithAcceptLanguage(cfg.I18N.AcceptLanguage),
		httpapi.WithLogger(c.moduleLogger(logging.HTTPModule)),
	)

	c.logger.Info("container.configured",
		"storage", c.storageName(),
		"pages_cache_ttl", cfg.Pages.CacheTTL.String(),
		"max_depth", cfg.Hierarchy.MaxDepth,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "", "console":
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}
	storeCfg := c.Config.Storage
	if strings.ToLower(strings.TrimSpace(storeCfg.Provider)) != "bun" && c.bunDB == nil {
		c.store = records.NewMemoryStore()
		return nil
	}

	ctx, cancel := context.WithTimeout(c.ctx, openTimeout)
	defer cancel()

	if c.bunDB == nil {
		db, err := storage.Open(ctx, storage.Config{Dialect: storeCfg.Dialect, DSN: storeCfg.DSN})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if storeCfg.Migrate {
		if err := storage.Migrate(ctx, c.bunDB); err != nil {
			c.Close()
			return err
		}
	}

	c.configureCacheDefaults()
	c.store = records.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.moduleLogger(logging.StorageModule).Info("storage.ready",
		"storage", c.storageName(),
		"owned", c.ownsDB,
		"migrated", storeCfg.Migrate,
		"cache", c.cacheService != nil,
	)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureMedia() {
	if c.media != nil {
		return
	}
	mediaCfg := c.Config.Media
	if route := strings.TrimSpace(mediaCfg.Route); route != "" {
		c.routeManager = urlkit.NewRouteManager(&urlkit.Config{
			Groups: []urlkit.GroupConfig{{
				Name:    mediaGroup,
				BaseURL: strings.TrimRight(mediaCfg.BaseURL, "/"),
				Paths:   map[string]string{mediaRoute: route},
			}},
		})
		c.media = media.NewURLKitResolver(media.URLKitOptions{
			Manager: c.routeManager,
			Group:   mediaGroup,
			Route:   mediaRoute,
		})
		return
	}
	c.media = media.NewPrefixResolver(mediaCfg.BaseURL, mediaCfg.Prefix)
}

func (c *Container) configureCommands() {
	logger := commands.Logger(c.loggerProvider, "fixtures")
	c.importer = fixtures.NewImporter(c.writer, c.registry,
		fixtures.WithImporterLogger(c.moduleLogger(logging.FixturesModule)),
	)
	c.commands = commands.HandlerSet{
		ImportFixtures: commands.NewImportFixturesHandler(c.importer, c.pages, logger, []fixtures.LoaderOption{
			fixtures.WithNormalizer(c.normalizer),
			fixtures.WithLoaderLogger(c.moduleLogger(logging.FixturesModule)),
		}),
		InvalidatePages: commands.NewInvalidatePagesHandler(c.pages, commands.Logger(c.loggerProvider, "pages")),
	}
}

func (c *Container) moduleLogger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

func (c *Container) storageName() string {
	if c.bunDB != nil {
		dialect, err := storage.NormalizeDialect(c.Config.Storage.Dialect)
		if err != nil {
			return "bun"
		}
		return "bun/" + dialect
	}
	if _, ok := c.store.(*records.MemoryStore); ok {
		return "memory"
	}
	return fmt.Sprintf("%T", c.store)
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

// Handler returns the public HTTP API on a fresh ServeMux.
func (c *Container) Handler() (http.Handler, error) {
	if c.public == nil {
		return nil, errors.New("di: public api not configured")
	}
	return c.public.Handler()
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) Registry() *schema.Registry               { return c.registry }
func (c *Container) Normalizer() *locale.Normalizer           { return c.normalizer }
func (c *Container) Store() records.Store                     { return c.store }
func (c *Container) Service() records.Service                 { return c.service }
func (c *Container) Writer() *records.Writer                  { return c.writer }
func (c *Container) MediaResolver() interfaces.MediaResolver  { return c.media }
func (c *Container) Mapper() *presentation.Mapper             { return c.mapper }
func (c *Container) Pages() *composites.Pages                 { return c.pages }
func (c *Container) Importer() *fixtures.Importer             { return c.importer }
func (c *Container) Commands() commands.HandlerSet            { return c.commands }
func (c *Container) PublicAPI() *httpapi.PublicAPI            { return c.public }
func (c *Container) DB() *bun.DB                              { return c.bunDB }
