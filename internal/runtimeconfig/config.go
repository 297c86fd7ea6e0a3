package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-unicms/internal/locale"
)

var ErrDefaultLocaleUnsupported = errors.New("unicms config: default locale must be one of ru, en, kg")
var ErrLocaleUnsupported = errors.New("unicms config: unsupported locale")
var ErrStorageProviderUnknown = errors.New("unicms config: storage provider is invalid")
var ErrStorageDialectUnknown = errors.New("unicms config: storage dialect is invalid")
var ErrStorageDSNRequired = errors.New("unicms config: storage dsn is required for the bun provider")
var ErrHierarchyDepthInvalid = errors.New("unicms config: hierarchy max depth must be positive")
var ErrPagesCacheTTLInvalid = errors.New("unicms config: pages cache ttl must be zero or positive")
var ErrLoggingProviderUnknown = errors.New("unicms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("unicms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("unicms config: logging format is invalid")

// Config aggregates the runtime settings of the content service. Every
// field can be overridden from UNICMS_* environment variables.
type Config struct {
	I18N      I18NConfig      `envPrefix:"I18N_"`
	Storage   StorageConfig   `envPrefix:"STORAGE_"`
	Cache     CacheConfig     `envPrefix:"CACHE_"`
	Pages     PagesConfig     `envPrefix:"PAGES_"`
	Hierarchy HierarchyConfig `envPrefix:"HIERARCHY_"`
	Media     MediaConfig     `envPrefix:"MEDIA_"`
	HTTP      HTTPConfig      `envPrefix:"HTTP_"`
	Fixtures  FixturesConfig  `envPrefix:"FIXTURES_"`
	Logging   LoggingConfig   `envPrefix:"LOG_"`
}

// I18NConfig controls language normalization.
type I18NConfig struct {
	DefaultLocale string            `env:"DEFAULT_LOCALE"`
	Locales       []string          `env:"LOCALES" envSeparator:","`
	Aliases       map[string]string `env:"ALIASES"`
	// AcceptLanguage lets the Accept-Language header pick the language when
	// ?lang is absent.
	AcceptLanguage bool `env:"ACCEPT_LANGUAGE"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Provider string `env:"PROVIDER"`
	Dialect  string `env:"DIALECT"`
	DSN      string `env:"DSN"`
	Migrate  bool   `env:"MIGRATE"`
}

// CacheConfig controls the go-repository-cache layer in front of bun.
type CacheConfig struct {
	Enabled    bool          `env:"ENABLED"`
	DefaultTTL time.Duration `env:"DEFAULT_TTL"`
}

// PagesConfig controls the composite page cache.
type PagesConfig struct {
	CacheTTL time.Duration `env:"CACHE_TTL"`
}

type HierarchyConfig struct {
	MaxDepth int `env:"MAX_DEPTH"`
}

// MediaConfig controls how stored file paths become URLs. Route, when set,
// names a go-urlkit group path and takes precedence over BaseURL.
type MediaConfig struct {
	BaseURL string `env:"BASE_URL"`
	Prefix  string `env:"PREFIX"`
	Route   string `env:"ROUTE"`
}

type HTTPConfig struct {
	Addr        string   `env:"ADDR"`
	BasePath    string   `env:"BASE_PATH"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

type FixturesConfig struct {
	Dir string `env:"DIR"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `env:"PROVIDER"`
	Level     string   `env:"LEVEL"`
	Format    string   `env:"FORMAT"`
	AddSource bool     `env:"ADD_SOURCE"`
	Focus     []string `env:"FOCUS" envSeparator:","`
}

// DefaultConfig returns the settings used when nothing is overridden: an
// in-memory store, ru fallback with the ky alias and a 15 minute page cache.
func DefaultConfig() Config {
	return Config{
		I18N: I18NConfig{
			DefaultLocale: string(locale.Default),
			Locales:       []string{"ru", "en", "kg"},
			Aliases:       locale.DefaultAliases(),
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Pages: PagesConfig{
			CacheTTL: 15 * time.Minute,
		},
		Hierarchy: HierarchyConfig{
			MaxDepth: 16,
		},
		Media: MediaConfig{
			Prefix: "/media/",
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/api",
		},
		Fixtures: FixturesConfig{
			Dir: "fixtures",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !locale.Language(normalize(cfg.I18N.DefaultLocale)).Valid() {
		return fmt.Errorf("%w: %q", ErrDefaultLocaleUnsupported, cfg.I18N.DefaultLocale)
	}
	for _, code := range cfg.I18N.Locales {
		if !locale.Language(normalize(code)).Valid() {
			return fmt.Errorf("%w: %q", ErrLocaleUnsupported, code)
		}
	}

	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
		switch normalize(cfg.Storage.Dialect) {
		case "sqlite", "sqlite3", "postgres", "pg":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Hierarchy.MaxDepth <= 0 {
		return ErrHierarchyDepthInvalid
	}
	if cfg.Pages.CacheTTL < 0 {
		return ErrPagesCacheTTLInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
