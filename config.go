package unicms

import "github.com/goliatone/go-unicms/internal/runtimeconfig"

var (
	ErrDefaultLocaleUnsupported = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrLocaleUnsupported        = runtimeconfig.ErrLocaleUnsupported
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown    = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrHierarchyDepthInvalid    = runtimeconfig.ErrHierarchyDepthInvalid
	ErrPagesCacheTTLInvalid     = runtimeconfig.ErrPagesCacheTTLInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	I18NConfig      = runtimeconfig.I18NConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	PagesConfig     = runtimeconfig.PagesConfig
	HierarchyConfig = runtimeconfig.HierarchyConfig
	MediaConfig     = runtimeconfig.MediaConfig
	HTTPConfig      = runtimeconfig.HTTPConfig
	FixturesConfig  = runtimeconfig.FixturesConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv loads optional .env files and overlays UNICMS_* variables
// on DefaultConfig.
func ConfigFromEnv(dotenv ...string) (Config, error) {
	if err := runtimeconfig.LoadDotEnv(dotenv...); err != nil {
		return Config{}, err
	}
	return runtimeconfig.FromEnv()
}
