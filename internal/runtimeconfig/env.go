package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "UNICMS_"

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("unicms config: load %s: %w", path, err)
		}
	}
	return nil
}

// FromEnv overlays UNICMS_* variables on DefaultConfig and validates the
// result.
func FromEnv() (Config, error) {
	return Overlay(DefaultConfig(), nil)
}

// Overlay applies environment overrides to base. A nil environment reads
// the process environment.
func Overlay(base Config, environment map[string]string) (Config, error) {
	cfg := base
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("unicms config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
