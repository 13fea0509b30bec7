package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/fystack/appstate/pkg/common/constant"
	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/common/stringutils"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
)

const EnvPrefix = "APPSTATE_"

var validate = validator.New()

// Defaults returns the configuration used for any field the file and the
// environment leave empty.
func Defaults() Config {
	return Config{
		Environment: constant.EnvDevelopment,
		Store: StoreConfig{
			Directory: filepath.Join("~", ".appstate", "storage"),
			Debounce:  constant.DefaultDebounce,
			Backend: BackendConfig{
				Type: enum.BackendTypeFile,
				Consul: ConsulConfig{
					Scheme:  "http",
					Address: "127.0.0.1:8500",
					Folder:  "appstate",
				},
				Redis: RedisConfig{
					URL:    "localhost:6379",
					Prefix: "appstate",
				},
			},
		},
		Nats: NatsConfig{
			SubjectPrefix: "appstate",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (optional; an empty path skips the file) over Defaults,
// applies APPSTATE_* environment overrides and validates the result. Keys
// present in the file win over defaults even when their value is zero.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Store.Directory = stringutils.ExpandTildePath(cfg.Store.Directory)
	if cfg.Store.Backend.Badger.Directory != "" {
		cfg.Store.Backend.Badger.Directory = stringutils.ExpandTildePath(cfg.Store.Backend.Badger.Directory)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyBackendDefaults fills empty fields of a backend config loaded on its
// own (a migration target) from the default backend settings.
func ApplyBackendDefaults(b *BackendConfig) error {
	if err := mergo.Merge(b, Defaults().Store.Backend); err != nil {
		return fmt.Errorf("apply backend defaults: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	if c.Store.Debounce < 0 {
		return errors.New("store.debounce must not be negative")
	}
	return nil
}
