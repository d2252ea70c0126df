package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notehub/pkg/adapters/rest"
	"github.com/aretw0/notehub/pkg/app"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/query"
)

const (
	EnvToken   = "NOTEHUB_TOKEN"
	EnvBaseURL = "NOTEHUB_BASE_URL"
)

// BreakerConfig is the YAML form of rest.BreakerConfig.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// Config is the resolved client configuration.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	Token       string        `yaml:"-"`
	PageSize    int           `yaml:"page_size"`
	Debounce    time.Duration `yaml:"debounce"`
	StaleTime   time.Duration `yaml:"stale_time"`
	Timeout     time.Duration `yaml:"timeout"`
	SearchParam string        `yaml:"search_param"`
	Breaker     BreakerConfig `yaml:"breaker"`

	// Path is the file the config was loaded from, if any.
	Path string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults. The token is never defaulted.
func DefaultConfig() Config {
	b := rest.DefaultBreakerConfig()
	return Config{
		BaseURL:     rest.DefaultBaseURL,
		PageSize:    app.DefaultPageSize,
		Debounce:    app.DefaultDebounce,
		StaleTime:   query.DefaultStaleTime,
		Timeout:     rest.DefaultTimeout,
		SearchParam: rest.DefaultSearchParam,
		Breaker: BreakerConfig{
			MaxFailures: b.MaxFailures,
			OpenTimeout: b.OpenTimeout,
		},
	}
}

// LoadConfigFile merges the YAML file at path over base.
// Keys absent from the file keep their base value.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, errors.Join(core.ErrConfig, err))
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, errors.Join(core.ErrConfig, err))
	}
	cfg.Path = path
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	return c
}

// Validate checks the values a client cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%s is not set: %w", EnvToken, core.ErrConfig)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d: %w", c.PageSize, core.ErrConfig)
	}
	if c.Debounce < 0 || c.StaleTime < 0 || c.Timeout < 0 {
		return fmt.Errorf("durations must not be negative: %w", core.ErrConfig)
	}
	return nil
}

// LoadConfig resolves the configuration with ReadConfig and validates it.
// A missing file is not an error; a missing token is.
func LoadConfig(explicitPath, startDir string, getenv func(string) string) (Config, error) {
	cfg, err := ReadConfig(explicitPath, startDir, getenv)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ReadConfig layers defaults, the YAML file (explicitPath, or the first
// notehub.yaml found walking up from startDir) and the environment.
func ReadConfig(explicitPath, startDir string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	path := explicitPath
	if path == "" && startDir != "" {
		found, err := FindConfig(startDir)
		if err != nil && !errors.Is(err, ErrConfigNotFound) {
			return cfg, err
		}
		path = found
	}
	if path != "" {
		var err error
		if cfg, err = LoadConfigFile(path, cfg); err != nil {
			return cfg, err
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	return cfg.ApplyEnv(getenv), nil
}

// RestConfig maps c onto the REST adapter configuration.
func (c Config) RestConfig() rest.Config {
	return rest.Config{
		BaseURL:     c.BaseURL,
		Token:       c.Token,
		Timeout:     c.Timeout,
		SearchParam: c.SearchParam,
		Breaker: rest.BreakerConfig{
			MaxFailures: c.Breaker.MaxFailures,
			OpenTimeout: c.Breaker.OpenTimeout,
		},
	}
}
