package platform

import (
	"fmt"
	"os"

	"github.com/aretw0/notehub/pkg/adapters/rest"
	"github.com/aretw0/notehub/pkg/core"
)

// ResolveConfig computes the effective configuration for opts: defaults,
// config file, environment, then explicit options.
func ResolveConfig(opts ...Option) (Config, error) {
	return resolve(apply(opts), true)
}

func resolve(o *options, requireToken bool) (Config, error) {
	cfg := o.config
	if !o.configSet {
		workDir := o.workDir
		if workDir == "" && o.configPath == "" {
			wd, err := os.Getwd()
			if err != nil {
				return cfg, fmt.Errorf("get working directory: %w", err)
			}
			workDir = wd
		}

		var err error
		if cfg, err = ReadConfig(o.configPath, workDir, o.getenv); err != nil {
			return cfg, err
		}
	}

	for _, fn := range o.overrides {
		fn(&cfg)
	}

	if !requireToken {
		if cfg.PageSize < 1 {
			return cfg, fmt.Errorf("page_size must be positive, got %d: %w", cfg.PageSize, core.ErrConfig)
		}
		return cfg, nil
	}
	return cfg, cfg.Validate()
}

// Init builds the repository for opts: the injected one, or the REST
// adapter configured from the resolved Config.
func Init(opts ...Option) (core.Repository, Config, error) {
	o := apply(opts)
	return initRepository(o)
}

func initRepository(o *options) (core.Repository, Config, error) {
	// 1. Check for injected repository
	if o.repository != nil {
		cfg, err := resolve(o, false)
		return o.repository, cfg, err
	}

	// 2. REST adapter
	cfg, err := resolve(o, true)
	if err != nil {
		return nil, cfg, err
	}

	rc := cfg.RestConfig()
	rc.HTTPClient = o.httpClient
	rc.Logger = o.logger.With("component", "rest")
	repo, err := rest.NewRepository(rc)
	if err != nil {
		return nil, cfg, err
	}

	o.logger.Debug("client configured",
		"base_url", cfg.BaseURL,
		"config", cfg.Path,
		"page_size", cfg.PageSize,
	)
	return repo, cfg, nil
}
