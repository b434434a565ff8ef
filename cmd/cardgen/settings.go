package main

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	cardgen "github.com/alnah/go-cardgen"
	"github.com/alnah/go-cardgen/internal/config"
	"github.com/alnah/go-cardgen/internal/hints"
)

// loadSettings builds the effective configuration from the config file
// (--config, then CARDGEN_CONFIG) and the environment. Flags are merged by
// the caller, which must then call Validate.
func loadSettings(common *commonFlags) (*config.Config, error) {
	env := loadEnvConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := applyEnvConfig(env, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generatorOptions translates a validated config into Generator options.
func generatorOptions(cfg *config.Config, logger *zap.Logger, env *Environment) ([]cardgen.Option, error) {
	timeout, err := cfg.Render.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	engine, err := env.NewEngine(cfg.Render.Backend, cardgen.BrowserOptions{
		Bin:       cfg.Render.BrowserBin,
		NoSandbox: cfg.Render.NoSandbox,
	})
	if err != nil {
		return nil, err
	}

	return []cardgen.Option{
		cardgen.WithEngine(engine),
		cardgen.WithTemplateDir(cfg.Templates.Dir),
		cardgen.WithEscapeHTML(cfg.Templates.EscapeHTML),
		cardgen.WithLogoDir(cfg.Assets.Dir),
		cardgen.WithLogoMaxWidth(cfg.Assets.MaxWidth),
		cardgen.WithTimeout(timeout),
		cardgen.WithWorkers(cfg.Render.Workers),
		cardgen.WithRenderPolicy(cardgen.ParseRenderPolicy(strings.ToLower(cfg.Render.OnError))),
		cardgen.WithLogger(logger),
		cardgen.WithClock(env.Now),
	}, nil
}
