package main

import (
	"context"

	"go.uber.org/zap"

	cardgen "github.com/alnah/go-cardgen"
	"github.com/alnah/go-cardgen/internal/metrics"
	"github.com/alnah/go-cardgen/internal/server"
)

// runServe exposes generation over HTTP until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common)
	if err != nil {
		return err
	}
	mergeSourceFlags(&flags.sources, cfg)
	mergeRenderFlags(&flags.render, cfg)
	mergeLogFlags(&flags.common, cfg)
	setString(&cfg.Server.Addr, flags.addr)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := generatorOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	recorder := metrics.NewRecorder()
	gen, err := cardgen.NewGenerator(append(opts, cardgen.WithRecorder(recorder))...)
	if err != nil {
		return err
	}
	warnMissingTemplates(logger, cfg.Templates.Dir)

	srv := server.New(gen, server.Config{
		Addr:        cfg.Server.Addr,
		ArchiveName: cfg.Output.ArchiveName,
		BodyLimit:   cfg.Server.BodyLimitMB << 20,
		Metrics:     recorder.Handler(),
	}, logger.Named("http"))

	logger.Info("serving card generation",
		zap.String("addr", cfg.Server.Addr),
		zap.String("backend", cfg.Render.Backend),
		zap.Int("workers", gen.Workers()))
	return srv.Run(ctx)
}
