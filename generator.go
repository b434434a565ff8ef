package cardgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-cardgen/internal/archive"
	"github.com/alnah/go-cardgen/internal/assets"
	"github.com/alnah/go-cardgen/internal/category"
	"github.com/alnah/go-cardgen/internal/pipeline"
	"github.com/alnah/go-cardgen/internal/sheet"
)

// ErrTemplateNotFound is returned by a TemplateSource when a category has
// no template. Rows of that category are skipped.
var ErrTemplateNotFound = assets.ErrTemplateNotFound

// TemplateSource returns the HTML template of a category.
type TemplateSource interface {
	Load(c category.Category) (string, error)
}

// LogoSource turns a row's logo filename into an inline data URI.
// An error means the logo is unavailable; the card renders without it.
type LogoSource interface {
	Lookup(filename string) (string, error)
}

// Compile-time interface checks.
var (
	_ TemplateSource = (*assets.TemplateStore)(nil)
	_ LogoSource     = (*assets.LogoResolver)(nil)
)

// Generator turns spreadsheets into archives of card PDFs.
// A Generator is safe for concurrent use; every Generate call opens its own
// browser session.
type Generator struct {
	cfg       generatorConfig
	engine    Engine
	templates TemplateSource
	logos     LogoSource
	binder    pipeline.Binder
	workers   int
}

// NewGenerator builds a Generator. Without options it reads templates from
// ./templates, logos from ./logos and renders sequentially with go-rod.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.workers < 0 || cfg.workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidWorkers, cfg.workers, MaxWorkers)
	}

	g := &Generator{
		cfg:       cfg,
		engine:    cfg.engine,
		templates: cfg.templates,
		logos:     cfg.logos,
		binder:    pipeline.Binder{EscapeHTML: cfg.escapeHTML},
		workers:   ResolveWorkers(cfg.workers),
	}

	if g.engine == nil {
		engine, err := NewEngine(cfg.backend, cfg.browser)
		if err != nil {
			return nil, err
		}
		g.engine = engine
	}

	if g.templates == nil {
		store, err := assets.NewTemplateStore(cfg.templateDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplateStore, err)
		}
		g.templates = store
	}

	if g.logos == nil {
		resolver, err := assets.NewLogoResolver(cfg.logoDir, assets.WithMaxWidth(cfg.logoMaxWidth))
		if err != nil {
			cfg.logger.Warn("logo directory unavailable, cards render without logos",
				zap.String("dir", cfg.logoDir), zap.Error(err))
			resolver, _ = assets.NewLogoResolver("")
		}
		g.logos = resolver
	}

	return g, nil
}

// Workers returns the effective number of concurrent renders.
func (g *Generator) Workers() int {
	return g.workers
}

// Generate reads a CSV or XLSX sheet from input, renders one PDF per
// recognized row and writes a zip archive of the cards to sink.
//
// The returned Report is never nil; on failure its Stage is StageFailed and
// sink may hold a partial archive. Rows with an unknown type or without a
// template are skipped and counted. A render failure ends the run unless
// the generator was built WithRenderPolicy(SkipOnError).
func (g *Generator) Generate(ctx context.Context, input []byte, sink io.Writer) (report *Report, err error) {
	started := time.Now()
	report = &Report{RunID: uuid.NewString(), Stage: StageInit}
	log := g.cfg.logger.With(zap.String("run_id", report.RunID))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal error: %v", report.Stage, r)
		}
		report.Duration = time.Since(started)
		if err != nil {
			log.Error("generation failed", zap.Stringer("stage", report.Stage), zap.Error(err))
			report.Stage = StageFailed
			g.cfg.recorder.ObserveRun(ResultFailed)
			return
		}
		report.Stage = StageDone
		g.cfg.recorder.ObserveRun(ResultSuccess)
		log.Info("generation finished",
			zap.Int("rows", report.Rows),
			zap.Int("kept", report.Kept),
			zap.Int("skipped", report.Skipped()),
			zap.Duration("duration", report.Duration))
	}()

	report.Stage = StageLoading
	rows, err := sheet.Decode(input)
	if err != nil {
		return report, stageError(StageLoading, fmt.Errorf("%w: %w", ErrMalformedInput, err))
	}
	report.Rows = len(rows)
	log.Info("sheet loaded", zap.Int("rows", len(rows)), zap.Int("workers", g.workers))

	report.Stage = StageIterating
	aw := archive.NewWriter(sink, g.cfg.now())
	if err := g.iterate(ctx, log, rows, aw, report); err != nil {
		return report, stageError(StageIterating, err)
	}

	report.Stage = StagePackaging
	if err := aw.Close(); err != nil {
		return report, stageError(StagePackaging, fmt.Errorf("%w: %w", ErrArchive, err))
	}
	report.Entries = aw.Names()

	return report, nil
}

func stageError(s Stage, err error) error {
	return fmt.Errorf("%s: %w", s, err)
}

// iterate opens the run's browser session and renders every bound row.
func (g *Generator) iterate(ctx context.Context, log *zap.Logger, rows []sheet.Row, aw *archive.Writer, report *Report) error {
	session, err := g.engine.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("closing browser session", zap.Error(cerr))
		}
	}()

	if g.workers > 1 {
		return g.renderParallel(ctx, log, session, rows, aw, report)
	}
	return g.renderSequential(ctx, log, session, rows, aw, report)
}

// renderSequential streams each card into the archive as soon as it renders.
func (g *Generator) renderSequential(ctx context.Context, log *zap.Logger, session Session, rows []sheet.Row, aw *archive.Writer, report *Report) error {
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc, ok, err := g.bind(log, row, report)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		pdf, err := g.render(ctx, session, doc)
		if err != nil {
			if !g.skippable(ctx) {
				return fmt.Errorf("%w: row %d: %w", ErrRender, doc.Row, err)
			}
			g.skipRender(log, doc, err, report)
			continue
		}

		if err := g.keep(log, aw, doc, pdf, report); err != nil {
			return err
		}
	}
	return nil
}

// renderParallel binds every row first, renders up to g.workers cards at a
// time and then adds them to the archive in row order.
func (g *Generator) renderParallel(ctx context.Context, log *zap.Logger, session Session, rows []sheet.Row, aw *archive.Writer, report *Report) error {
	docs := make([]BoundDocument, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, ok, err := g.bind(log, row, report)
		if err != nil {
			return err
		}
		if ok {
			docs = append(docs, doc)
		}
	}

	pdfs := make([][]byte, len(docs))
	failures := make([]error, len(docs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, doc := range docs {
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: row %d: internal error: %v", ErrRender, doc.Row, r)
				}
			}()

			pdf, err := g.render(egCtx, session, doc)
			if err != nil {
				if !g.skippable(egCtx) {
					return fmt.Errorf("%w: row %d: %w", ErrRender, doc.Row, err)
				}
				failures[i] = err
				return nil
			}
			pdfs[i] = pdf
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, doc := range docs {
		if failures[i] != nil {
			g.skipRender(log, doc, failures[i], report)
			continue
		}
		if err := g.keep(log, aw, doc, pdfs[i], report); err != nil {
			return err
		}
	}
	return nil
}

// bind classifies a row and substitutes it into its category template.
// ok is false when the row is skipped.
func (g *Generator) bind(log *zap.Logger, row sheet.Row, report *Report) (doc BoundDocument, ok bool, err error) {
	rowLog := log.With(zap.Int("row", row.Number()))

	raw := row.Get(sheet.FieldType)
	c, known := category.Resolve(raw)
	if !known {
		report.Unrecognized++
		g.cfg.recorder.ObserveRow(OutcomeUnrecognized)
		rowLog.Debug("row skipped", zap.String("reason", "unrecognized type"), zap.String("type", raw))
		return BoundDocument{}, false, nil
	}

	tmpl, err := g.templates.Load(c)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			report.MissingTemplate++
			g.cfg.recorder.ObserveRow(OutcomeMissingTemplate)
			rowLog.Debug("row skipped", zap.String("reason", "no template"), zap.Stringer("category", c))
			return BoundDocument{}, false, nil
		}
		return BoundDocument{}, false, fmt.Errorf("%w: %w", ErrTemplateStore, err)
	}

	logoName := row.Get(sheet.FieldLogo)
	logo, lerr := g.logos.Lookup(logoName)
	if lerr != nil {
		rowLog.Debug("logo not inlined", zap.String("logo", logoName), zap.Error(lerr))
	}

	return BoundDocument{
		Row:      row.Number(),
		Category: c,
		HTML:     g.binder.Bind(tmpl, row, logo),
	}, true, nil
}

func (g *Generator) render(ctx context.Context, session Session, doc BoundDocument) ([]byte, error) {
	renderCtx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	started := time.Now()
	pdf, err := session.Render(renderCtx, doc)
	g.cfg.recorder.ObserveRender(time.Since(started))
	return pdf, err
}

// skippable reports whether a render failure may be skipped. A cancelled
// run always aborts.
func (g *Generator) skippable(ctx context.Context) bool {
	return g.cfg.policy == SkipOnError && ctx.Err() == nil
}

func (g *Generator) skipRender(log *zap.Logger, doc BoundDocument, err error, report *Report) {
	report.RenderFailed++
	g.cfg.recorder.ObserveRow(OutcomeRenderFailed)
	log.Warn("row skipped",
		zap.Int("row", doc.Row),
		zap.Stringer("category", doc.Category),
		zap.String("reason", "render failed"),
		zap.Error(err))
}

// keep appends a rendered card to the archive under the next output index.
func (g *Generator) keep(log *zap.Logger, aw *archive.Writer, doc BoundDocument, pdf []byte, report *Report) error {
	index := report.Kept + 1
	name := archive.EntryName(index)
	if err := aw.Add(name, pdf); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	report.Kept = index
	g.cfg.recorder.ObserveRow(OutcomeKept)
	log.Debug("card rendered",
		zap.Int("row", doc.Row),
		zap.Stringer("category", doc.Category),
		zap.Int("index", index),
		zap.String("entry", name))
	return nil
}
