package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	cardgen "github.com/alnah/go-cardgen"
	"github.com/alnah/go-cardgen/internal/assets"
	"github.com/alnah/go-cardgen/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input sheet specified")
	ErrReadInput    = errors.New("failed to read input sheet")
	ErrWriteArchive = errors.New("failed to write archive")
)

// archivePermissions is rw-r--r--: archives are meant to be shared.
const archivePermissions = 0o644

// runGenerate renders one sheet into an archive on disk.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input sheet, got %d", ErrUsage, len(positional))
	}

	cfg, err := loadSettings(&flags.common)
	if err != nil {
		return err
	}
	mergeSourceFlags(&flags.sources, cfg)
	mergeRenderFlags(&flags.render, cfg)
	mergeLogFlags(&flags.common, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	input, err := os.ReadFile(positional[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	outPath := flags.output
	if outPath == "" {
		outPath = cfg.Output.ArchiveName
	}

	opts, err := generatorOptions(cfg, logger, env)
	if err != nil {
		return err
	}
	gen, err := cardgen.NewGenerator(opts...)
	if err != nil {
		return err
	}
	warnMissingTemplates(logger, cfg.Templates.Dir)

	report, err := writeArchive(ctx, gen, input, outPath)
	if err != nil {
		return withHint(err)
	}

	if !flags.common.quiet {
		printSummary(env.Stderr, report, outPath, flags.common.verbose)
	}
	return nil
}

// writeArchive generates into a temporary file next to outPath and renames
// it on success, so a failed run never leaves a partial archive behind.
func writeArchive(ctx context.Context, gen *cardgen.Generator, input []byte, outPath string) (*cardgen.Report, error) {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".cardgen-*.zip")
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrWriteArchive, err, hints.ForOutputDirectory())
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	report, err := gen.Generate(ctx, input, tmp)
	if err != nil {
		return report, err
	}

	if err := tmp.Close(); err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	if err := os.Chmod(tmp.Name(), archivePermissions); err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return report, fmt.Errorf("%w: %v", ErrWriteArchive, err)
	}
	committed = true
	return report, nil
}

// warnMissingTemplates logs the categories whose rows will be skipped.
func warnMissingTemplates(logger *zap.Logger, dir string) {
	store, err := assets.NewTemplateStore(dir)
	if err != nil {
		return
	}
	missing := store.Missing()
	if len(missing) == 0 {
		return
	}
	names := make([]string, len(missing))
	for i, c := range missing {
		names[i] = c.String()
	}
	logger.Warn("templates missing"+hints.ForTemplates(store.Dir(), names), zap.Strings("categories", names))
}

// withHint appends an actionable hint for well-known failures.
func withHint(err error) error {
	switch {
	case errors.Is(err, cardgen.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, cardgen.ErrMalformedInput):
		return fmt.Errorf("%w%s", err, hints.ForMalformedInput())
	default:
		return err
	}
}

func printSummary(w io.Writer, r *cardgen.Report, outPath string, verbose bool) {
	fmt.Fprintf(w, "Created %s: %d card(s) from %d row(s)", outPath, r.Kept, r.Rows)
	if skipped := r.Skipped(); skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", skipped)
	}
	fmt.Fprintf(w, " (%v)\n", r.Duration.Round(time.Millisecond))

	if verbose {
		fmt.Fprintf(w, "  unrecognized type: %d\n", r.Unrecognized)
		fmt.Fprintf(w, "  missing template:  %d\n", r.MissingTemplate)
		fmt.Fprintf(w, "  render failed:     %d\n", r.RenderFailed)
		fmt.Fprintf(w, "  run id:            %s\n", r.RunID)
	}
}
