package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cardgen/internal/config"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags locates templates and logos.
type sourceFlags struct {
	templates  string
	logos      string
	escapeHTML bool
}

// renderFlags drives the browser.
type renderFlags struct {
	backend    string
	timeout    string
	workers    int
	onError    string
	browserBin string
	noSandbox  bool
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common  commonFlags
	sources sourceFlags
	render  renderFlags
	output  string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	sources sourceFlags
	render  renderFlags
	addr    string
}

// workersUnset detects if --workers was explicitly set, since 0 means auto.
const workersUnset = -1

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-row details")
}

// addSourceFlags adds template and logo flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVarP(&f.templates, "templates", "t", "", "directory holding {category}.html templates")
	fs.StringVarP(&f.logos, "logos", "l", "", "directory holding logo images")
	fs.BoolVar(&f.escapeHTML, "escape-html", false, "escape row text before substitution")
}

// addRenderFlags adds browser flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.backend, "backend", "", "render backend: rod, chromedp")
	fs.StringVar(&f.timeout, "timeout", "", "per-card render timeout (e.g. 30s, 1m)")
	fs.IntVarP(&f.workers, "workers", "w", workersUnset, "concurrent renders (0 = auto, 1 = sequential)")
	fs.StringVar(&f.onError, "on-error", "", "render failure policy: abort, skip")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium executable")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers)")
}

func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	f := &generateFlags{}
	fs := newFlagSet("generate")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addRenderFlags(fs, &f.render)
	fs.StringVarP(&f.output, "output", "o", "", "archive path (default: output.archiveName)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.sources)
	addRenderFlags(fs, &f.render)
	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// mergeSourceFlags merges CLI flags into config. CLI values override config values.
func mergeSourceFlags(f *sourceFlags, cfg *config.Config) {
	setString(&cfg.Templates.Dir, f.templates)
	setString(&cfg.Assets.Dir, f.logos)
	if f.escapeHTML {
		cfg.Templates.EscapeHTML = true
	}
}

func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	setString(&cfg.Render.Backend, f.backend)
	setString(&cfg.Render.Timeout, f.timeout)
	setString(&cfg.Render.OnError, f.onError)
	setString(&cfg.Render.BrowserBin, f.browserBin)
	if f.workers != workersUnset {
		cfg.Render.Workers = f.workers
	}
	if f.noSandbox {
		cfg.Render.NoSandbox = true
	}
}

func mergeLogFlags(f *commonFlags, cfg *config.Config) {
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
}
