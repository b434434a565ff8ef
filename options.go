package cardgen

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Generator.
type Option func(*generatorConfig)

// Defaults used when no option overrides them.
const (
	DefaultTemplateDir = "templates"
	DefaultLogoDir     = "logos"
	DefaultTimeout     = 30 * time.Second
)

type generatorConfig struct {
	templateDir  string
	templates    TemplateSource
	logoDir      string
	logos        LogoSource
	logoMaxWidth int
	escapeHTML   bool
	backend      string
	browser      BrowserOptions
	engine       Engine
	timeout      time.Duration
	workers      int
	policy       RenderPolicy
	logger       *zap.Logger
	recorder     Recorder
	now          func() time.Time
}

func defaultConfig() generatorConfig {
	return generatorConfig{
		templateDir: DefaultTemplateDir,
		logoDir:     DefaultLogoDir,
		backend:     BackendRod,
		timeout:     DefaultTimeout,
		workers:     1,
		policy:      AbortOnError,
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
		now:         time.Now,
	}
}

// WithTemplateDir reads category templates from dir/{category}.html.
func WithTemplateDir(dir string) Option {
	return func(c *generatorConfig) {
		c.templateDir = dir
	}
}

// WithTemplates replaces the filesystem template store.
// Load must return an error matching ErrTemplateNotFound for absent templates.
func WithTemplates(src TemplateSource) Option {
	return func(c *generatorConfig) {
		c.templates = src
	}
}

// WithLogoDir resolves row logo names against dir.
// A missing dir is tolerated: every logo then resolves to "".
func WithLogoDir(dir string) Option {
	return func(c *generatorConfig) {
		c.logoDir = dir
	}
}

// WithLogos replaces the filesystem logo resolver.
func WithLogos(src LogoSource) Option {
	return func(c *generatorConfig) {
		c.logos = src
	}
}

// WithLogoMaxWidth downscales raster logos wider than px before inlining.
func WithLogoMaxWidth(px int) Option {
	return func(c *generatorConfig) {
		c.logoMaxWidth = px
	}
}

// WithEscapeHTML escapes row text before it is substituted into templates.
func WithEscapeHTML(enabled bool) Option {
	return func(c *generatorConfig) {
		c.escapeHTML = enabled
	}
}

// WithBackend selects the render backend: "rod" (default) or "chromedp".
// Ignored when WithEngine is set.
func WithBackend(name string) Option {
	return func(c *generatorConfig) {
		c.backend = name
	}
}

// WithBrowser configures how the backend launches Chrome.
func WithBrowser(opts BrowserOptions) Option {
	return func(c *generatorConfig) {
		c.browser = opts
	}
}

// WithEngine replaces the render engine (used by tests and embedders).
func WithEngine(e Engine) Option {
	return func(c *generatorConfig) {
		c.engine = e
	}
}

// WithTimeout bounds each card render.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cardgen: WithTimeout duration must be positive")
	}
	return func(c *generatorConfig) {
		c.timeout = d
	}
}

// WithWorkers sets how many cards render concurrently.
// 1 renders sequentially, streaming each card into the archive; 0 sizes
// from GOMAXPROCS (see ResolveWorkers). Negative values or values above
// MaxWorkers make NewGenerator fail with ErrInvalidWorkers.
func WithWorkers(n int) Option {
	return func(c *generatorConfig) {
		c.workers = n
	}
}

// WithRenderPolicy chooses between aborting and skipping on render failure.
func WithRenderPolicy(p RenderPolicy) Option {
	return func(c *generatorConfig) {
		c.policy = p
	}
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *generatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder reports row outcomes and timings, e.g. to Prometheus.
func WithRecorder(r Recorder) Option {
	return func(c *generatorConfig) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithClock sets the time source stamped on archive entries.
func WithClock(now func() time.Time) Option {
	return func(c *generatorConfig) {
		if now != nil {
			c.now = now
		}
	}
}
