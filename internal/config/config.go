package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cardgen/internal/fileutil"
	"github.com/alnah/go-cardgen/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxArchiveNameLength = 255
	MaxAddrLength        = 255
)

// Bounds for numeric settings.
const (
	MaxWorkers     = 32
	MaxBodyLimitMB = 1024
	MaxLogoWidth   = 8192
)

// Enumerated values.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"

	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"

	FormatConsole = "console"
	FormatJSON    = "json"
)

// Defaults.
const (
	DefaultTemplatesDir = "templates"
	DefaultAssetsDir    = "logos"
	DefaultTimeout      = 30 * time.Second
	DefaultArchiveName  = "cards_jornal.zip"
	DefaultAddr         = ":8080"
	DefaultBodyLimitMB  = 32
	DefaultLogLevel     = "info"
)

// configDirName is the directory under os.UserConfigDir searched by name.
const configDirName = "go-cardgen"

// Config holds all settings of a card generation deployment.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Assets    AssetsConfig    `yaml:"assets"`
	Render    RenderConfig    `yaml:"render"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// TemplatesConfig locates the per-category HTML templates.
type TemplatesConfig struct {
	Dir        string `yaml:"dir"`        // Holds {category}.html
	EscapeHTML bool   `yaml:"escapeHTML"` // Escape row text before substitution
}

// AssetsConfig locates logo images.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	MaxWidth int    `yaml:"maxWidth"` // 0 = inline logos unchanged
}

// RenderConfig drives the headless browser.
type RenderConfig struct {
	Backend    string `yaml:"backend"`    // "rod" (default) or "chromedp"
	Timeout    string `yaml:"timeout"`    // Per-card duration, e.g. "30s"
	Workers    int    `yaml:"workers"`    // 0 = auto, 1 = sequential
	OnError    string `yaml:"onError"`    // "abort" (default) or "skip"
	BrowserBin string `yaml:"browserBin"` // Empty = auto-detect or download
	NoSandbox  bool   `yaml:"noSandbox"`  // Required in most containers
}

// OutputConfig names the produced archive.
type OutputConfig struct {
	ArchiveName string `yaml:"archiveName"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	BodyLimitMB int    `yaml:"bodyLimitMB"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// TimeoutDuration parses Render.Timeout, falling back to DefaultTimeout
// when it is empty.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout: must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks enumerations, bounds and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., env or flag overrides).
func (c *Config) Validate() error {
	if err := validateFieldLength("templates.dir", c.Templates.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.dir", c.Assets.Dir, MaxPathLength); err != nil {
		return err
	}
	if c.Assets.MaxWidth < 0 || c.Assets.MaxWidth > MaxLogoWidth {
		return fmt.Errorf("%w: assets.maxWidth: must be between 0 and %d, got %d", ErrInvalidValue, MaxLogoWidth, c.Assets.MaxWidth)
	}

	switch strings.ToLower(c.Render.Backend) {
	case "", BackendRod, BackendChromedp:
	default:
		return fmt.Errorf("%w: render.backend: %q (must be rod or chromedp)", ErrInvalidValue, c.Render.Backend)
	}
	if _, err := c.Render.TimeoutDuration(); err != nil {
		return err
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	switch strings.ToLower(c.Render.OnError) {
	case "", OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("%w: render.onError: %q (must be abort or skip)", ErrInvalidValue, c.Render.OnError)
	}
	if err := validateFieldLength("render.browserBin", c.Render.BrowserBin, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.archiveName", c.Output.ArchiveName, MaxArchiveNameLength); err != nil {
		return err
	}
	if c.Output.ArchiveName != "" {
		if err := fileutil.ValidateBaseName(c.Output.ArchiveName); err != nil {
			return fmt.Errorf("%w: output.archiveName: %v", ErrInvalidValue, err)
		}
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.BodyLimitMB < 0 || c.Server.BodyLimitMB > MaxBodyLimitMB {
		return fmt.Errorf("%w: server.bodyLimitMB: must be between 0 and %d, got %d", ErrInvalidValue, MaxBodyLimitMB, c.Server.BodyLimitMB)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level: %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("%w: log.format: %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{Dir: DefaultTemplatesDir},
		Assets:    AssetsConfig{Dir: DefaultAssetsDir},
		Render: RenderConfig{
			Backend: BackendRod,
			Timeout: DefaultTimeout.String(),
			Workers: 1,
			OnError: OnErrorAbort,
		},
		Output: OutputConfig{ArchiveName: DefaultArchiveName},
		Server: ServerConfig{Addr: DefaultAddr, BodyLimitMB: DefaultBodyLimitMB},
		Log:    LogConfig{Level: DefaultLogLevel, Format: FormatConsole},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for nameOrPath, in order.
// A path is tried as is; a bare name is tried with .yaml and .yml in the
// current directory, then under ~/.config/go-cardgen/.
func SearchPaths(nameOrPath string) []string {
	if fileutil.IsFilePath(nameOrPath) {
		return []string{nameOrPath}
	}

	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, nameOrPath+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, nameOrPath+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
