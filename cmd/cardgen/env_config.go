package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-cardgen/internal/config"
	"github.com/alnah/go-cardgen/internal/hints"
)

const envPrefix = "CARDGEN_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // CARDGEN_CONFIG: config file name or path
	TemplatesDir string // CARDGEN_TEMPLATES_DIR
	AssetsDir    string // CARDGEN_ASSETS_DIR
	Backend      string // CARDGEN_BACKEND: rod or chromedp
	Timeout      string // CARDGEN_TIMEOUT: per-card duration
	Workers      string // CARDGEN_WORKERS
	OnError      string // CARDGEN_ON_ERROR: abort or skip
	BrowserBin   string // CARDGEN_BROWSER_BIN
	NoSandbox    string // CARDGEN_NO_SANDBOX: "1" or "true"
	ArchiveName  string // CARDGEN_ARCHIVE_NAME
	Addr         string // CARDGEN_ADDR
	LogLevel     string // CARDGEN_LOG_LEVEL
	LogFormat    string // CARDGEN_LOG_FORMAT
}

// knownEnvVars lists valid CARDGEN_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CARDGEN_CONFIG":        true,
	"CARDGEN_TEMPLATES_DIR": true,
	"CARDGEN_ASSETS_DIR":    true,
	"CARDGEN_BACKEND":       true,
	"CARDGEN_TIMEOUT":       true,
	"CARDGEN_WORKERS":       true,
	"CARDGEN_ON_ERROR":      true,
	hints.EnvBrowserBin:     true,
	hints.EnvNoSandbox:      true,
	"CARDGEN_ARCHIVE_NAME":  true,
	"CARDGEN_ADDR":          true,
	"CARDGEN_LOG_LEVEL":     true,
	"CARDGEN_LOG_FORMAT":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath:   os.Getenv("CARDGEN_CONFIG"),
		TemplatesDir: os.Getenv("CARDGEN_TEMPLATES_DIR"),
		AssetsDir:    os.Getenv("CARDGEN_ASSETS_DIR"),
		Backend:      os.Getenv("CARDGEN_BACKEND"),
		Timeout:      os.Getenv("CARDGEN_TIMEOUT"),
		Workers:      os.Getenv("CARDGEN_WORKERS"),
		OnError:      os.Getenv("CARDGEN_ON_ERROR"),
		BrowserBin:   os.Getenv(hints.EnvBrowserBin),
		NoSandbox:    os.Getenv(hints.EnvNoSandbox),
		ArchiveName:  os.Getenv("CARDGEN_ARCHIVE_NAME"),
		Addr:         os.Getenv("CARDGEN_ADDR"),
		LogLevel:     os.Getenv("CARDGEN_LOG_LEVEL"),
		LogFormat:    os.Getenv("CARDGEN_LOG_FORMAT"),
	}
}

// warnUnknownEnvVars prints warnings for unrecognized CARDGEN_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with set environment variables.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
// Values are checked afterwards by Config.Validate.
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	setString(&cfg.Templates.Dir, env.TemplatesDir)
	setString(&cfg.Assets.Dir, env.AssetsDir)
	setString(&cfg.Render.Backend, env.Backend)
	setString(&cfg.Render.Timeout, env.Timeout)
	setString(&cfg.Render.OnError, env.OnError)
	setString(&cfg.Render.BrowserBin, env.BrowserBin)
	setString(&cfg.Output.ArchiveName, env.ArchiveName)
	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)

	if env.Workers != "" {
		n, err := strconv.Atoi(env.Workers)
		if err != nil {
			return fmt.Errorf("%w: CARDGEN_WORKERS: %q is not an integer", config.ErrInvalidValue, env.Workers)
		}
		cfg.Render.Workers = n
	}

	if env.NoSandbox != "" {
		on, err := strconv.ParseBool(env.NoSandbox)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", config.ErrInvalidValue, hints.EnvNoSandbox, env.NoSandbox)
		}
		cfg.Render.NoSandbox = on
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
