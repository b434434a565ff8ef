package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Templates.Dir != DefaultTemplatesDir {
		t.Errorf("Templates.Dir = %q, want %q", cfg.Templates.Dir, DefaultTemplatesDir)
	}
	if cfg.Assets.Dir != DefaultAssetsDir {
		t.Errorf("Assets.Dir = %q, want %q", cfg.Assets.Dir, DefaultAssetsDir)
	}
	if cfg.Render.Workers != 1 {
		t.Errorf("Render.Workers = %d, want 1", cfg.Render.Workers)
	}
	if cfg.Render.OnError != OnErrorAbort {
		t.Errorf("Render.OnError = %q, want %q", cfg.Render.OnError, OnErrorAbort)
	}
	if cfg.Output.ArchiveName != "cards_jornal.zip" {
		t.Errorf("Output.ArchiveName = %q, want cards_jornal.zip", cfg.Output.ArchiveName)
	}
	d, err := cfg.Render.TimeoutDuration()
	if err != nil || d != 30*time.Second {
		t.Errorf("TimeoutDuration() = (%v, %v), want (30s, nil)", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value over limit returns error", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should mention field name", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "chromedp backend", mutate: func(c *Config) { c.Render.Backend = "chromedp" }},
		{name: "backend is case-insensitive", mutate: func(c *Config) { c.Render.Backend = "ROD" }},
		{name: "unknown backend", mutate: func(c *Config) { c.Render.Backend = "wkhtmltopdf" }, wantErr: ErrInvalidValue},
		{name: "skip policy", mutate: func(c *Config) { c.Render.OnError = "skip" }},
		{name: "unknown policy", mutate: func(c *Config) { c.Render.OnError = "retry" }, wantErr: ErrInvalidValue},
		{name: "bad timeout", mutate: func(c *Config) { c.Render.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "zero timeout", mutate: func(c *Config) { c.Render.Timeout = "0s" }, wantErr: ErrInvalidValue},
		{name: "empty timeout uses default", mutate: func(c *Config) { c.Render.Timeout = "" }},
		{name: "auto workers", mutate: func(c *Config) { c.Render.Workers = 0 }},
		{name: "negative workers", mutate: func(c *Config) { c.Render.Workers = -1 }, wantErr: ErrInvalidValue},
		{name: "too many workers", mutate: func(c *Config) { c.Render.Workers = MaxWorkers + 1 }, wantErr: ErrInvalidValue},
		{name: "negative logo width", mutate: func(c *Config) { c.Assets.MaxWidth = -5 }, wantErr: ErrInvalidValue},
		{name: "archive name with path", mutate: func(c *Config) { c.Output.ArchiveName = "../out.zip" }, wantErr: ErrInvalidValue},
		{name: "archive name too long", mutate: func(c *Config) { c.Output.ArchiveName = strings.Repeat("a", MaxArchiveNameLength+1) }, wantErr: ErrFieldTooLong},
		{name: "negative body limit", mutate: func(c *Config) { c.Server.BodyLimitMB = -1 }, wantErr: ErrInvalidValue},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "json log format", mutate: func(c *Config) { c.Log.Format = "json" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
		{name: "templates dir too long", mutate: func(c *Config) { c.Templates.Dir = strings.Repeat("d", MaxPathLength+1) }, wantErr: ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "cards.yaml", `templates:
  dir: "/srv/cards/templates"
  escapeHTML: true
render:
  backend: chromedp
  workers: 4
  onError: skip
  timeout: 45s
`)

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		want := DefaultConfig()
		want.Templates = TemplatesConfig{Dir: "/srv/cards/templates", EscapeHTML: true}
		want.Render.Backend = "chromedp"
		want.Render.Workers = 4
		want.Render.OnError = "skip"
		want.Render.Timeout = "45s"
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "cards.yaml", "output:\n  archiveName: semana.zip\n")

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.ArchiveName != "semana.zip" {
			t.Errorf("Output.ArchiveName = %q, want semana.zip", cfg.Output.ArchiveName)
		}
		if cfg.Server.Addr != DefaultAddr {
			t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
		}
		if cfg.Templates.Dir != DefaultTemplatesDir {
			t.Errorf("Templates.Dir = %q, want %q", cfg.Templates.Dir, DefaultTemplatesDir)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown key returns ErrConfigParse", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "cards.yaml", "render:\n  engine: rod\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		configPath := writeConfig(t, t.TempDir(), "cards.yaml", "render:\n  onError: ignore\n")

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("config name resolves in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "loja.yml", "server:\n  addr: \":9090\"\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("loja")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9090" {
			t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
		}
	})

	t.Run("missing config name lists tried paths", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("ausente")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "ausente.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff([]string{"conf/cards.yaml"}, SearchPaths("conf/cards.yaml")); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	got := SearchPaths("loja")
	if len(got) < 2 || got[0] != "loja.yaml" || got[1] != "loja.yml" {
		t.Fatalf("SearchPaths(loja) = %v, want cwd candidates first", got)
	}
	for _, p := range got[2:] {
		if !strings.Contains(p, filepath.Join(configDirName, "loja.")) {
			t.Errorf("user config candidate %q should live under %s", p, configDirName)
		}
	}
}
