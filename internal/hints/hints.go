// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-cardgen/internal/fileutil"
)

// Environment variables the hints refer to.
const (
	EnvNoSandbox  = "CARDGEN_NO_SANDBOX"
	EnvBrowserBin = "CARDGEN_BROWSER_BIN"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv(EnvNoSandbox) != "1" {
		hints = append(hints, "set "+EnvNoSandbox+"=1 for Docker/CI")
	}

	if os.Getenv(EnvBrowserBin) == "" {
		hints = append(hints, "set "+EnvBrowserBin+" to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the per-card render timeout.
func ForTimeout() string {
	return format("for heavy templates, raise render.timeout or use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-cardgen/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-cardgen") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output file creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMalformedInput returns hints for sheets that cannot be decoded.
func ForMalformedInput() string {
	return format("upload an .xlsx workbook or a CSV (';' or ',') whose first row holds the column names")
}

// ForTemplates returns hints when category templates are missing.
func ForTemplates(dir string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	files := make([]string, len(missing))
	for i, m := range missing {
		files[i] = m + ".html"
	}
	return format("rows of these categories will be skipped; add " + strings.Join(files, ", ") + " to " + dir)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
