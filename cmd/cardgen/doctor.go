package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-cardgen/internal/assets"
	"github.com/alnah/go-cardgen/internal/config"
	"github.com/alnah/go-cardgen/internal/fileutil"
	"github.com/alnah/go-cardgen/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionTimeout bounds `chrome --version`.
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Chrome    chromeInfo    `json:"chrome"`
	Templates templatesInfo `json:"templates"`
	Logos     logosInfo     `json:"logos"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// templatesInfo lists which category templates are present.
type templatesInfo struct {
	Dir     string   `json:"dir"`
	Found   bool     `json:"found"`
	Missing []string `json:"missing,omitempty"`
}

type logosInfo struct {
	Dir   string `json:"dir"`
	Found bool   `json:"found"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
	Backend   string `json:"backend"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(args []string, env *Environment) int {
	var common commonFlags
	var jsonOutput bool
	fs := newFlagSet("doctor")
	addCommonFlags(fs, &common)
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	cfg, err := loadSettings(&common)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Backend: cfg.Render.Backend,
		},
	}

	checkChrome(result, cfg)
	checkTemplates(result, cfg.Templates.Dir)
	checkLogos(result, cfg.Assets.Dir)
	checkEnvironment(result, cfg)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult, cfg *config.Config) {
	chromePath := cfg.Render.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set "+hints.EnvBrowserBin)
			return
		}
	}

	if !fileutil.FileExists(chromePath) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = !cfg.Render.NoSandbox

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, chromePath, "--version").Output() // #nosec G204 -- configured browser path
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkTemplates verifies the template directory and lists absent categories.
func checkTemplates(result *doctorResult, dir string) {
	result.Templates.Dir = dir

	store, err := assets.NewTemplateStore(dir)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Template directory not usable: %s", dir))
		return
	}
	result.Templates.Found = true
	result.Templates.Dir = store.Dir()

	for _, c := range store.Missing() {
		result.Templates.Missing = append(result.Templates.Missing, c.String())
	}
	if len(result.Templates.Missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No template for: %s (rows of these types are skipped)", strings.Join(result.Templates.Missing, ", ")))
	}
}

func checkLogos(result *doctorResult, dir string) {
	result.Logos.Dir = dir
	if fileutil.DirExists(dir) {
		result.Logos.Found = true
		return
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("Logo directory not found: %s (cards render without logos)", dir))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config) {
	result.Env.Container = hints.IsInContainer() ||
		os.Getenv("container") != "" ||
		os.Getenv("KUBERNETES_SERVICE_HOST") != ""

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !cfg.Render.NoSandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but sandbox is enabled. Set "+hints.EnvNoSandbox+"=1 or render.noSandbox: true")
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "cardgen-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "cardgen doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Templates")
	if r.Templates.Found {
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Templates.Dir)
		for _, m := range r.Templates.Missing {
			fmt.Fprintf(w, "  [WARN] Missing: %s.html\n", m)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] Directory not usable: %s\n", r.Templates.Dir)
	}
	if r.Logos.Found {
		fmt.Fprintf(w, "  [OK] Logos: %s\n", r.Logos.Dir)
	} else {
		fmt.Fprintf(w, "  [WARN] Logos: %s not found\n", r.Logos.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Backend: %s\n", r.Env.Backend)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to generate")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
