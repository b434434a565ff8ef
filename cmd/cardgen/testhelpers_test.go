package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cardgen "github.com/alnah/go-cardgen"
)

// fakeEngine renders the bound HTML as the "PDF" body.
type fakeEngine struct {
	openErr   error
	renderErr error
}

func (e *fakeEngine) Open(context.Context) (cardgen.Session, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return fakeSession{renderErr: e.renderErr}, nil
}

type fakeSession struct {
	renderErr error
}

func (s fakeSession) Render(_ context.Context, doc cardgen.BoundDocument) ([]byte, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return []byte("%PDF " + doc.HTML), nil
}

func (fakeSession) Close() error { return nil }

// testEnv returns an Environment with captured output and a fake engine.
func testEnv(engine cardgen.Engine) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		NewEngine: func(string, cardgen.BrowserOptions) (cardgen.Engine, error) {
			return engine, nil
		},
	}, stdout, stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// setupWorkspace creates templates for promocao and cupom plus a logo dir.
func setupWorkspace(t *testing.T) (templates, logos string) {
	t.Helper()

	root := t.TempDir()
	templates = filepath.Join(root, "templates")
	logos = filepath.Join(root, "logos")
	for _, dir := range []string{templates, logos} {
		if err := os.Mkdir(dir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	writeFile(t, templates, "promocao.html", "<p>{{TEXTO}}</p>")
	writeFile(t, templates, "cupom.html", "<p>{{CUPOM}}</p>")
	return templates, logos
}

// clearCardgenEnv unsets CARDGEN_* variables inherited from the host.
func clearCardgenEnv(t *testing.T) {
	t.Helper()

	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}
