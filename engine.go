package cardgen

import (
	"context"
	"fmt"
	"strings"
)

// Engine starts rendering sessions. Open is called once per run.
type Engine interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a live browser shared by every card of a run.
// Render may be called concurrently; each call uses its own isolated
// browser context that is torn down before Render returns.
type Session interface {
	Render(ctx context.Context, doc BoundDocument) ([]byte, error)
	Close() error
}

// Card page size in CSS pixels.
const (
	PageWidthPx  = 1400
	PageHeightPx = 2115

	cssPxPerInch  = 96.0
	firstPageOnly = "1"
)

// Render backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// BrowserOptions configures how the headless browser is launched.
type BrowserOptions struct {
	// Bin is a Chrome/Chromium executable. Empty lets the backend find or
	// download one.
	Bin string
	// NoSandbox disables the Chrome sandbox, needed in most containers.
	NoSandbox bool
}

// NewEngine returns the engine for backend ("rod" or "chromedp", case-insensitive).
// An empty backend selects rod.
func NewEngine(backend string, opts BrowserOptions) (Engine, error) {
	switch strings.ToLower(backend) {
	case "", BackendRod:
		return newRodEngine(opts), nil
	case BackendChromedp:
		return newChromedpEngine(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, backend)
	}
}

// paperInches converts CSS pixels to the inches Chrome's print API expects.
func paperInches(px int) float64 {
	return float64(px) / cssPxPerInch
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
