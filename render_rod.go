package cardgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cardgen/internal/process"
)

// rodEngine launches Chrome through go-rod.
// Rod automatically downloads Chromium on first run if no binary is found.
type rodEngine struct {
	opts BrowserOptions
}

func newRodEngine(opts BrowserOptions) *rodEngine {
	return &rodEngine{opts: opts}
}

// Open launches the browser and connects to it.
func (e *rodEngine) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New()
	if e.opts.Bin != "" {
		l = l.Bin(e.opts.Bin)
	}
	// NoSandbox required for CI and containerized environments
	if e.opts.NoSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &rodSession{browser: browser, launcher: l}, nil
}

type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	closeOnce sync.Once
	closeErr  error
}

// Render prints doc in a fresh incognito context.
func (s *rodSession) Render(ctx context.Context, doc BoundDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Every CDP call of this render, target creation included, is bound
	// to ctx.
	incognito, err := s.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("%w: incognito context: %w", ErrPageCreate, err)
	}
	// Disposed through the session browser so cleanup still runs after
	// ctx expires; disposing the context closes its pages.
	defer func() {
		_ = proto.TargetDisposeBrowserContext{BrowserContextID: incognito.BrowserContextID}.Call(s.browser)
	}()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageCreate, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             PageWidthPx,
		Height:            PageHeightPx,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: viewport: %w", ErrPageCreate, err)
	}

	if err := page.SetDocumentContent(doc.HTML); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageLoad, err)
	}
	if _, err := page.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		return nil, fmt.Errorf("%w: fonts: %w", ErrPageLoad, err)
	}

	reader, err := page.PDF(cardPrintOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// Close disconnects from the browser and kills it with its children.
func (s *rodSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.browser.Close()
		killLauncher(s.launcher)
	})
	return s.closeErr
}

func killLauncher(l *launcher.Launcher) {
	pid := l.PID()
	l.Kill()
	// Chrome spawns helpers that Kill does not always reach.
	process.KillProcessGroup(pid)
}

// cardPrintOptions prints exactly one borderless page of the card size.
// Content overflowing the first page is dropped.
func cardPrintOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperInches(PageWidthPx)),
		PaperHeight:     floatPtr(paperInches(PageHeightPx)),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PageRanges:      firstPageOnly,
		PrintBackground: true,
	}
}
