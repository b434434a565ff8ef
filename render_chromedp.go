package cardgen

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// chromedpEngine drives Chrome over CDP with chromedp. It needs a local
// Chrome/Chromium; nothing is downloaded.
type chromedpEngine struct {
	opts BrowserOptions
}

func newChromedpEngine(opts BrowserOptions) *chromedpEngine {
	return &chromedpEngine{opts: opts}
}

// Open starts the browser process. The session outlives ctx cancellation
// so that Close can always tear it down.
func (e *chromedpEngine) Open(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(e.opts.Bin))
	}
	if e.opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run on a fresh context starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	return &chromedpSession{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

type chromedpSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// Render prints doc in a new tab inside its own browser context.
func (s *chromedpSession) Render(ctx context.Context, doc BoundDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx, chromedp.WithNewBrowserContext())
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(PageWidthPx, PageHeightPx),
		chromedp.Navigate("about:blank"),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageCreate, renderCause(ctx, err))
	}

	if err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc.HTML).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, nil,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPageLoad, renderCause(ctx, err))
	}

	var pdfBuf []byte
	if err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfBuf, _, err = page.PrintToPDF().
			WithPaperWidth(paperInches(PageWidthPx)).
			WithPaperHeight(paperInches(PageHeightPx)).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPageRanges(firstPageOnly).
			WithPrintBackground(true).
			Do(ctx)
		return err
	})); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPDFGeneration, renderCause(ctx, err))
	}

	return pdfBuf, nil
}

// renderCause prefers the caller's context error, so a per-card timeout reads as
// context.DeadlineExceeded rather than chromedp's context.Canceled.
func renderCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close shuts the browser down and reaps the process.
func (s *chromedpSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.browserCtx)
		s.browserCancel()
		s.allocCancel()
	})
	return s.closeErr
}
