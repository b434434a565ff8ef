package cardgen

import "errors"

// Sentinel errors for library operations.
var (
	ErrMalformedInput = errors.New("malformed input sheet")
	ErrRender         = errors.New("card rendering failed")
	ErrArchive        = errors.New("archive packaging failed")
	ErrTemplateStore  = errors.New("template store unavailable")

	// Browser-level errors, wrapped by ErrRender when they end a run.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Option validation errors.
	ErrInvalidWorkers = errors.New("invalid worker count")
	ErrInvalidBackend = errors.New("invalid render backend")
)
