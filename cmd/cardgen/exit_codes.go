package main

import (
	"context"
	"errors"
	"os"

	cardgen "github.com/alnah/go-cardgen"
	"github.com/alnah/go-cardgen/internal/config"
)

// Exit codes for the cardgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Archive written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Input missing, unreadable or malformed; output unwritable
	ExitBrowser = 4 // Browser/Chrome or render errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, cardgen.ErrBrowserConnect) ||
		errors.Is(err, cardgen.ErrPageCreate) ||
		errors.Is(err, cardgen.ErrPageLoad) ||
		errors.Is(err, cardgen.ErrPDFGeneration) ||
		errors.Is(err, cardgen.ErrRender) {
		if errors.Is(err, context.Canceled) {
			return ExitGeneral
		}
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteArchive) ||
		errors.Is(err, cardgen.ErrMalformedInput) ||
		errors.Is(err, cardgen.ErrArchive) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cardgen.ErrInvalidWorkers) ||
		errors.Is(err, cardgen.ErrInvalidBackend) ||
		errors.Is(err, cardgen.ErrTemplateStore) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
