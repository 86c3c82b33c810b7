package main

import (
	"errors"
	"os"

	mdpage "github.com/mdpage/mdpage"
	"github.com/mdpage/mdpage/internal/config"
)

// Exit codes for the mdpage CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdpage.ErrBrowserConnect) ||
		errors.Is(err, mdpage.ErrPageCreate) ||
		errors.Is(err, mdpage.ErrPageLoad) ||
		errors.Is(err, mdpage.ErrRenderTimeout) ||
		errors.Is(err, mdpage.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdpage.ErrReadMarkdown) ||
		errors.Is(err, mdpage.ErrWritePDF) ||
		errors.Is(err, ErrReadCSS) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrTooManyInputs) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, mdpage.ErrEmptyMarkdown) ||
		errors.Is(err, mdpage.ErrInvalidScale) ||
		errors.Is(err, mdpage.ErrInvalidFontSize) ||
		errors.Is(err, mdpage.ErrInvalidMargin) {
		return ExitUsage
	}

	// Everything else, including ErrHTMLConversion, is a general failure.
	return ExitGeneral
}
