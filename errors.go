package mdpage

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderTimeout  = errors.New("page did not settle before timeout")
	ErrWritePDF       = errors.New("failed to write PDF file")
	ErrReadMarkdown   = errors.New("failed to read markdown file")

	// Settings validation errors. Each names the offending field so the
	// CLI can surface a specific diagnostic.
	ErrInvalidScale    = errors.New("invalid scale")
	ErrInvalidFontSize = errors.New("invalid font size")
	ErrInvalidMargin   = errors.New("invalid margin")
)
