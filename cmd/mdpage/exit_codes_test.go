package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	mdpage "github.com/mdpage/mdpage"
	"github.com/mdpage/mdpage/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"html conversion", mdpage.ErrHTMLConversion, ExitGeneral},

		{"browser connect", mdpage.ErrBrowserConnect, ExitBrowser},
		{"page create", mdpage.ErrPageCreate, ExitBrowser},
		{"page load", mdpage.ErrPageLoad, ExitBrowser},
		{"render timeout", mdpage.ErrRenderTimeout, ExitBrowser},
		{"pdf generation", mdpage.ErrPDFGeneration, ExitBrowser},

		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"read markdown", mdpage.ErrReadMarkdown, ExitIO},
		{"write pdf", mdpage.ErrWritePDF, ExitIO},
		{"read css", ErrReadCSS, ExitIO},

		{"no input", ErrNoInput, ExitUsage},
		{"too many inputs", ErrTooManyInputs, ExitUsage},
		{"bad extension", ErrInvalidExtension, ExitUsage},
		{"bad timeout", ErrInvalidTimeout, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"empty markdown", mdpage.ErrEmptyMarkdown, ExitUsage},
		{"invalid scale", mdpage.ErrInvalidScale, ExitUsage},
		{"invalid font size", mdpage.ErrInvalidFontSize, ExitUsage},
		{"invalid margin", mdpage.ErrInvalidMargin, ExitUsage},

		{"wrapped browser error", fmt.Errorf("converting: %w", mdpage.ErrBrowserConnect), ExitBrowser},
		{"wrapped validation error", fmt.Errorf("settings: %w", mdpage.ErrInvalidScale), ExitUsage},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
