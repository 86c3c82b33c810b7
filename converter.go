package mdpage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdpage/mdpage/internal/fileutil"
	"github.com/mdpage/mdpage/internal/pipeline"
)

// Compile-time interface implementation checks.
var _ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)

// Converter orchestrates the markdown-to-PDF pipeline: parse, inline
// local images, assemble a self-contained document, render to paginated
// PDF. Create with New, convert with Convert or ConvertFile, and Close
// when done.
type Converter struct {
	cfg           converterConfig
	htmlConverter pipeline.HTMLConverter
	pdfConverter  pdfConverter
}

// New creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			warnf: func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
			},
		},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.cfg.warnf)
	}

	return c
}

// Convert runs the full pipeline and returns the assembled HTML and the
// PDF bytes. The context is used for cancellation and timeout.
func (c *Converter) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	mdContent := pipeline.NormalizeMarkdown(input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Inline local images so the assembled document needs no filesystem
	// access. Per-image failures warn and leave the original reference.
	fragment, err = pipeline.InlineImages(fragment, input.SourceDir, pipeline.WarnFunc(c.cfg.warnf))
	if err != nil {
		return nil, fmt.Errorf("inlining images: %w", err)
	}

	htmlContent, err := pipeline.AssembleDocument(fragment, input.Settings.FontSizePx, input.CSS)
	if err != nil {
		return nil, fmt.Errorf("assembling document: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	pdfOpts := &pdfOptions{
		Scale:   input.Settings.Scale,
		Margins: input.Settings.Margins,
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, pdfOpts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	return &Result{
		Fragment: []byte(fragment),
		HTML:     []byte(htmlContent),
		PDF:      pdfBytes,
	}, nil
}

// ConvertFile reads a Markdown file, converts it, and writes the PDF next
// to the input with the extension replaced. The write is atomic: a failed
// conversion never leaves a partial file at the output path. Returns the
// output path.
func (c *Converter) ConvertFile(ctx context.Context, inputPath string, settings Settings) (string, error) {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	result, err := c.Convert(ctx, Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(inputPath),
		Settings:  settings,
	})
	if err != nil {
		return "", err
	}

	outputPath := OutputPath(inputPath)
	// #nosec G306 -- PDF output files are intended to be readable
	if err := fileutil.AtomicWriteFile(outputPath, result.PDF, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	return outputPath, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func (c *Converter) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	return input.Settings.Validate()
}

// OutputPath derives the PDF path from the Markdown path: same directory,
// same base name, .pdf extension.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".markdown") {
		return strings.TrimSuffix(inputPath, ext) + ".pdf"
	}
	return inputPath + ".pdf"
}
