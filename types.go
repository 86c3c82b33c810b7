package mdpage

import (
	"fmt"
	"math"
	"time"
)

// Default settings values.
const (
	DefaultScale      = 1.0
	DefaultFontSizePx = 16
	DefaultMarginMM   = 25.4 // 1 inch
)

// defaultTimeout bounds page navigation and settlement.
const defaultTimeout = 30 * time.Second

// Margins holds per-side page margins in millimeters.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins returns 25.4mm (1 inch) on every side.
func DefaultMargins() Margins {
	return Margins{
		Top:    DefaultMarginMM,
		Right:  DefaultMarginMM,
		Bottom: DefaultMarginMM,
		Left:   DefaultMarginMM,
	}
}

// Validate checks that every margin is a non-negative finite number.
// The returned error names the offending side.
func (m Margins) Validate() error {
	sides := []struct {
		name  string
		value float64
	}{
		{"top", m.Top},
		{"right", m.Right},
		{"bottom", m.Bottom},
		{"left", m.Left},
	}
	for _, s := range sides {
		if s.value < 0 || math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return fmt.Errorf("%w: %s margin must be a non-negative number, got %v", ErrInvalidMargin, s.name, s.value)
		}
	}
	return nil
}

// Settings configures one conversion. The zero value is not usable;
// construct with DefaultSettings and override fields as needed.
type Settings struct {
	Scale      float64 // body scale factor, applied as a CSS transform
	FontSizePx int     // base font size in pixels
	Margins    Margins // per-side page margins in millimeters
}

// DefaultSettings returns settings with scale 1.0, 16px font, and
// 25.4mm margins.
func DefaultSettings() Settings {
	return Settings{
		Scale:      DefaultScale,
		FontSizePx: DefaultFontSizePx,
		Margins:    DefaultMargins(),
	}
}

// Validate checks that all settings are within their contracts.
func (s Settings) Validate() error {
	if s.Scale <= 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0) {
		return fmt.Errorf("%w: scale must be a positive number, got %v", ErrInvalidScale, s.Scale)
	}
	if s.FontSizePx <= 0 {
		return fmt.Errorf("%w: font size must be a positive number, got %d", ErrInvalidFontSize, s.FontSizePx)
	}
	return s.Margins.Validate()
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string   // Markdown content (required)
	SourceDir string   // base directory for relative image paths (optional)
	CSS       string   // extra CSS appended after the built-in stylesheets (optional)
	Settings  Settings // scale, font size, margins
}

// Result holds the pipeline output. Fragment and HTML are the
// intermediate and assembled documents, kept for the debug surface; PDF
// is the final byte stream.
type Result struct {
	Fragment []byte // parsed fragment after image inlining
	HTML     []byte // complete assembled document
	PDF      []byte
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
	warnf   func(format string, args ...any)
}

// WithTimeout sets the page navigation and settlement timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpage: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithWarnFunc redirects non-fatal warnings (unreadable images, render-time
// image failures). The default writes to stderr.
func WithWarnFunc(warnf func(format string, args ...any)) Option {
	if warnf == nil {
		panic("mdpage: WithWarnFunc requires a non-nil function")
	}
	return func(c *Converter) {
		c.cfg.warnf = warnf
	}
}
