package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdpage "github.com/mdpage/mdpage"
	"github.com/mdpage/mdpage/internal/config"
	"github.com/mdpage/mdpage/internal/fileutil"
	"github.com/mdpage/mdpage/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrTooManyInputs    = errors.New("expected exactly one input file")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrReadCSS          = errors.New("failed to read CSS file")
	ErrInvalidTimeout   = errors.New("invalid timeout")
)

// filePermissions for the output PDF: owner read+write, others read.
const filePermissions = 0o644

// runConvert drives a single conversion: resolve settings, validate them
// before any file I/O, run the pipeline, write the PDF atomically, and
// report the result.
func runConvert(positional []string, flags *cliFlags, stdout, stderr io.Writer) error {
	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}

	// Load configuration (optional file; flags win)
	cfg := config.DefaultConfig()
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return err
		}
	}

	settings := resolveSettings(flags, cfg)
	if err := settings.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags, cfg)
	if err != nil {
		return err
	}

	if !fileutil.FileExists(inputPath) {
		return fmt.Errorf("%w: %s", mdpage.ErrReadMarkdown, inputPath)
	}

	extraCSS, err := loadExtraCSS(flags.css)
	if err != nil {
		return err
	}

	sink, err := newDebugSink(flags, cfg, inputPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	warnf := func(format string, args ...any) {
		fmt.Fprintf(stderr, "warning: "+format+"\n", args...)
		sink.Logf("warning: "+format, args...)
	}

	conv := mdpage.New(
		mdpage.WithTimeout(timeout),
		mdpage.WithWarnFunc(warnf),
	)
	defer conv.Close()

	markdown, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", mdpage.ErrReadMarkdown, err)
	}
	sink.Logf("converting %s", inputPath)
	sink.WriteArtifact("input.md", markdown)

	if flags.verbose {
		fmt.Fprintf(stderr, "Converting %s (timeout %s)\n", inputPath, timeout)
	}

	start := time.Now()
	result, err := conv.Convert(context.Background(), mdpage.Input{
		Markdown:  string(markdown),
		SourceDir: filepath.Dir(inputPath),
		CSS:       extraCSS,
		Settings:  settings,
	})
	if err != nil {
		sink.Logf("conversion failed: %v", err)
		return err
	}
	sink.WriteArtifact("fragment.html", result.Fragment)
	sink.WriteArtifact("assembled.html", result.HTML)

	outputPath := mdpage.OutputPath(inputPath)
	if err := fileutil.AtomicWriteFile(outputPath, result.PDF, filePermissions); err != nil {
		sink.Logf("write failed: %v", err)
		return fmt.Errorf("%w: %v", mdpage.ErrWritePDF, err)
	}
	sink.Logf("wrote %s (%d bytes) in %s", outputPath, len(result.PDF), time.Since(start).Round(time.Millisecond))

	if !flags.quiet {
		fmt.Fprintf(stdout, "%s\n", outputPath)
		fmt.Fprintf(stdout, "  scale=%g font-size=%dpx margins=%g/%g/%g/%gmm\n",
			settings.Scale, settings.FontSizePx,
			settings.Margins.Top, settings.Margins.Right,
			settings.Margins.Bottom, settings.Margins.Left)
	}

	return nil
}

// resolveInputPath validates the positional arguments.
func resolveInputPath(positional []string) (string, error) {
	switch len(positional) {
	case 0:
		return "", ErrNoInput
	case 1:
	default:
		return "", fmt.Errorf("%w, got %d", ErrTooManyInputs, len(positional))
	}

	path := positional[0]
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
	return path, nil
}

// resolveSettings merges defaults, config file values, and flags, in
// ascending precedence. A per-side margin flag overrides --margin, which
// overrides the config file's margins.
func resolveSettings(flags *cliFlags, cfg *config.Config) mdpage.Settings {
	s := mdpage.DefaultSettings()

	// Config file layer
	if cfg.Scale != 0 {
		s.Scale = cfg.Scale
	}
	if cfg.FontSize != 0 {
		s.FontSizePx = cfg.FontSize
	}
	if v := cfg.Margins.All; v != nil {
		s.Margins = uniformMargins(*v)
	}
	if v := cfg.Margins.Top; v != nil {
		s.Margins.Top = *v
	}
	if v := cfg.Margins.Right; v != nil {
		s.Margins.Right = *v
	}
	if v := cfg.Margins.Bottom; v != nil {
		s.Margins.Bottom = *v
	}
	if v := cfg.Margins.Left; v != nil {
		s.Margins.Left = *v
	}

	// Flag layer
	if flags.changed["scale"] {
		s.Scale = flags.scale
	}
	if flags.changed["font-size"] {
		s.FontSizePx = flags.fontSize
	}
	if flags.changed["margin"] {
		s.Margins = uniformMargins(flags.margin)
	}
	if flags.changed["margin-top"] {
		s.Margins.Top = flags.marginTop
	}
	if flags.changed["margin-right"] {
		s.Margins.Right = flags.marginRight
	}
	if flags.changed["margin-bottom"] {
		s.Margins.Bottom = flags.marginBottom
	}
	if flags.changed["margin-left"] {
		s.Margins.Left = flags.marginLeft
	}

	return s
}

func uniformMargins(mm float64) mdpage.Margins {
	return mdpage.Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// resolveTimeout picks the settle timeout: flag, then config, then 30s.
func resolveTimeout(flags *cliFlags, cfg *config.Config) (time.Duration, error) {
	raw := flags.timeout
	if raw == "" {
		raw = cfg.Timeout
	}
	if raw == "" {
		return 30 * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q (expected a positive duration like 30s)", ErrInvalidTimeout, raw)
	}
	return d, nil
}

// loadExtraCSS reads the optional user stylesheet.
func loadExtraCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// errorWithHints appends actionable hints to known failure classes.
func errorWithHints(err error) string {
	msg := err.Error()
	if errors.Is(err, mdpage.ErrBrowserConnect) {
		msg += hints.ForBrowserConnect()
	}
	if errors.Is(err, mdpage.ErrRenderTimeout) {
		msg += hints.ForTimeout()
	}
	return msg
}

// printUsage writes flag usage to w.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: mdpage <input.md> [flags]

Converts a Markdown file to a paginated A4 PDF written next to the input
(same base name, .pdf extension).

Flags:
      --scale N           rendering scale factor (default 1.0)
      --font-size N       base font size in pixels (default 16)
      --margin N          page margin in mm, all four sides (default 25.4)
      --margin-top N      top margin in mm
      --margin-right N    right margin in mm
      --margin-bottom N   bottom margin in mm
      --margin-left N     left margin in mm
      --css FILE          extra CSS appended to the built-in stylesheets
  -c, --config FILE       YAML config file with conversion defaults
  -t, --timeout DUR       page settle timeout (default 30s)
      --debug             persist pipeline intermediates and a log file
      --debug-dir DIR     debug output directory
  -q, --quiet             only show errors
  -v, --verbose           show detailed progress
      --version           print version and exit
`)
}
