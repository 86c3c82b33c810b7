package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	scale    float64
	fontSize int

	margin       float64 // uniform convenience form, applies to all sides
	marginTop    float64
	marginRight  float64
	marginBottom float64
	marginLeft   float64

	css     string
	config  string
	timeout string

	debug    bool
	debugDir string

	quiet   bool
	verbose bool
	version bool

	// changed records which flags were given explicitly, so an explicit
	// per-side margin can override --margin and a flag can override the
	// config file. pflag tracks this; captured here so the flag set does
	// not escape parsing.
	changed map[string]bool
}

// parseFlags parses command-line flags and returns positional args.
// Both --flag value and --flag=value forms are accepted.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdpage", flag.ContinueOnError)
	f := &cliFlags{}

	fs.Float64Var(&f.scale, "scale", 0, "rendering scale factor (default 1.0)")
	fs.IntVar(&f.fontSize, "font-size", 0, "base font size in pixels (default 16)")

	fs.Float64Var(&f.margin, "margin", 0, "page margin in mm, all sides (default 25.4)")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "top margin in mm")
	fs.Float64Var(&f.marginRight, "margin-right", 0, "right margin in mm")
	fs.Float64Var(&f.marginBottom, "margin-bottom", 0, "bottom margin in mm")
	fs.Float64Var(&f.marginLeft, "margin-left", 0, "left margin in mm")

	fs.StringVar(&f.css, "css", "", "extra CSS file appended to the built-in stylesheets")
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file with conversion defaults")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "page settle timeout (e.g. 30s, 2m)")

	fs.BoolVar(&f.debug, "debug", false, "persist pipeline intermediates and a log file")
	fs.StringVar(&f.debugDir, "debug-dir", "", "debug output directory (default <input dir>/.mdpage-debug)")

	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
