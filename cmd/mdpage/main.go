// Command mdpage converts a Markdown file to a paginated A4 PDF.
//
// Usage:
//
//	mdpage <input.md> [--scale N] [--font-size N] [--margin N]
//	       [--margin-top N] [--margin-right N] [--margin-bottom N]
//	       [--margin-left N] [--css file] [--config file] [--timeout 30s]
//	       [--debug] [--quiet] [--verbose]
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if flags.version {
		fmt.Println("mdpage " + Version)
		return ExitSuccess
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := runConvert(positional, flags, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mdpage: "+errorWithHints(err))
		return exitCodeFor(err)
	}

	return ExitSuccess
}
