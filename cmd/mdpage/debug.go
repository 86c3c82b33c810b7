package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdpage/mdpage/internal/config"
)

// debugSink persists pipeline intermediates and timestamped log lines for
// inspection. It is an explicit value threaded through the run function,
// never process-global state, so concurrent conversions in tests cannot
// interfere. A nil sink is a no-op.
type debugSink struct {
	dir     string
	logFile *os.File
}

// dirPermissions for the debug directory: owner full, group read+execute.
const dirPermissions = 0o750

// newDebugSink creates the debug directory and log file when debugging is
// enabled by flag or config; otherwise it returns a nil sink.
func newDebugSink(flags *cliFlags, cfg *config.Config, inputPath string) (*debugSink, error) {
	if !flags.debug && !cfg.Debug.Enabled {
		return nil, nil
	}

	dir := flags.debugDir
	if dir == "" {
		dir = cfg.Debug.Dir
	}
	if dir == "" {
		dir = filepath.Join(filepath.Dir(inputPath), ".mdpage-debug")
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating debug directory: %w", err)
	}

	logPath := filepath.Join(dir, "mdpage.log")
	// #nosec G304 -- path derives from user-chosen debug dir
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}

	return &debugSink{dir: dir, logFile: logFile}, nil
}

// Logf appends one timestamped line to the debug log.
func (d *debugSink) Logf(format string, args ...any) {
	if d == nil {
		return
	}
	line := fmt.Sprintf("%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	_, _ = d.logFile.WriteString(line)
}

// WriteArtifact persists one intermediate file into the debug directory.
// Failures are reported in the log but never fail the conversion: the
// debug surface is purely diagnostic.
func (d *debugSink) WriteArtifact(name string, data []byte) {
	if d == nil {
		return
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		d.Logf("writing artifact %s: %v", name, err)
	}
}

// Close releases the log file.
func (d *debugSink) Close() error {
	if d == nil || d.logFile == nil {
		return nil
	}
	return d.logFile.Close()
}
