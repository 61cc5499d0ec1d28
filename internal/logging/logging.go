// Package logging builds the zap logger for the terminal. The TUI owns
// stdout/stderr, so everything is written to a log file under the user config
// directory; non-TUI commands (import, login) get the same sink.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to file at the given level. An unparseable
// level falls back to info. verbose forces debug.
func New(file, level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{file}
	cfg.ErrorOutputPaths = []string{file}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ResolvePath resolves the configured log file: absolute paths are used as
// given, bare names land under the user config directory, and an empty value
// falls back to till.log.
func ResolvePath(file string) string {
	if file == "" {
		file = "till.log"
	}
	if filepath.IsAbs(file) {
		return file
	}
	return DefaultFile(file)
}

// DefaultFile returns the default log file path, creating its directory.
func DefaultFile(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	full := filepath.Join(dir, "till")
	if err := os.MkdirAll(full, 0755); err != nil {
		return name
	}
	return filepath.Join(full, name)
}
