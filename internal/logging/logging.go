// =============================================================================
// Invoice Automation - Logging Module
// =============================================================================
//
// This module constructs the application logger. Everything the automation
// reports, including the collaborator scripts' captured output, flows
// through it, so operators can follow a run from a single stream.
//
// OUTPUT:
//   - Standard output, always.
//   - An optional log file (log_file setting); output is teed to both.
//
// The pipeline and runner accept the logger as a logrus.FieldLogger, which
// lets tests substitute a capturing logger.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// New builds the application logger.
//
// PARAMETERS:
//   - level: The configured log level ("debug", "info", "warn", "error").
//     An unrecognized level falls back to "info" with a warning.
//   - logFile: Optional file to tee output into. Parent directories are
//     created as needed. Empty means stdout only.
//   - verbose: Forces the debug level regardless of the configured one.
//
// RETURNS:
//   - The configured logger.
//   - A cleanup function closing the log file, safe to call always.
//   - An error if the log file cannot be opened.
func New(level, logFile string, verbose bool) (*log.Logger, func(), error) {
	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
		logger.Warnf("Unknown log level %q, using info", level)
	}
	if verbose {
		parsed = log.DebugLevel
	}
	logger.SetLevel(parsed)

	cleanup := func() {}

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, cleanup, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, f))
		cleanup = func() { f.Close() }
	}

	return logger, cleanup, nil
}
