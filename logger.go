package rasterlayer

import (
	"log/slog"

	"github.com/gogpu/rasterlayer/internal/logging"
)

// SetLogger configures the logger for rasterlayer and its sub-packages.
// By default, rasterlayer produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by rasterlayer:
//   - [slog.LevelDebug]: canvas growth, region mask fallbacks, buffer swaps
//   - [slog.LevelWarn]: hibernation items that failed or were requeued
//
// Example:
//
//	rasterlayer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by rasterlayer.
// The hibernate package shares the same logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
