// Package log owns the process-wide slog configuration for the canvas
// services.
package log

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide slog default. Unknown levels fall back to
// info, unknown formats to text.
func Setup(logLevel, logFormat string) {
	opts := &slog.HandlerOptions{Level: Level(logLevel)}

	var handler slog.Handler

	switch logFormat {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// Level maps a level name to its slog value.
func Level(logLevel string) slog.Level {
	switch logLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithModule returns the default logger tagged with a module attribute.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}

// WithWorkflow returns a module logger carrying the document id, for log
// lines that follow one document through the save pipeline.
func WithWorkflow(module, workflowID string) *slog.Logger {
	return slog.With("module", module, "workflow_id", workflowID)
}
