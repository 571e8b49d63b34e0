package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the application logger.
// env: "development" uses a readable text handler, anything else JSON.
func New(env string) *slog.Logger {
	return newWithWriter(env, os.Stdout)
}

func newWithWriter(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithError attaches err to the logger as the "error" attribute.
func WithError(log *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return log
	}
	return log.With("error", err.Error())
}
