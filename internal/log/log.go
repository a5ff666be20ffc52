package log

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// Init installs the default text logger. Development mode turns on debug
// level output.
func Init(development bool) {
	level := slog.LevelInfo
	if development {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// ContextWithLogger attaches a request-scoped logger to the context
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// LoggerFromContext returns the request-scoped logger, falling back to the
// process default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
