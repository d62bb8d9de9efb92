// Package logging builds the diagnostic logger and carries it through a context.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is how we find [*slog.Logger] in a [context.Context].
type contextKey struct{}

// NewRunID returns an identifier for one invocation of the tool.
func NewRunID() string {
	return uuid.NewString()
}

// New returns a text logger writing to w, at debug level when verbose is set.
// Every record carries runID so one invocation can be traced end to end.
func New(w io.Writer, verbose bool, runID string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("run_id", runID))
}

// NewContext returns a new [context.Context], derived from ctx, which carries the provided [*slog.Logger].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the [*slog.Logger] carried by ctx.
//
// If no logger is found, this returns a logger with [slog.DiscardHandler].
func FromContext(ctx context.Context) *slog.Logger {
	if v, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return v
	}
	return slog.New(slog.DiscardHandler)
}
