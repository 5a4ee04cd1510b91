package decision

import (
	"context"
	"log/slog"
)

// discardHandler drops every record. The engine defaults to it so callers
// that don't care about logs don't have to construct one.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// NopLogger returns a logger that discards everything, for tests and
// callers that want silence.
func NopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}
