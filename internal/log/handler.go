package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// MaxValueLength is the longest string attribute value that is logged
// verbatim. Longer values are truncated with a byte count suffix.
const MaxValueLength = 256

// dataURIPrefixLength is how much of a data URI survives truncation.
// Enough to show the MIME type, never any meaningful payload.
const dataURIPrefixLength = 32

// TruncatingHandler wraps an slog.Handler to truncate oversized attribute
// values. It intercepts log records and shortens string values that exceed
// MaxValueLength, with special handling for data URIs, before passing them
// to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites never need to remember to pre-truncate values
type TruncatingHandler struct {
	// handler is the underlying slog handler that receives truncated records.
	handler slog.Handler
}

// NewTruncatingHandler creates a new TruncatingHandler wrapping the given
// handler. All string attributes are truncated before being passed on.
// If handler is nil, the returned TruncatingHandler uses
// slog.Default().Handler().
func NewTruncatingHandler(handler slog.Handler) *TruncatingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TruncatingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates the record's attributes and passes it to the underlying
// handler.
func (h *TruncatingHandler) Handle(ctx context.Context, r slog.Record) error {
	truncated := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		truncated.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, truncated)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are truncated before being added.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	truncatedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		truncatedAttrs[i] = h.truncateAttr(a)
	}
	return &TruncatingHandler{handler: h.handler.WithAttrs(truncatedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{handler: h.handler.WithGroup(name)}
}

// truncateAttr truncates a single attribute, recursively handling groups.
func (h *TruncatingHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		truncatedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			truncatedAttrs[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(truncatedAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	if truncated, ok := truncateValue(value); ok {
		return slog.String(a.Key, truncated)
	}
	return a
}

// truncateValue shortens a string value if needed. The second return value
// reports whether truncation happened.
func truncateValue(value string) (string, bool) {
	// Data URIs get aggressive truncation regardless of the general cap:
	// even a "short" one is noise, and a long one is the exact payload
	// this handler exists to keep out of logs.
	if strings.HasPrefix(value, "data:") && len(value) > dataURIPrefixLength {
		return fmt.Sprintf("%s... (%d bytes elided)",
			value[:dataURIPrefixLength], len(value)-dataURIPrefixLength), true
	}

	if len(value) > MaxValueLength {
		return fmt.Sprintf("%s... (%d bytes elided)",
			value[:MaxValueLength], len(value)-MaxValueLength), true
	}

	return value, false
}

// NewLogger creates a new slog.Logger with value truncation.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTruncatingHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with value truncation that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewTruncatingHandler(jsonHandler))
}
