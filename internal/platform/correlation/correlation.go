// Package correlation carries per-request IDs through context and into logs.
// The HTTP client stamps each outgoing call with an X-Request-ID header so a
// failed call can be matched against server-side logs.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
)

// HeaderName is the request header the client stamps on every outgoing call.
const HeaderName = "X-Request-ID"

type contextKey struct{}

// NewID generates an 8-character hex request ID (4 random bytes).
func NewID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithID returns a new context carrying the given request ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID extracts the request ID from ctx, returning ("", false) if not present.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Stamp ensures ctx carries a request ID and sets it on the outgoing request.
// If the context already carries an ID it is reused, so several calls of one
// logical operation share the same ID.
func Stamp(ctx context.Context, req *http.Request) context.Context {
	id, ok := ID(ctx)
	if !ok {
		id = NewID()
		ctx = WithID(ctx, id)
	}
	req.Header.Set(HeaderName, id)
	return ctx
}

// Handler wraps an existing slog.Handler to automatically inject a
// "request_id" attribute when the context carries one.
type Handler struct {
	inner slog.Handler
}

// NewHandler creates a request-ID-aware handler wrapping the given handler.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String("request_id", id))
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
