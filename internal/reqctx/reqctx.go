// Package reqctx carries per-request identifiers through a context so that
// logs and outgoing API calls can be correlated.
package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// HeaderRequestID is propagated from the browser to the remote API.
const HeaderRequestID = "X-Request-ID"

type (
	requestIDKey struct{}
	sessionIDKey struct{}
)

// NewID generates a random UUID v4.
func NewID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionID returns "" if absent.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
