// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets the authenticated resident and request metadata; services read
// them without importing net/http.
//
// Usage in services (read values):
//
//	resident := requestcontext.Resident(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithResident(ctx, "RSSMRA80A01H501U")
package requestcontext

import (
	"context"
	"time"

	id "condovote/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	residentKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyResident    = residentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Resident retrieves the authenticated resident's tax code from the context.
// Returns the empty tax code if not set.
func Resident(ctx context.Context) id.TaxCode {
	if code, ok := ctx.Value(ContextKeyResident).(id.TaxCode); ok {
		return code
	}
	return ""
}

// WithResident injects the authenticated resident's tax code into the context.
func WithResident(ctx context.Context, code id.TaxCode) context.Context {
	return context.WithValue(ctx, ContextKeyResident, code)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like the reconciler and tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Reconciliation sweeps that need consistent time within a batch
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
