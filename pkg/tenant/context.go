package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/authn"
	"github.com/dmitrymomot/gatekit/pkg/rbac"
)

// Context is the request-scoped tenant context: which tenant the request
// operates in, as whom, and with what role. Built once per request after
// membership resolution and treated as immutable from then on. Every data
// access the business handler issues must be constrained to TenantID; this
// value is the single source of truth for that constraint.
type Context struct {
	TenantID     uuid.UUID
	Principal    *authn.Principal
	Role         rbac.Role
	MembershipID uuid.UUID
}

type contextKey struct{}

// WithContext attaches the tenant context to the request context.
func WithContext(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the tenant context.
func FromContext(ctx context.Context) (*Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(*Context)
	return tc, ok && tc != nil
}

// IDFromContext retrieves just the tenant id.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tc, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return tc.TenantID, true
}

// MustFromContext retrieves the tenant context or panics. Use only in
// handlers registered behind the pipeline's tenant stage.
func MustFromContext(ctx context.Context) *Context {
	tc, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant context in request context")
	}
	return tc
}

// LoggerExtractor returns a logger context extractor emitting the tenant id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
