package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/gatekit/pkg/authn"
)

// ResolverOption configures the context resolver.
type ResolverOption func(*ContextResolver)

// WithCache caches tenant records (name, slug, active flag) between
// requests. Memberships and roles are never cached: the role on the
// returned Context is always the role stored at lookup time.
func WithCache(cache Cache, ttl time.Duration) ResolverOption {
	return func(cr *ContextResolver) {
		if cache != nil {
			cr.cache = cache
		}
		if ttl > 0 {
			cr.cacheTTL = ttl
		}
	}
}

// ContextResolver turns (principal, tenant hint) into an immutable Context
// by resolving the tenant record and the principal's membership in it.
type ContextResolver struct {
	tenants     Provider
	memberships MembershipSource
	cache       Cache
	cacheTTL    time.Duration
}

// NewContextResolver creates a resolver backed by the given stores. By
// default no caching is performed; pass WithCache to skip repeated tenant
// record fetches.
func NewContextResolver(tenants Provider, memberships MembershipSource, opts ...ResolverOption) *ContextResolver {
	cr := &ContextResolver{
		tenants:     tenants,
		memberships: memberships,
		cache:       NewNoOpCache(),
		cacheTTL:    5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

// Resolve looks up the principal's active membership in the hinted tenant.
// An empty hint is ErrMissingTenantHint. Unknown tenant, inactive tenant,
// absent membership, and inactive membership all resolve to ErrNotAMember;
// the caller cannot distinguish them. On success the returned Context
// carries the membership's role exactly as stored at lookup time.
func (cr *ContextResolver) Resolve(ctx context.Context, principal *authn.Principal, hint string) (*Context, error) {
	if principal == nil || principal.SubjectID == "" {
		return nil, ErrNoPrincipal
	}
	if hint == "" {
		return nil, ErrMissingTenantHint
	}

	t, cached := cr.cache.Get(ctx, hint)
	if !cached {
		var err error
		t, err = cr.tenants.GetByIdentifier(ctx, hint)
		if err != nil {
			if errors.Is(err, ErrTenantNotFound) {
				return nil, ErrNotAMember
			}
			return nil, err
		}
		cr.cache.Set(ctx, hint, t, cr.cacheTTL)
	}

	if t == nil || !t.Active {
		return nil, ErrNotAMember
	}

	// The membership read is deliberately uncached: a role change must be
	// visible on the very next request.
	m, err := cr.memberships.Membership(ctx, t.ID, principal.SubjectID)
	if err != nil {
		if errors.Is(err, ErrNotAMember) || errors.Is(err, ErrTenantNotFound) {
			return nil, ErrNotAMember
		}
		return nil, err
	}
	if m == nil || !m.Active || !m.Role.Valid() {
		return nil, ErrNotAMember
	}

	return &Context{
		TenantID:     t.ID,
		Principal:    principal,
		Role:         m.Role,
		MembershipID: m.ID,
	}, nil
}
