package tenant

import "errors"

var (
	// ErrMissingTenantHint is returned when a route that requires a tenant
	// receives no tenant hint at all.
	ErrMissingTenantHint = errors.New("tenant: missing tenant hint")

	// ErrNotAMember is returned when the principal has no active membership
	// in the requested tenant. It deliberately covers unknown tenant,
	// inactive tenant, and absent membership alike; callers never learn
	// which, to avoid information disclosure.
	ErrNotAMember = errors.New("tenant: not a member of tenant")

	// ErrTenantNotFound is the storage-level miss. Resolvers fold it into
	// ErrNotAMember before it reaches a response.
	ErrTenantNotFound = errors.New("tenant: tenant not found")

	// ErrNoPrincipal is returned when context resolution is attempted
	// without a previously resolved principal. A Context is never built
	// without one.
	ErrNoPrincipal = errors.New("tenant: no resolved principal")

	// ErrNoContext is returned when no tenant context is found in a
	// request context.
	ErrNoContext = errors.New("tenant: no tenant context")
)
