// Package tenant resolves which tenant a request operates in and with what
// role, producing the immutable Context threaded through the rest of the
// request.
//
// Resolution has two halves. A HintResolver extracts the tenant hint from
// the request (header, path segment, or a claim on the already
// authenticated principal; resolvers compose). The ContextResolver then
// looks up the tenant record and the principal's membership, and builds a
// Context carrying the membership's role exactly as stored at lookup time.
//
// Tenant records may be cached (in process or in Redis) to skip a row
// fetch. Memberships are never cached: a role change is visible on the
// next request. Unknown tenant, inactive tenant, and missing membership
// are indistinguishable to callers; all surface as ErrNotAMember.
//
// The Context is the single source of truth for row-level isolation:
// business handlers constrain every query to Context.TenantID, and no
// second, independent tenant check exists downstream.
package tenant
