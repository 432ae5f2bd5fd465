package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/gatekit/pkg/rbac"
)

// Tenant is the isolation boundary (organization) within which resources
// and memberships are scoped.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership binds a principal to a tenant with a role. The role carried
// here is exactly the role stored at lookup time; memberships are never
// cached across requests, so role changes take effect on the next request.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	SubjectID string    `json:"subject_id"`
	Role      rbac.Role `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider loads tenant records from a data source. Implementations should
// accept any unique identifier format (UUID or slug) and return
// ErrTenantNotFound when nothing matches.
type Provider interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}

// MembershipSource looks up a principal's membership in a tenant. The
// lookup is always fresh; implementations must not cache roles.
type MembershipSource interface {
	Membership(ctx context.Context, tenantID uuid.UUID, subjectID string) (*Membership, error)
}
