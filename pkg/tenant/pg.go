package tenant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/gatekit/pkg/pg"
	"github.com/dmitrymomot/gatekit/pkg/rbac"
)

// DB is the minimal query surface PGStore needs; *pgxpool.Pool satisfies
// it, as does pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements Provider and MembershipSource on PostgreSQL. Every
// membership query is constrained by tenant id; the store never answers
// across tenant boundaries.
type PGStore struct {
	db DB
}

// NewPGStore creates the store. The pool is owned by the caller.
func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

const getTenantQuery = `
SELECT id, slug, name, active, created_at
FROM tenants
WHERE id::text = $1 OR slug = $1`

// GetByIdentifier loads a tenant by UUID or slug. Returns ErrTenantNotFound
// when nothing matches.
func (s *PGStore) GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error) {
	var (
		t         Tenant
		id        string
		createdAt time.Time
	)

	err := s.db.QueryRow(ctx, getTenantQuery, identifier).
		Scan(&id, &t.Slug, &t.Name, &t.Active, &createdAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: query tenant: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("tenant: invalid tenant id %q: %w", id, err)
	}
	t.ID = parsed
	t.CreatedAt = createdAt

	return &t, nil
}

const getMembershipQuery = `
SELECT id, tenant_id, subject_id, role, active, created_at
FROM memberships
WHERE tenant_id = $1 AND subject_id = $2`

// Membership loads the principal's membership in the given tenant. The role
// is read fresh on every call. Returns ErrNotAMember when no row exists.
func (s *PGStore) Membership(ctx context.Context, tenantID uuid.UUID, subjectID string) (*Membership, error) {
	var (
		m         Membership
		id, tid   string
		role      string
		createdAt time.Time
	)

	err := s.db.QueryRow(ctx, getMembershipQuery, tenantID.String(), subjectID).
		Scan(&id, &tid, &m.SubjectID, &role, &m.Active, &createdAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("tenant: query membership: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("tenant: invalid membership id %q: %w", id, err)
	}
	parsedTenantID, err := uuid.Parse(tid)
	if err != nil {
		return nil, fmt.Errorf("tenant: invalid tenant id %q: %w", tid, err)
	}

	parsedRole, err := rbac.ParseRole(role)
	if err != nil {
		// A row with a role outside the closed set is treated as no
		// membership rather than granting anything by accident.
		return nil, errors.Join(ErrNotAMember, err)
	}

	m.ID = parsedID
	m.TenantID = parsedTenantID
	m.Role = parsedRole
	m.CreatedAt = createdAt

	return &m, nil
}
