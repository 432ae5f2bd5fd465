package pipeline

import (
	"time"

	"github.com/dmitrymomot/gatekit/pkg/audit"
)

// Config is the environment surface of the pipeline. Provider "none"
// disables the whole pipeline for local development: requests reach
// handlers with no principal, no tenant context, and no audit trail.
type Config struct {
	// Provider selects the identity provider by name, or "none".
	Provider string `env:"AUTH_PROVIDER" envDefault:"none"`

	// TenantIsolation toggles the tenant resolution stage. Disabling it
	// leaves authentication in place but skips tenant resolution and role
	// checks, since a role only exists within a tenant membership.
	TenantIsolation bool `env:"TENANT_ISOLATION_ENABLED" envDefault:"true"`

	// AuditModeMutations selects the write mode for CREATE/UPDATE actions.
	// DELETE is always inline; losing a deletion record is unacceptable.
	AuditModeMutations audit.Mode `env:"AUDIT_MODE_MUTATIONS" envDefault:"inline"`

	// AuditModeReads selects the write mode for READ actions.
	AuditModeReads audit.Mode `env:"AUDIT_MODE_READS" envDefault:"best_effort"`

	// AuditRetention is the retention window enforced by the external
	// archival job. Carried here so one config block describes the whole
	// pipeline; the pipeline itself never deletes entries.
	AuditRetention time.Duration `env:"AUDIT_RETENTION" envDefault:"2160h"`
}

// ModeFor returns the configured audit mode for an action category.
func (c Config) ModeFor(action audit.Action) audit.Mode {
	switch action {
	case audit.ActionDelete:
		return audit.ModeInline
	case audit.ActionRead:
		return c.AuditModeReads
	default:
		return c.AuditModeMutations
	}
}
