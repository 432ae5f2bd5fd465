package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is the category of a recorded mutation.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Valid reports whether the action belongs to the closed set.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Entry is an immutable record of a completed action. Created after the
// business handler returns, written once, never mutated.
type Entry struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	ActorSubjectID string          `json:"actor_subject_id"`
	ActorEmail     string          `json:"actor_email,omitempty"`
	Action         Action          `json:"action"`
	Resource       string          `json:"resource"`
	ResourceID     string          `json:"resource_id,omitempty"`
	TenantID       string          `json:"tenant_id"`
	Before         json.RawMessage `json:"before,omitempty"`
	After          json.RawMessage `json:"after,omitempty"`
	RequestID      string          `json:"request_id,omitempty"`
}

// Validate checks the entry for required fields. An entry on an
// authenticated route is never written without an actor.
func (e *Entry) Validate() error {
	if !e.Action.Valid() {
		return fmt.Errorf("%w: invalid action %q", ErrEntryValidation, e.Action)
	}
	if e.Resource == "" {
		return fmt.Errorf("%w: resource is required", ErrEntryValidation)
	}
	if e.ActorSubjectID == "" {
		return fmt.Errorf("%w: actor is required", ErrEntryValidation)
	}
	return nil
}
