package rbac

import "errors"

var (
	// ErrInsufficientRole is returned when the actor's role does not meet
	// the operation's declared minimum role.
	ErrInsufficientRole = errors.New("rbac: insufficient role")

	// ErrUnknownRole is returned for a role outside the closed set.
	ErrUnknownRole = errors.New("rbac: unknown role")
)
