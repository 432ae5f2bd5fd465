package rbac

// Authorize decides whether the actor's role satisfies the declared minimum
// role for an operation. Pure function: no I/O, no side effects. Routes
// declare their requirement; this engine carries no route knowledge.
func Authorize(actual, required Role) error {
	if !actual.Valid() || !required.Valid() {
		return ErrUnknownRole
	}
	if !actual.Meets(required) {
		return ErrInsufficientRole
	}
	return nil
}
