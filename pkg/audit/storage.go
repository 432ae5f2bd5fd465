package audit

import "context"

// Storage persists audit entries. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Store persists a single entry.
	Store(ctx context.Context, entry Entry) error

	// StoreBatch persists a batch atomically: either all entries are
	// written or none are.
	StoreBatch(ctx context.Context, entries []Entry) error
}
