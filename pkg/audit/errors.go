package audit

import "errors"

var (
	// ErrAuditWriteFailed indicates an inline audit write could not be
	// completed. The caller must abort its unit of work; losing the audit
	// record for the guarded action is not acceptable.
	ErrAuditWriteFailed = errors.New("audit: write failed")

	// ErrEntryValidation indicates the entry is missing required fields.
	ErrEntryValidation = errors.New("audit: entry validation failed")

	// ErrRecorderClosed indicates the recorder has been shut down.
	ErrRecorderClosed = errors.New("audit: recorder is closed")
)
