package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Mode selects how an entry is written.
type Mode string

const (
	// ModeInline writes the entry synchronously as part of the request's
	// unit of work; a write failure must abort the guarded mutation. Used
	// for actions where losing the audit record is unacceptable.
	ModeInline Mode = "inline"

	// ModeBestEffort dispatches the write without blocking the response;
	// failures are logged and never surfaced to the caller. Used for
	// high-volume actions where audit completeness is best-effort.
	ModeBestEffort Mode = "best_effort"
)

// ActorExtractor pulls the acting identity from the request context.
type ActorExtractor func(ctx context.Context) (subjectID, email string, ok bool)

// StringExtractor pulls a single string value from the request context.
type StringExtractor func(ctx context.Context) (string, bool)

// Option configures the recorder.
type Option func(*Recorder)

// WithLogger sets the logger receiving best-effort failure reports.
func WithLogger(log *slog.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// WithDispatcherOptions tunes the best-effort write path.
func WithDispatcherOptions(opts DispatcherOptions) Option {
	return func(r *Recorder) { r.dispatcherOpts = opts }
}

// WithActorExtractor fills the actor fields from context when the entry
// does not set them explicitly.
func WithActorExtractor(fn ActorExtractor) Option {
	return func(r *Recorder) { r.actorExtractor = fn }
}

// WithTenantIDExtractor fills the tenant id from context.
func WithTenantIDExtractor(fn StringExtractor) Option {
	return func(r *Recorder) { r.tenantIDExtractor = fn }
}

// WithRequestIDExtractor fills the request id from context.
func WithRequestIDExtractor(fn StringExtractor) Option {
	return func(r *Recorder) { r.requestIDExtractor = fn }
}

// Recorder persists audit entries in one of two modes. It is safe for
// concurrent use. Create at startup, Close at shutdown to drain the
// best-effort queue.
type Recorder struct {
	storage            Storage
	log                *slog.Logger
	dispatcher         *dispatcher
	dispatcherOpts     DispatcherOptions
	actorExtractor     ActorExtractor
	tenantIDExtractor  StringExtractor
	requestIDExtractor StringExtractor
}

// NewRecorder creates a recorder writing to the given storage.
func NewRecorder(storage Storage, opts ...Option) *Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	r := &Recorder{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.dispatcher = newDispatcher(storage, r.log, r.dispatcherOpts)
	return r
}

// Record writes the entry in the requested mode. Missing id, timestamp,
// actor, tenant, and request id fields are filled from context extractors
// before validation.
//
// In ModeInline any failure is returned as ErrAuditWriteFailed and the
// caller must treat its mutation as failed. In ModeBestEffort the call
// never returns a write error: failures are logged and swallowed, and the
// originating request's response is unaffected.
//
// Recording after Close returns ErrRecorderClosed in either mode.
func (r *Recorder) Record(ctx context.Context, entry Entry, mode Mode) error {
	if r.dispatcher.isClosed() {
		return ErrRecorderClosed
	}

	r.fill(ctx, &entry)

	if err := entry.Validate(); err != nil {
		if mode == ModeBestEffort {
			r.log.Error("dropping invalid audit entry", slog.Any("error", err))
			return nil
		}
		return errors.Join(ErrAuditWriteFailed, err)
	}

	switch mode {
	case ModeBestEffort:
		if !r.dispatcher.enqueue(entry) {
			r.log.Warn("audit buffer full, entry dropped",
				slog.String("action", string(entry.Action)),
				slog.String("resource", entry.Resource),
			)
		}
		return nil

	default:
		if err := r.storage.Store(ctx, entry); err != nil {
			return errors.Join(ErrAuditWriteFailed, err)
		}
		return nil
	}
}

// RecordTx writes the entry through the caller's storage (typically a
// PGStorage wrapping the business transaction) so the audit write commits
// or aborts together with the mutation it records.
func (r *Recorder) RecordTx(ctx context.Context, txStorage Storage, entry Entry) error {
	r.fill(ctx, &entry)

	if err := entry.Validate(); err != nil {
		return errors.Join(ErrAuditWriteFailed, err)
	}
	if err := txStorage.Store(ctx, entry); err != nil {
		return errors.Join(ErrAuditWriteFailed, err)
	}
	return nil
}

// Close drains the best-effort queue, bounded by the context.
func (r *Recorder) Close(ctx context.Context) error {
	return r.dispatcher.close(ctx)
}

func (r *Recorder) fill(ctx context.Context, entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.ActorSubjectID == "" && r.actorExtractor != nil {
		if subject, email, ok := r.actorExtractor(ctx); ok {
			entry.ActorSubjectID = subject
			entry.ActorEmail = email
		}
	}
	if entry.TenantID == "" && r.tenantIDExtractor != nil {
		if id, ok := r.tenantIDExtractor(ctx); ok {
			entry.TenantID = id
		}
	}
	if entry.RequestID == "" && r.requestIDExtractor != nil {
		if id, ok := r.requestIDExtractor(ctx); ok {
			entry.RequestID = id
		}
	}
}
