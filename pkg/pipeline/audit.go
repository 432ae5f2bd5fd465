package pipeline

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/gatekit/pkg/audit"
	"github.com/dmitrymomot/gatekit/pkg/authn"
	"github.com/dmitrymomot/gatekit/pkg/requestid"
	"github.com/dmitrymomot/gatekit/pkg/tenant"
)

// Recorder persists audit entries. The audit Recorder satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry audit.Entry, mode audit.Mode) error
}

// AuditOption configures a single Audit middleware instance.
type AuditOption func(*auditConfig)

type auditConfig struct {
	resourceIDParam string
}

// WithResourceIDParam reads the audited resource id from a chi URL
// parameter.
func WithResourceIDParam(param string) AuditOption {
	return func(c *auditConfig) { c.resourceIDParam = param }
}

// Audit records an entry after the wrapped handler completes. Register it
// innermost, after RequireRole, so denied requests never produce entries.
// Entries are recorded only for 2xx outcomes; the mode comes from the
// pipeline config, with deletes always written inline before the response
// is released.
func (p *Pipeline) Audit(action audit.Action, resource string, opts ...AuditOption) func(http.Handler) http.Handler {
	cfg := auditConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		if p.Disabled() || p.recorder == nil {
			return next
		}

		mode := p.cfg.ModeFor(action)
		if mode == audit.ModeInline {
			return p.auditInline(next, action, resource, cfg)
		}
		return p.auditBestEffort(next, action, resource, cfg)
	}
}

// auditInline buffers the handler's response so the entry can be written
// before any byte reaches the client. A failed write discards the buffered
// response and the request fails.
func (p *Pipeline) auditInline(next http.Handler, action audit.Action, resource string, cfg auditConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := newBufferedWriter(w)
		next.ServeHTTP(bw, r)

		if bw.Status() >= 200 && bw.Status() < 300 {
			entry := p.buildEntry(r, action, resource, cfg)
			if err := p.recorder.Record(r.Context(), entry, audit.ModeInline); err != nil {
				p.fail(w, r, err)
				return
			}
		}

		bw.Release()
	})
}

func (p *Pipeline) auditBestEffort(next http.Handler, action audit.Action, resource string, cfg auditConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		if sw.Status() >= 200 && sw.Status() < 300 {
			entry := p.buildEntry(r, action, resource, cfg)
			// Best-effort recording never returns an error.
			_ = p.recorder.Record(r.Context(), entry, audit.ModeBestEffort)
		}
	})
}

// buildEntry assembles the entry from the request context. The earlier
// stages guarantee a principal (and, with isolation on, a tenant context)
// by the time the handler has run, so entries are complete without any
// recorder-side extractors.
func (p *Pipeline) buildEntry(r *http.Request, action audit.Action, resource string, cfg auditConfig) audit.Entry {
	entry := audit.Entry{
		Action:   action,
		Resource: resource,
	}
	if cfg.resourceIDParam != "" {
		entry.ResourceID = chi.URLParam(r, cfg.resourceIDParam)
	}

	ctx := r.Context()
	if principal, ok := authn.PrincipalFromContext(ctx); ok {
		entry.ActorSubjectID = principal.SubjectID
		entry.ActorEmail = principal.Email
	}
	if id, ok := tenant.IDFromContext(ctx); ok {
		entry.TenantID = id.String()
	}
	entry.RequestID = requestid.FromContext(ctx)

	return entry
}

// bufferedWriter holds back the response until the inline audit write
// succeeds.
type bufferedWriter struct {
	rw     http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func newBufferedWriter(rw http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{rw: rw}
}

func (w *bufferedWriter) Header() http.Header { return w.rw.Header() }

func (w *bufferedWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.buf.Write(b)
}

func (w *bufferedWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Release flushes the buffered response to the underlying writer.
func (w *bufferedWriter) Release() {
	w.rw.WriteHeader(w.Status())
	if w.buf.Len() > 0 {
		_, _ = w.rw.Write(w.buf.Bytes())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
