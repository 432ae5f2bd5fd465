package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/gatekit/pkg/authn"
	"github.com/dmitrymomot/gatekit/pkg/rbac"
	"github.com/dmitrymomot/gatekit/pkg/tenant"
)

// TokenResolver validates a raw bearer token into a Principal. The authn
// Resolver satisfies it.
type TokenResolver interface {
	Resolve(ctx context.Context, rawToken string) (*authn.Principal, error)
}

// TenantResolver builds a tenant Context from a principal and a hint. The
// tenant ContextResolver satisfies it.
type TenantResolver interface {
	Resolve(ctx context.Context, principal *authn.Principal, hint string) (*tenant.Context, error)
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithErrorHandler overrides the failure renderer.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.errorHandler = h
		}
	}
}

// WithSkipPaths exempts path prefixes (health endpoints, JWKS publishing)
// from every stage.
func WithSkipPaths(paths ...string) Option {
	return func(p *Pipeline) { p.skipPaths = append(p.skipPaths, paths...) }
}

// WithLogger sets the pipeline's logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// Pipeline composes the security stages applied to every request before it
// reaches business logic: authentication, tenant resolution, role
// authorization, and post-handler audit recording. Stages short-circuit on
// the first failure; the handler never runs for a denied request.
type Pipeline struct {
	cfg          Config
	tokens       TokenResolver
	tenants      TenantResolver
	hints        tenant.HintResolver
	recorder     Recorder
	errorHandler ErrorHandler
	skipPaths    []string
	log          *slog.Logger
}

// New builds a pipeline. With cfg.Provider set to authn.ProviderNone the
// tokens resolver may be nil and every stage becomes a pass-through.
func New(cfg Config, tokens TokenResolver, tenants TenantResolver, hints tenant.HintResolver, recorder Recorder, opts ...Option) *Pipeline {
	if cfg.Provider != authn.ProviderNone && tokens == nil {
		panic("pipeline: token resolver is required unless the provider is none")
	}

	p := &Pipeline{
		cfg:          cfg,
		tokens:       tokens,
		tenants:      tenants,
		hints:        hints,
		recorder:     recorder,
		errorHandler: defaultErrorHandler,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Disabled reports whether the whole pipeline is switched off.
func (p *Pipeline) Disabled() bool {
	return p.cfg.Provider == authn.ProviderNone
}

func (p *Pipeline) skip(r *http.Request) bool {
	for _, prefix := range p.skipPaths {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// Authenticate resolves the bearer token into a Principal and attaches it
// to the request context. A missing Authorization header fails with
// MissingCredential; all authentication failures render as one coarse
// unauthorized response.
func (p *Pipeline) Authenticate(next http.Handler) http.Handler {
	if p.Disabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		rawToken, err := authn.BearerToken(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		principal, err := p.tokens.Resolve(r.Context(), rawToken)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(authn.WithPrincipal(r.Context(), principal)))
	})
}

// ResolveTenant resolves the request's tenant hint against the
// authenticated principal's memberships and attaches the immutable tenant
// Context. Must be registered after Authenticate; a request without a
// principal is rejected outright.
func (p *Pipeline) ResolveTenant(next http.Handler) http.Handler {
	if p.Disabled() || !p.cfg.TenantIsolation {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := authn.PrincipalFromContext(r.Context())
		if !ok {
			p.fail(w, r, authn.ErrMissingCredential)
			return
		}

		hint := ""
		if p.hints != nil {
			var err error
			hint, err = p.hints.Resolve(r)
			if err != nil {
				p.fail(w, r, err)
				return
			}
		}

		tc, err := p.tenants.Resolve(r.Context(), principal, hint)
		if err != nil {
			p.fail(w, r, err)
			return
		}

		ctx := tenant.WithContext(r.Context(), tc)
		ctx = rbac.WithRole(ctx, tc.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a route with a declared minimum role. The comparison
// is the fixed total order OWNER > ADMIN > MEMBER; the route declares the
// requirement, the engine knows nothing about routes.
func (p *Pipeline) RequireRole(required rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if p.Disabled() || !p.cfg.TenantIsolation {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			tc, ok := tenant.FromContext(r.Context())
			if !ok {
				p.fail(w, r, tenant.ErrNotAMember)
				return
			}

			if err := rbac.Authorize(tc.Role, required); err != nil {
				p.fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (p *Pipeline) fail(w http.ResponseWriter, r *http.Request, err error) {
	p.log.WarnContext(r.Context(), "request denied by security pipeline",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	p.errorHandler(w, r, err)
}
