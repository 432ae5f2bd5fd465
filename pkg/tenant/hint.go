package tenant

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/gatekit/pkg/authn"
)

// HintResolver extracts the tenant hint from an HTTP request. An empty
// string with a nil error means the request carried no hint; whether that
// is fatal is the context resolver's call.
type HintResolver interface {
	Resolve(r *http.Request) (string, error)
}

// HintResolverFunc adapts a function to the HintResolver interface.
type HintResolverFunc func(r *http.Request) (string, error)

func (f HintResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// HeaderResolver reads the tenant hint from an HTTP header.
type HeaderResolver struct {
	// HeaderName is the header to read, defaulting to "X-Tenant-ID".
	HeaderName string
}

func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = "X-Tenant-ID"
	}
	return &HeaderResolver{HeaderName: headerName}
}

func (h *HeaderResolver) Resolve(r *http.Request) (string, error) {
	return r.Header.Get(h.HeaderName), nil
}

// PathResolver reads the tenant hint from a chi route parameter, e.g. the
// {org} segment of /orgs/{org}/members.
type PathResolver struct {
	Param string
}

func NewPathResolver(param string) *PathResolver {
	if param == "" {
		param = "org"
	}
	return &PathResolver{Param: param}
}

func (p *PathResolver) Resolve(r *http.Request) (string, error) {
	return chi.URLParam(r, p.Param), nil
}

// ClaimResolver reads the tenant hint from a claim on the authenticated
// principal. It never reads unverified input: the principal must already be
// in the request context, which the pipeline guarantees by running
// authentication first.
type ClaimResolver struct {
	Claim string
}

func NewClaimResolver(claim string) *ClaimResolver {
	if claim == "" {
		claim = "org_id"
	}
	return &ClaimResolver{Claim: claim}
}

func (c *ClaimResolver) Resolve(r *http.Request) (string, error) {
	p, ok := authn.PrincipalFromContext(r.Context())
	if !ok {
		return "", nil
	}
	return p.StringClaim(c.Claim), nil
}

// CompositeResolver tries resolvers in order, returning the first non-empty
// hint.
type CompositeResolver struct {
	Resolvers []HintResolver
}

func NewCompositeResolver(resolvers ...HintResolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	var errs []error
	for _, resolver := range c.Resolvers {
		hint, err := resolver.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if hint != "" {
			return hint, nil
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}
