package pipeline

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/gatekit/pkg/audit"
	"github.com/dmitrymomot/gatekit/pkg/authn"
	"github.com/dmitrymomot/gatekit/pkg/jwks"
	"github.com/dmitrymomot/gatekit/pkg/rbac"
	"github.com/dmitrymomot/gatekit/pkg/tenant"
)

// ErrorHandler renders a pipeline-stage failure. The default implementation
// maps every failure to a coarse category and never explains why a token or
// tenant check failed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// defaultErrorHandler maps failures to responses:
//
//	missing tenant hint              -> 400
//	any authentication failure       -> 401
//	not a member / insufficient role -> 403
//	key fetch with no cached keys    -> 503
//	inline audit write failure       -> 500
//
// Bodies are fixed strings; the specific cause stays in logs only, so the
// response cannot disclose whether a user or tenant exists.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrMissingTenantHint):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	case errors.Is(err, tenant.ErrNotAMember), errors.Is(err, rbac.ErrInsufficientRole):
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	case authn.IsAuthError(err):
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, jwks.ErrNetwork),
		errors.Is(err, jwks.ErrMalformedResponse),
		errors.Is(err, jwks.ErrNoKeysReturned):
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
	case errors.Is(err, audit.ErrAuditWriteFailed):
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
