package authn

import "errors"

// Authentication failures are always terminal for the request. The pipeline
// surfaces all of them as a single unauthorized category; the distinct
// sentinels exist for logs and tests, never for response bodies.
var (
	// ErrMissingCredential indicates the request carried no Authorization
	// header. Raised by the pipeline, not the resolver.
	ErrMissingCredential = errors.New("authn: missing credential")

	// ErrMalformedToken indicates the bearer token could not be parsed.
	ErrMalformedToken = errors.New("authn: malformed token")

	// ErrAlgorithmNotAllowed indicates the token declared a signing
	// algorithm outside the provider's allowlist. Checked before any
	// cryptographic verification.
	ErrAlgorithmNotAllowed = errors.New("authn: signing algorithm not allowed")

	// ErrUnknownKey indicates the token's key id is not present in the
	// provider's key set.
	ErrUnknownKey = errors.New("authn: unknown signing key")

	// ErrInvalidSignature indicates signature verification failed.
	ErrInvalidSignature = errors.New("authn: invalid token signature")

	// ErrIssuerMismatch indicates the token's issuer claim does not match
	// the provider's configured issuer.
	ErrIssuerMismatch = errors.New("authn: token issuer mismatch")

	// ErrAudienceMismatch indicates the token's audience claim does not
	// include the provider's configured audience.
	ErrAudienceMismatch = errors.New("authn: token audience mismatch")

	// ErrTokenExpired indicates the token is outside its validity window.
	ErrTokenExpired = errors.New("authn: token expired")

	// ErrInvalidProviderConfig indicates the provider configuration failed
	// validation at startup.
	ErrInvalidProviderConfig = errors.New("authn: invalid provider config")
)

// IsAuthError reports whether err belongs to the authentication failure
// taxonomy. The pipeline uses it to map failures to a coarse unauthorized
// response without leaking the specific cause.
func IsAuthError(err error) bool {
	for _, sentinel := range []error{
		ErrMissingCredential,
		ErrMalformedToken,
		ErrAlgorithmNotAllowed,
		ErrUnknownKey,
		ErrInvalidSignature,
		ErrIssuerMismatch,
		ErrAudienceMismatch,
		ErrTokenExpired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
