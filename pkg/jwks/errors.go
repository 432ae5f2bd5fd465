package jwks

import "errors"

var (
	// ErrNetwork indicates the JWKS endpoint could not be reached, timed out,
	// or answered with a non-200 status.
	ErrNetwork = errors.New("jwks: network error fetching key set")

	// ErrMalformedResponse indicates the endpoint responded with a body that
	// is not a valid JWKS document.
	ErrMalformedResponse = errors.New("jwks: malformed key set response")

	// ErrNoKeysReturned indicates the endpoint responded with a well-formed
	// document containing no usable keys.
	ErrNoKeysReturned = errors.New("jwks: no usable keys returned")

	// ErrUnknownProvider is returned for a provider name the cache was not
	// configured with.
	ErrUnknownProvider = errors.New("jwks: unknown provider")

	// ErrKeyNotFound is returned when the requested key id is absent even
	// after a forced refresh.
	ErrKeyNotFound = errors.New("jwks: key id not found in provider key set")

	// ErrClosed is returned after the cache has been shut down.
	ErrClosed = errors.New("jwks: cache is closed")
)
