package authn

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/gatekit/pkg/jwks"
)

// maxTokenSize is the maximum accepted token length (8 KB). Larger tokens
// are rejected before parsing to prevent resource exhaustion.
const maxTokenSize = 8192

// KeySource supplies public signing keys by provider and key id. The jwks
// Cache satisfies it.
type KeySource interface {
	Key(ctx context.Context, provider, kid string) (crypto.PublicKey, error)
}

// Resolver validates bearer tokens for one provider and produces Principals.
// It performs no network I/O itself; key fetches happen inside the KeySource.
//
// Resolver is safe for concurrent use.
type Resolver struct {
	provider Provider
	keys     KeySource
	allowed  map[string]struct{}
	parser   *jwt.Parser
}

// NewResolver creates a resolver for the given provider. The provider
// configuration is validated here so a symmetric or empty allowlist can
// never reach request handling.
func NewResolver(provider Provider, keys KeySource) (*Resolver, error) {
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: key source must not be nil", ErrInvalidProviderConfig)
	}

	allowed := make(map[string]struct{}, len(provider.Algorithms))
	for _, alg := range provider.Algorithms {
		allowed[alg] = struct{}{}
	}

	return &Resolver{
		provider: provider,
		keys:     keys,
		allowed:  allowed,
		// Temporal and issuer/audience claims are validated manually below
		// so each failure maps to its own sentinel in a fixed order.
		parser: jwt.NewParser(
			jwt.WithValidMethods(provider.Algorithms),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Provider returns the immutable provider configuration.
func (r *Resolver) Provider() Provider { return r.provider }

// Resolve validates the raw bearer token and returns the Principal it
// represents. Checks run in a fixed order: structure, declared algorithm
// against the allowlist (before any cryptography), key lookup, signature,
// issuer, audience, expiry.
func (r *Resolver) Resolve(ctx context.Context, rawToken string) (*Principal, error) {
	if rawToken == "" || len(rawToken) > maxTokenSize {
		return nil, ErrMalformedToken
	}

	// Inspect the header without verifying anything yet.
	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil || unverified == nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}

	alg, _ := unverified.Header["alg"].(string)
	if _, ok := r.allowed[alg]; !ok {
		// Rejected before any signature work. Catches alg=none and
		// symmetric substitution attempts in one place.
		return nil, fmt.Errorf("%w: %q", ErrAlgorithmNotAllowed, alg)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("%w: token header missing kid", ErrUnknownKey)
	}

	key, err := r.keys.Key(ctx, r.provider.Name, kid)
	if err != nil {
		if errors.Is(err, jwks.ErrKeyNotFound) {
			return nil, errors.Join(ErrUnknownKey, err)
		}
		// Key-fetch failures with no cached fallback; not an auth error.
		return nil, fmt.Errorf("authn: key lookup for provider %q: %w", r.provider.Name, err)
	}

	token, err := r.parser.Parse(rawToken, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.Join(ErrMalformedToken, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.Join(ErrInvalidSignature, err)
		default:
			return nil, errors.Join(ErrInvalidSignature, err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	if err := r.validateClaims(claims); err != nil {
		return nil, err
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}
	email, _ := claims["email"].(string)

	raw := make(map[string]any, len(claims))
	for k, v := range claims {
		raw[k] = v
	}

	return &Principal{
		SubjectID: sub,
		Email:     email,
		Claims:    raw,
		IssuedBy:  r.provider.Name,
	}, nil
}

// validateClaims checks issuer, audience (when configured), and expiry, in
// that order, against the provider configuration. No leeway is applied: a
// token expired one second ago is expired.
func (r *Resolver) validateClaims(claims jwt.MapClaims) error {
	iss, err := claims.GetIssuer()
	if err != nil || iss != r.provider.Issuer {
		return ErrIssuerMismatch
	}

	if r.provider.Audience != "" {
		aud, err := claims.GetAudience()
		if err != nil {
			return ErrAudienceMismatch
		}
		found := false
		for _, a := range aud {
			if a == r.provider.Audience {
				found = true
				break
			}
		}
		if !found {
			return ErrAudienceMismatch
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("%w: missing exp claim", ErrTokenExpired)
	}
	if !exp.After(time.Now()) {
		return ErrTokenExpired
	}

	return nil
}
