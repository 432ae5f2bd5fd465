package authn

import (
	"fmt"
	"strings"
	"time"
)

// ProviderNone disables the security pipeline entirely. Intended for local
// development only; requests reach handlers with no principal attached.
const ProviderNone = "none"

// Provider describes one external identity provider. Loaded at startup,
// immutable thereafter; there is no runtime provider switching.
type Provider struct {
	// Name identifies the provider in configuration and on Principals.
	Name string `env:"AUTH_PROVIDER_NAME"`

	// JWKSURL is the HTTPS endpoint publishing the provider's public keys.
	JWKSURL string `env:"AUTH_JWKS_URL"`

	// Issuer is the expected "iss" claim of tokens from this provider.
	Issuer string `env:"AUTH_ISSUER"`

	// Audience, when set, is required to appear in the token's "aud" claim.
	Audience string `env:"AUTH_AUDIENCE"`

	// Algorithms is the closed allowlist of accepted signing algorithms.
	// Only asymmetric families are valid; symmetric algorithms are rejected
	// at validation time to rule out key-confusion attacks.
	Algorithms []string `env:"AUTH_ALGORITHMS" envSeparator:"," envDefault:"RS256,ES256"`

	// KeyCacheTTL is how long fetched key sets stay fresh.
	KeyCacheTTL time.Duration `env:"AUTH_KEY_CACHE_TTL" envDefault:"1h"`

	// TenantClaim names the token claim carrying the tenant hint when the
	// claim-based resolver is used.
	TenantClaim string `env:"AUTH_TENANT_CLAIM" envDefault:"org_id"`
}

// asymmetricPrefixes lists the accepted algorithm families: RSA PKCS#1,
// RSA-PSS, and ECDSA.
var asymmetricPrefixes = []string{"RS", "PS", "ES"}

// Validate checks the provider configuration for logical correctness.
// Symmetric algorithms (HS*) and "none" are rejected here, at startup,
// so a misconfigured allowlist can never reach token validation.
func (p Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: provider name must not be empty", ErrInvalidProviderConfig)
	}
	if p.JWKSURL == "" {
		return fmt.Errorf("%w: JWKS URL must not be empty", ErrInvalidProviderConfig)
	}
	if p.Issuer == "" {
		return fmt.Errorf("%w: issuer must not be empty", ErrInvalidProviderConfig)
	}
	if len(p.Algorithms) == 0 {
		return fmt.Errorf("%w: algorithm allowlist must not be empty", ErrInvalidProviderConfig)
	}
	if p.KeyCacheTTL < 0 {
		return fmt.Errorf("%w: key cache TTL must be non-negative", ErrInvalidProviderConfig)
	}

	for _, alg := range p.Algorithms {
		if !isAsymmetric(alg) {
			return fmt.Errorf("%w: algorithm %q is not an accepted asymmetric algorithm", ErrInvalidProviderConfig, alg)
		}
	}
	return nil
}

func isAsymmetric(alg string) bool {
	upper := strings.ToUpper(alg)
	for _, prefix := range asymmetricPrefixes {
		if strings.HasPrefix(upper, prefix) && len(upper) > len(prefix) {
			return true
		}
	}
	return false
}
