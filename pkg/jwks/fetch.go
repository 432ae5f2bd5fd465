package jwks

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
)

// maxResponseSize bounds the JWKS response body (1 MB) to prevent resource
// exhaustion from a misbehaving or hostile endpoint.
const maxResponseSize = 1 << 20

// HTTPClient abstracts the HTTP client used for JWKS fetches, allowing
// callers to supply custom transports. The standard http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves a provider's key set. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (map[string]crypto.PublicKey, error)
}

// HTTPFetcher fetches JWKS documents over HTTP(S) and reconstructs RSA and
// ECDSA public keys from their JWK representation.
type HTTPFetcher struct {
	client HTTPClient
}

// NewHTTPFetcher creates a fetcher using the given client. A nil client
// falls back to http.DefaultClient; callers are expected to pass a client
// with a bounded timeout (the Cache does).
func NewHTTPFetcher(client HTTPClient) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// jwksDocument is the JSON structure of a JWKS endpoint response.
type jwksDocument struct {
	Keys []jwkEntry `json:"keys"`
}

// jwkEntry carries only the JWK fields needed for RSA and EC key
// reconstruction.
type jwkEntry struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	// RSA fields
	N string `json:"n"`
	E string `json:"e"`
	// EC fields
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// Fetch performs a GET against the JWKS URL and returns the usable keys
// keyed by kid. Individual malformed keys are skipped; an unparsable body
// is ErrMalformedResponse; an empty usable set is ErrNoKeysReturned.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (map[string]crypto.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrNetwork, fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Join(ErrNetwork, err)
	}

	var doc jwksDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Join(ErrMalformedResponse, err)
	}

	keys := make(map[string]crypto.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kid == "" {
			continue
		}
		// Keys marked for encryption are not signing keys.
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		switch k.Kty {
		case "RSA":
			pubKey, err := parseRSAPublicKey(k.N, k.E)
			if err != nil {
				continue
			}
			keys[k.Kid] = pubKey
		case "EC":
			pubKey, err := parseECPublicKey(k.Crv, k.X, k.Y)
			if err != nil {
				continue
			}
			keys[k.Kid] = pubKey
		}
	}

	if len(keys) == 0 {
		return nil, ErrNoKeysReturned
	}
	return keys, nil
}

// parseRSAPublicKey constructs an *rsa.PublicKey from base64url-encoded
// modulus (n) and exponent (e) values.
func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nBase64)
	if err != nil {
		return nil, fmt.Errorf("jwks: failed to decode RSA modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eBase64)
	if err != nil {
		return nil, fmt.Errorf("jwks: failed to decode RSA exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	if n.Sign() <= 0 || e.Sign() <= 0 {
		return nil, errors.New("jwks: invalid RSA key material")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

// parseECPublicKey constructs an *ecdsa.PublicKey from a curve name and
// base64url-encoded x and y coordinates.
func parseECPublicKey(crv, xBase64, yBase64 string) (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("jwks: unsupported EC curve %q", crv)
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(xBase64)
	if err != nil {
		return nil, fmt.Errorf("jwks: failed to decode EC x coordinate: %w", err)
	}
	yBytes, err := base64.RawURLEncoding.DecodeString(yBase64)
	if err != nil {
		return nil, fmt.Errorf("jwks: failed to decode EC y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}
