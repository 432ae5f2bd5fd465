// Package authn resolves inbound bearer tokens into authenticated
// Principals using a provider's published JWKS keys.
//
// A Resolver is bound to exactly one Provider configuration, fixed at
// startup. Validation runs in a strict order: token structure, declared
// algorithm against the provider allowlist (before any cryptographic work,
// closing the algorithm-substitution hole), key id lookup through the jwks
// cache, signature, issuer, audience, expiry. Each step fails with its own
// sentinel error; callers surface them all as one coarse unauthorized
// category.
//
// Only asymmetric algorithm families (RS*, PS*, ES*) pass provider
// validation. Symmetric algorithms are rejected at startup so a public key
// can never be confused for an HMAC secret.
package authn
