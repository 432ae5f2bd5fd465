// Package jwks fetches and caches identity providers' JSON Web Key Sets.
//
// A Cache holds one immutable KeySet per configured provider endpoint.
// Within the configured TTL, lookups are served from memory with no network
// traffic. On expiry, exactly one refresh per provider is in flight at any
// time; concurrent callers join that refresh rather than issuing duplicate
// fetches, or are served the last-known-good set when stale-while-revalidate
// is enabled. A failed refresh never discards a previously fetched set, so
// transient provider outages degrade to stale keys instead of hard failures.
//
// KeySets are replaced wholesale on refresh and never mutated in place, so
// concurrent readers cannot observe a partially updated set.
//
// # Usage
//
//	cache := jwks.NewCache([]jwks.Endpoint{{
//		Name: "auth0",
//		URL:  "https://tenant.auth0.com/.well-known/jwks.json",
//		TTL:  time.Hour,
//	}})
//	defer cache.Close()
//
//	key, err := cache.Key(ctx, "auth0", kid)
package jwks
