package jwks

import (
	"crypto"
	"time"
)

// KeySet is an immutable snapshot of a provider's public signing keys,
// keyed by key id. It is replaced wholesale on refresh, never mutated.
type KeySet struct {
	keys      map[string]crypto.PublicKey
	fetchedAt time.Time
	ttl       time.Duration
}

// NewKeySet builds a KeySet from the given keys. The map is copied so the
// caller cannot mutate the set afterwards.
func NewKeySet(keys map[string]crypto.PublicKey, fetchedAt time.Time, ttl time.Duration) *KeySet {
	copied := make(map[string]crypto.PublicKey, len(keys))
	for kid, key := range keys {
		copied[kid] = key
	}
	return &KeySet{keys: copied, fetchedAt: fetchedAt, ttl: ttl}
}

// Key returns the public key for the given key id.
func (s *KeySet) Key(kid string) (crypto.PublicKey, bool) {
	if s == nil {
		return nil, false
	}
	key, ok := s.keys[kid]
	return key, ok
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// FetchedAt returns when the set was fetched from the provider.
func (s *KeySet) FetchedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.fetchedAt
}

// Fresh reports whether the set is still within its TTL at the given time.
func (s *KeySet) Fresh(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.fetchedAt) < s.ttl
}
