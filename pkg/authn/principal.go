package authn

import (
	"context"
	"log/slog"
	"maps"
)

// Principal is the authenticated identity derived from a validated token.
// It is created per request, never persisted, and discarded at request end.
type Principal struct {
	SubjectID string
	Email     string
	Claims    map[string]any
	IssuedBy  string
}

// Claim returns the named raw claim from the validated token.
func (p *Principal) Claim(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Claims[name]
	return v, ok
}

// StringClaim returns the named claim as a string, or "" when absent or of
// another type.
func (p *Principal) StringClaim(name string) string {
	v, ok := p.Claim(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// clone returns a copy with its own claims map so callers cannot mutate
// the original through the map reference.
func (p *Principal) clone() *Principal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Claims = maps.Clone(p.Claims)
	return &cp
}

type principalCtxKey struct{}

// WithPrincipal attaches the principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext retrieves the principal attached by the pipeline.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return p, ok && p != nil
}

// LoggerExtractor returns a logger context extractor emitting the subject id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if p, ok := PrincipalFromContext(ctx); ok {
			return slog.String("subject_id", p.SubjectID), true
		}
		return slog.Attr{}, false
	}
}
