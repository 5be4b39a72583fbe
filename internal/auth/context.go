package auth

import "context"

type claimsKey struct{}

// WithClaims attaches verified token claims to ctx, for handlers downstream
// of the gateway's bearer-auth middleware.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims attached by WithClaims, or nil when
// the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}
