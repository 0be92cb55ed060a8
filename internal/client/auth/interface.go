package auth

import "context"

//go:generate moq -out provider_mock.go . Provider

// Provider supplies the bearer token for outgoing requests.
// Token acquisition is external; the provider only hands out what was stored.
type Provider interface {
	// AuthHeader returns the full Authorization header value ("Bearer <token>").
	// Returns syncerr.ErrUnauthorized if no token is stored and
	// syncerr.ErrTokenExpired if the stored token is past its expiry.
	AuthHeader(ctx context.Context) (string, error)
}
