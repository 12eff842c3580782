package domain

import "time"

// AccessToken is the opaque bearer credential stored server-side and keyed by
// the token string itself. Expired tokens are deleted lazily on first read,
// not by a background sweep.
type AccessToken struct {
	Token    string
	ClientID string
	Scopes   []string

	// Resource is the RFC 8707 audience the token is scoped to, empty when absent.
	Resource string

	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token's validity window has passed at now.
// A token expiring exactly at now is already expired.
func (t AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// RefreshToken is the shape a refresh grant would store. The server does not
// issue refresh tokens, so no record of this type is ever written; the type
// exists so the token surface is complete for callers that probe it.
type RefreshToken struct {
	Token    string
	ClientID string
	Scopes   []string

	CreatedAt time.Time
}

// TokenGrant is what the token endpoint returns after a successful code
// exchange.
type TokenGrant struct {
	AccessToken string
	TokenType   string // always "Bearer"
	ExpiresIn   time.Duration
	Scopes      []string
}
