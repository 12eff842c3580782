package domain

import "time"

// AuthorizationState tracks an authorization attempt between the initial
// /authorize request and code issuance. It is keyed by an opaque state token,
// re-readable while login and consent are in flight (a denied consent leaves
// it in place for retry), and consumed exactly once when a code is issued.
type AuthorizationState struct {
	State         string
	ClientID      string
	RedirectURI   string
	CodeChallenge string

	// RedirectURIProvidedExplicitly records whether the client supplied the
	// redirect_uri itself rather than relying on its registered default.
	RedirectURIProvidedExplicitly bool

	// Resource is the RFC 8707 resource indicator, empty when absent.
	Resource string

	CreatedAt time.Time
}

// PendingConsent binds an authenticated login to a consent decision that has
// not been made yet. Keyed by an opaque consent token; both approve and deny
// destroy the record.
type PendingConsent struct {
	Token           string
	Username        string
	State           string
	ClientName      string
	AuthenticatedAt time.Time
}

// AuthorizationCode is the short-lived, single-use credential exchanged for
// an access token. Keyed by the opaque code string.
type AuthorizationCode struct {
	Code     string
	ClientID string

	RedirectURI                   string
	RedirectURIProvidedExplicitly bool

	Scopes        []string
	CodeChallenge string
	Resource      string

	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code's validity window has passed at now.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
