package service

import "errors"

// Service-level sentinels. HTTP handlers translate these into OAuth2 error
// responses; the services themselves never speak HTTP.
var (
	// ErrInvalidRequest covers malformed authorization requests: unknown
	// client, bad redirect_uri, missing PKCE challenge, unsupported
	// response_type.
	ErrInvalidRequest = errors.New("invalid_request")

	// ErrInvalidCredentials is returned when the login credentials do not
	// match, or when a state or consent token is unknown or already used.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidGrant is returned at the token endpoint for codes and tokens
	// that are unknown, consumed, expired or bound to a different client.
	ErrInvalidGrant = errors.New("invalid_grant")

	// ErrUnsupported marks grant types and flows this server does not
	// implement, such as refresh_token.
	ErrUnsupported = errors.New("unsupported_grant_type")
)
