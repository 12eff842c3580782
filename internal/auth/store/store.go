package store

import (
	"context"
	"errors"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
)

// ErrNotFound is returned when a key is absent. Absence is a normal outcome
// for most lookups here (consumed codes, expired tokens, unknown clients).
var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface for the authorization server's
// short-lived grant artifacts. Concrete drivers (memory, sqlite) implement
// it. Sub-repositories keep the five artifact kinds from bleeding into one
// another.
//
// Every operation on a single key is atomic with respect to concurrent
// operations on the same key. In particular the Take* methods perform
// get-and-delete as one step so a racing request can never redeem the same
// code, state or consent twice.
type Store interface {
	Clients() Clients
	AuthorizationStates() AuthorizationStates
	PendingConsents() PendingConsents
	AuthorizationCodes() AuthorizationCodes
	AccessTokens() AccessTokens
	Users() Users

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

type Clients interface {
	// PutClient stores a client keyed by its id. Re-registering an id
	// overwrites the previous record; there is no uniqueness enforcement
	// beyond that.
	PutClient(ctx context.Context, c domain.Client) error

	// GetClient returns the stored record or ErrNotFound.
	GetClient(ctx context.Context, clientID string) (domain.Client, error)
}

type AuthorizationStates interface {
	// PutAuthorizationState stores the state record keyed by its state token.
	PutAuthorizationState(ctx context.Context, s domain.AuthorizationState) error

	// GetAuthorizationState reads without consuming; a state may be read many
	// times before code issuance (retried logins, denied consents).
	GetAuthorizationState(ctx context.Context, state string) (domain.AuthorizationState, error)

	// TakeAuthorizationState atomically reads and deletes the state record.
	// Used exactly once per attempt, at code issuance.
	TakeAuthorizationState(ctx context.Context, state string) (domain.AuthorizationState, error)
}

type PendingConsents interface {
	// PutPendingConsent stores a consent record keyed by its consent token.
	PutPendingConsent(ctx context.Context, c domain.PendingConsent) error

	// GetPendingConsent reads without consuming (renders the consent page).
	GetPendingConsent(ctx context.Context, token string) (domain.PendingConsent, error)

	// TakePendingConsent atomically reads and deletes; both approve and deny
	// are terminal for the consent token.
	TakePendingConsent(ctx context.Context, token string) (domain.PendingConsent, error)
}

type AuthorizationCodes interface {
	// PutAuthorizationCode stores a freshly minted code.
	PutAuthorizationCode(ctx context.Context, c domain.AuthorizationCode) error

	// GetAuthorizationCode reads without consuming (the router's
	// load_authorization_code hook).
	GetAuthorizationCode(ctx context.Context, code string) (domain.AuthorizationCode, error)

	// TakeAuthorizationCode atomically reads and deletes the code when it is
	// redeemed. ErrNotFound covers unknown and already-consumed codes alike.
	TakeAuthorizationCode(ctx context.Context, code string) (domain.AuthorizationCode, error)
}

type AccessTokens interface {
	// PutAccessToken stores a minted bearer token keyed by the token string.
	PutAccessToken(ctx context.Context, t domain.AccessToken) error

	// GetValidAccessToken returns the token if present and unexpired at now.
	// A token whose expiry is at or before now is deleted in the same step
	// and reported as ErrNotFound (lazy expiry; there is no background sweep).
	GetValidAccessToken(ctx context.Context, token string, now time.Time) (domain.AccessToken, error)

	// DeleteAccessToken removes a token. Deleting an absent token is a no-op.
	DeleteAccessToken(ctx context.Context, token string) error
}

type Users interface {
	// PutUserRecord stores an audit record keyed by username or token.
	PutUserRecord(ctx context.Context, u domain.UserRecord) error

	// GetUserRecord returns the stored record or ErrNotFound.
	GetUserRecord(ctx context.Context, key string) (domain.UserRecord, error)
}
