package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestClientsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Clients().GetClient(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	c := domain.Client{
		ID:           "client-1",
		Name:         "Example App",
		RedirectURIs: []string{"https://app.example/cb", "https://app.example/alt"},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Clients().PutClient(ctx, c))

	got, err := s.Clients().GetClient(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, c.Name, got.Name)
	require.Equal(t, c.RedirectURIs, got.RedirectURIs)
	require.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Second)

	t.Run("put overwrites", func(t *testing.T) {
		c.Name = "Renamed App"
		require.NoError(t, s.Clients().PutClient(ctx, c))

		got, err := s.Clients().GetClient(ctx, "client-1")
		require.NoError(t, err)
		require.Equal(t, "Renamed App", got.Name)
	})
}

func TestAuthorizationStateTake(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st := domain.AuthorizationState{
		State:                         "state-abc",
		ClientID:                      "client-1",
		RedirectURI:                   "https://app.example/cb",
		CodeChallenge:                 "challenge",
		RedirectURIProvidedExplicitly: true,
		CreatedAt:                     time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.AuthorizationStates().PutAuthorizationState(ctx, st))

	got, err := s.AuthorizationStates().GetAuthorizationState(ctx, st.State)
	require.NoError(t, err)
	require.Equal(t, st.ClientID, got.ClientID)
	require.True(t, got.RedirectURIProvidedExplicitly)

	t.Run("put overwrites on state reuse", func(t *testing.T) {
		// State tokens are caller-supplied, so a repeated authorization
		// request with the same state replaces the parked one.
		st.CodeChallenge = "challenge-2"
		require.NoError(t, s.AuthorizationStates().PutAuthorizationState(ctx, st))

		got, err := s.AuthorizationStates().GetAuthorizationState(ctx, st.State)
		require.NoError(t, err)
		require.Equal(t, "challenge-2", got.CodeChallenge)
	})

	got, err = s.AuthorizationStates().TakeAuthorizationState(ctx, st.State)
	require.NoError(t, err)
	require.Equal(t, st.CodeChallenge, got.CodeChallenge)

	_, err = s.AuthorizationStates().TakeAuthorizationState(ctx, st.State)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPendingConsentTake(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pc := domain.PendingConsent{
		Token:           "consent_deadbeef",
		Username:        "fps",
		State:           "state-abc",
		ClientName:      "Example App",
		AuthenticatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.PendingConsents().PutPendingConsent(ctx, pc))

	got, err := s.PendingConsents().TakePendingConsent(ctx, pc.Token)
	require.NoError(t, err)
	require.Equal(t, pc.Username, got.Username)
	require.Equal(t, pc.State, got.State)

	_, err = s.PendingConsents().TakePendingConsent(ctx, pc.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAuthorizationCodeTake(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	code := domain.AuthorizationCode{
		Code:                          "code_cafebabe",
		ClientID:                      "client-1",
		RedirectURI:                   "https://app.example/cb",
		RedirectURIProvidedExplicitly: true,
		Scopes:                        []string{"user", "admin"},
		CodeChallenge:                 "challenge",
		Resource:                      "https://api.example/",
		ExpiresAt:                     now.Add(5 * time.Minute),
		CreatedAt:                     now,
	}
	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, code))

	got, err := s.AuthorizationCodes().GetAuthorizationCode(ctx, code.Code)
	require.NoError(t, err)
	require.Equal(t, code.Scopes, got.Scopes)
	require.Equal(t, code.Resource, got.Resource)

	got, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, code.Code)
	require.NoError(t, err)
	require.WithinDuration(t, code.ExpiresAt, got.ExpiresAt, time.Second)

	_, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, code.Code)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.AuthorizationCodes().GetAuthorizationCode(ctx, code.Code)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccessTokenLazyExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	tok := domain.AccessToken{
		Token:     "token_feedface",
		ClientID:  "client-1",
		Scopes:    []string{"user"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, s.AccessTokens().PutAccessToken(ctx, tok))

	got, err := s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now.Add(time.Hour-time.Second))
	require.NoError(t, err)
	require.Equal(t, tok.Scopes, got.Scopes)

	_, err = s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrNotFound)

	// Expired rows are deleted on read, not merely filtered.
	_, err = s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.AccessTokens().DeleteAccessToken(ctx, tok.Token))
}

func TestUserRecordUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := domain.UserRecord{
		Key:             "fps",
		Username:        "fps",
		UserID:          "01J0000000000000000000000",
		AuthenticatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Users().PutUserRecord(ctx, u))
	require.NoError(t, s.Users().PutUserRecord(ctx, u))

	got, err := s.Users().GetUserRecord(ctx, "fps")
	require.NoError(t, err)
	require.Equal(t, u.UserID, got.UserID)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}
