package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
)

func TestClientsRoundTrip(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()

	_, err := s.Clients().GetClient(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	c := domain.Client{
		ID:           "client-1",
		Name:         "Example App",
		RedirectURIs: []string{"https://app.example/cb"},
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Clients().PutClient(ctx, c))

	got, err := s.Clients().GetClient(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestAuthorizationStateTake(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()

	st := domain.AuthorizationState{
		State:                         "state-abc",
		ClientID:                      "client-1",
		RedirectURI:                   "https://app.example/cb",
		CodeChallenge:                 "challenge",
		RedirectURIProvidedExplicitly: true,
		CreatedAt:                     time.Now().UTC(),
	}
	require.NoError(t, s.AuthorizationStates().PutAuthorizationState(ctx, st))

	t.Run("get does not consume", func(t *testing.T) {
		for range 3 {
			got, err := s.AuthorizationStates().GetAuthorizationState(ctx, "state-abc")
			require.NoError(t, err)
			require.Equal(t, st, got)
		}
	})

	t.Run("put overwrites on state reuse", func(t *testing.T) {
		st.CodeChallenge = "challenge-2"
		require.NoError(t, s.AuthorizationStates().PutAuthorizationState(ctx, st))

		got, err := s.AuthorizationStates().GetAuthorizationState(ctx, "state-abc")
		require.NoError(t, err)
		require.Equal(t, "challenge-2", got.CodeChallenge)
	})

	t.Run("take consumes once", func(t *testing.T) {
		got, err := s.AuthorizationStates().TakeAuthorizationState(ctx, "state-abc")
		require.NoError(t, err)
		require.Equal(t, st, got)

		_, err = s.AuthorizationStates().TakeAuthorizationState(ctx, "state-abc")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.AuthorizationStates().GetAuthorizationState(ctx, "state-abc")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPendingConsentTake(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()

	pc := domain.PendingConsent{
		Token:           "consent_deadbeef",
		Username:        "fps",
		State:           "state-abc",
		ClientName:      "Example App",
		AuthenticatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.PendingConsents().PutPendingConsent(ctx, pc))

	got, err := s.PendingConsents().GetPendingConsent(ctx, pc.Token)
	require.NoError(t, err)
	require.Equal(t, pc, got)

	got, err = s.PendingConsents().TakePendingConsent(ctx, pc.Token)
	require.NoError(t, err)
	require.Equal(t, pc, got)

	_, err = s.PendingConsents().TakePendingConsent(ctx, pc.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAuthorizationCodeTake(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	code := domain.AuthorizationCode{
		Code:                          "code_cafebabe",
		ClientID:                      "client-1",
		RedirectURI:                   "https://app.example/cb",
		RedirectURIProvidedExplicitly: true,
		Scopes:                        []string{"user"},
		CodeChallenge:                 "challenge",
		ExpiresAt:                     now.Add(5 * time.Minute),
		CreatedAt:                     now,
	}
	require.NoError(t, s.AuthorizationCodes().PutAuthorizationCode(ctx, code))

	got, err := s.AuthorizationCodes().TakeAuthorizationCode(ctx, code.Code)
	require.NoError(t, err)
	require.Equal(t, code, got)

	_, err = s.AuthorizationCodes().TakeAuthorizationCode(ctx, code.Code)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccessTokenLazyExpiry(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()
	now := time.Now().UTC()

	tok := domain.AccessToken{
		Token:     "token_feedface",
		ClientID:  "client-1",
		Scopes:    []string{"user"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, s.AccessTokens().PutAccessToken(ctx, tok))

	t.Run("valid before expiry", func(t *testing.T) {
		got, err := s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now.Add(time.Hour-time.Second))
		require.NoError(t, err)
		require.Equal(t, tok, got)
	})

	t.Run("gone at expiry boundary", func(t *testing.T) {
		_, err := s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now.Add(time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)

		// The expired row is deleted, not just skipped.
		_, err = s.AccessTokens().GetValidAccessToken(ctx, tok.Token, now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.AccessTokens().DeleteAccessToken(ctx, tok.Token))
		require.NoError(t, s.AccessTokens().DeleteAccessToken(ctx, tok.Token))
	})
}

func TestUserRecordUpsert(t *testing.T) {
	s := NewStore()
	defer s.Close()
	ctx := context.Background()

	u := domain.UserRecord{
		Key:             "fps",
		Username:        "fps",
		UserID:          "01J0000000000000000000000",
		AuthenticatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Users().PutUserRecord(ctx, u))

	u.AuthenticatedAt = u.AuthenticatedAt.Add(time.Minute)
	require.NoError(t, s.Users().PutUserRecord(ctx, u))

	got, err := s.Users().GetUserRecord(ctx, "fps")
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestPing(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
}
