package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fpsgroup/authentic/internal/auth/store/drivers/memory"
)

func TestIntrospectActiveToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := &IntrospectionService{Store: f.store}

	code, _ := f.runFlow(t, defaultAuthorizeRequest())
	grant, err := f.tokens.ExchangeAuthorizationCode(ctx, testClientID, code, testRedirect, testVerifier)
	require.NoError(t, err)

	resp, err := svc.Introspect(ctx, grant.AccessToken)
	require.NoError(t, err)
	require.True(t, resp.Active)
	require.Equal(t, testClientID, resp.ClientID)
	require.Equal(t, "user", resp.Scope)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Greater(t, resp.Exp, resp.Iat)
}

func TestIntrospectIsOpaqueForInvalidTokens(t *testing.T) {
	svc := &IntrospectionService{Store: memory.NewStore()}
	ctx := context.Background()

	for _, token := range []string{"", "token_unknown", "code_abc", "consent_abc", "garbage"} {
		resp, err := svc.Introspect(ctx, token)
		require.NoError(t, err)
		require.Equal(t, false, resp.Active)
		require.Empty(t, resp.Scope)
		require.Empty(t, resp.ClientID)
		require.Empty(t, resp.TokenType)
		require.Zero(t, resp.Exp)
		require.Zero(t, resp.Iat)
	}
}

func TestIntrospectRevokedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := &IntrospectionService{Store: f.store}

	code, _ := f.runFlow(t, defaultAuthorizeRequest())
	grant, err := f.tokens.ExchangeAuthorizationCode(ctx, testClientID, code, testRedirect, testVerifier)
	require.NoError(t, err)

	require.NoError(t, f.tokens.RevokeToken(ctx, grant.AccessToken))

	resp, err := svc.Introspect(ctx, grant.AccessToken)
	require.NoError(t, err)
	require.False(t, resp.Active)
}
