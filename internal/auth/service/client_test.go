package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fpsgroup/authentic/internal/auth/store/drivers/memory"
)

func TestRegisterClient(t *testing.T) {
	svc := &ClientService{Store: memory.NewStore()}
	ctx := context.Background()

	t.Run("generates an id when omitted", func(t *testing.T) {
		client, err := svc.RegisterClient(ctx, RegisterClientRequest{
			ClientName:   "Example App",
			RedirectURIs: []string{"https://app.example/cb"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, client.ID)
		require.Equal(t, "Example App", client.Name)

		got, err := svc.GetClient(ctx, client.ID)
		require.NoError(t, err)
		require.Equal(t, client.ID, got.ID)
	})

	t.Run("keeps a provided id", func(t *testing.T) {
		client, err := svc.RegisterClient(ctx, RegisterClientRequest{
			ClientID:     "pinned-id",
			RedirectURIs: []string{"https://app.example/cb"},
		})
		require.NoError(t, err)
		require.Equal(t, "pinned-id", client.ID)
	})

	t.Run("requires at least one redirect uri", func(t *testing.T) {
		_, err := svc.RegisterClient(ctx, RegisterClientRequest{ClientName: "No URIs"})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("rejects malformed redirect uris", func(t *testing.T) {
		for _, uri := range []string{"", "ftp://files.example", "app.example/cb", "https://a b"} {
			_, err := svc.RegisterClient(ctx, RegisterClientRequest{RedirectURIs: []string{uri}})
			require.ErrorIs(t, err, ErrInvalidRequest, "uri %q", uri)
		}
	})

	t.Run("unknown client lookup", func(t *testing.T) {
		_, err := svc.GetClient(ctx, "missing")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestRegisterClientUnnamedDisplaysFallback(t *testing.T) {
	svc := &ClientService{Store: memory.NewStore()}

	client, err := svc.RegisterClient(context.Background(), RegisterClientRequest{
		RedirectURIs: []string{"https://app.example/cb"},
	})
	require.NoError(t, err)
	require.Equal(t, "Unknown Application", client.DisplayName())
}
