package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/cryptox"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// ClientService handles dynamic client registration and lookup per RFC 7591.
type ClientService struct {
	Store store.Store
}

// RegisterClientRequest carries the subset of RFC 7591 metadata this server
// understands.
type RegisterClientRequest struct {
	ClientID     string
	ClientName   string
	RedirectURIs []string
}

// RegisterClient stores the client's metadata. When no client_id is supplied
// one is generated. Every redirect URI must be an absolute http or https URL.
func (s *ClientService) RegisterClient(ctx context.Context, req RegisterClientRequest) (domain.Client, error) {
	log := slogx.FromContext(ctx)

	if len(req.RedirectURIs) == 0 {
		return domain.Client{}, ErrInvalidRequest
	}
	for _, uri := range req.RedirectURIs {
		if !validRedirectURI(uri) {
			return domain.Client{}, ErrInvalidRequest
		}
	}

	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		clientID = cryptox.MustGenerateToken(cryptox.TokenSize128)
	}

	client := domain.Client{
		ID:           clientID,
		Name:         strings.TrimSpace(req.ClientName),
		RedirectURIs: req.RedirectURIs,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Clients().PutClient(ctx, client); err != nil {
		return domain.Client{}, err
	}

	log.Info("client registered",
		slog.String("client_id", client.ID),
		slog.String("client_name", client.DisplayName()),
		slog.Int("redirect_uris", len(client.RedirectURIs)),
	)
	return client, nil
}

// GetClient returns the registered client or ErrInvalidRequest for unknown
// ids.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrInvalidRequest
		}
		return domain.Client{}, err
	}
	return client, nil
}

func validRedirectURI(uri string) bool {
	uri = strings.TrimSpace(uri)
	if uri == "" || strings.ContainsAny(uri, " \t\r\n") {
		return false
	}
	return strings.HasPrefix(uri, "https://") || strings.HasPrefix(uri, "http://")
}
