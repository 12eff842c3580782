package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/authsdk"
)

// IntrospectionService answers RFC 7662 introspection queries. Anything that
// is not a live access token collapses to {"active": false}; the response
// never distinguishes unknown, expired or revoked, and never echoes the
// queried token back.
type IntrospectionService struct {
	Store store.Store
}

func (s *IntrospectionService) Introspect(ctx context.Context, token string) (authsdk.IntrospectionResponse, error) {
	inactive := authsdk.IntrospectionResponse{Active: false}

	if strings.TrimSpace(token) == "" {
		return inactive, nil
	}

	access, err := s.Store.AccessTokens().GetValidAccessToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return inactive, nil
		}
		return inactive, err
	}

	return authsdk.IntrospectionResponse{
		Active:    true,
		Scope:     strings.Join(access.Scopes, " "),
		ClientID:  access.ClientID,
		TokenType: "Bearer",
		Exp:       access.ExpiresAt.Unix(),
		Iat:       access.CreatedAt.Unix(),
		Aud:       access.Resource,
	}, nil
}
