package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/cryptox"
	"github.com/fpsgroup/authentic/pkg/idx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

const (
	accessTokenPrefix = "token"

	// DefaultAccessTTL is the bearer token lifetime when the service is not
	// configured otherwise.
	DefaultAccessTTL = time.Hour
)

// TokenService redeems authorization codes for bearer tokens and manages the
// tokens afterwards. Tokens are opaque server-side records, not JWTs; every
// validation is a store lookup.
type TokenService struct {
	Store     store.Store
	AccessTTL time.Duration

	// Subject is the identity recorded against issued tokens for audit. With
	// a single configured credential pair there is only ever one.
	Subject string
}

// ExchangeAuthorizationCode implements the authorization_code grant. The code
// is consumed atomically up front, so a replayed exchange fails on the store
// lookup no matter how the first attempt ended.
func (s *TokenService) ExchangeAuthorizationCode(
	ctx context.Context,
	clientID, code, redirectURI, codeVerifier string,
) (*domain.TokenGrant, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	clientID = strings.TrimSpace(clientID)
	code = strings.TrimSpace(code)
	redirectURI = strings.TrimSpace(redirectURI)
	codeVerifier = strings.TrimSpace(codeVerifier)
	if clientID == "" || code == "" || codeVerifier == "" {
		return nil, ErrInvalidGrant
	}

	authCode, err := s.Store.AuthorizationCodes().TakeAuthorizationCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, err
	}

	if authCode.ClientID != clientID {
		log.Info("code redeemed by wrong client", slog.String("client_id", clientID))
		return nil, ErrInvalidGrant
	}
	if authCode.Expired(now) {
		log.Info("expired code redeemed", slog.String("client_id", clientID))
		return nil, ErrInvalidGrant
	}
	if authCode.RedirectURIProvidedExplicitly && redirectURI != authCode.RedirectURI {
		return nil, ErrInvalidGrant
	}
	if redirectURI != "" && redirectURI != authCode.RedirectURI {
		return nil, ErrInvalidGrant
	}
	if !verifyPKCE(codeVerifier, authCode.CodeChallenge) {
		log.Info("pkce verification failed", slog.String("client_id", clientID))
		return nil, ErrInvalidGrant
	}

	token, err := cryptox.GeneratePrefixedToken(accessTokenPrefix, cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}

	access := domain.AccessToken{
		Token:     token,
		ClientID:  authCode.ClientID,
		Scopes:    authCode.Scopes,
		Resource:  authCode.Resource,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.Store.AccessTokens().PutAccessToken(ctx, access); err != nil {
		return nil, err
	}

	if s.Subject != "" {
		user := domain.UserRecord{
			Key:             token,
			Username:        s.Subject,
			UserID:          idx.New().String(),
			AuthenticatedAt: now,
		}
		if err := s.Store.Users().PutUserRecord(ctx, user); err != nil {
			return nil, err
		}
	}

	log.Info("access token issued",
		slog.String("client_id", authCode.ClientID),
		slog.Duration("ttl", ttl),
	)

	return &domain.TokenGrant{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
		Scopes:      access.Scopes,
	}, nil
}

// LoadAuthorizationCode reads an issued code without consuming it, for
// callers that need to inspect a code outside the exchange itself. Unknown
// and already-consumed codes both surface as ErrInvalidGrant.
func (s *TokenService) LoadAuthorizationCode(ctx context.Context, code string) (domain.AuthorizationCode, error) {
	authCode, err := s.Store.AuthorizationCodes().GetAuthorizationCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthorizationCode{}, ErrInvalidGrant
		}
		return domain.AuthorizationCode{}, err
	}
	return authCode, nil
}

// ExchangeRefreshToken exists to give the grant a precise error; this server
// issues no refresh tokens.
func (s *TokenService) ExchangeRefreshToken(ctx context.Context, clientID, refreshToken string) (*domain.TokenGrant, error) {
	return nil, ErrUnsupported
}

// LoadRefreshToken always fails with ErrUnsupported; there are no refresh
// token records to load.
func (s *TokenService) LoadRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	return domain.RefreshToken{}, ErrUnsupported
}

// LoadAccessToken returns the live token record, or ErrInvalidGrant for
// unknown, revoked or expired tokens. Expired tokens are deleted by the read.
func (s *TokenService) LoadAccessToken(ctx context.Context, token string) (domain.AccessToken, error) {
	access, err := s.Store.AccessTokens().GetValidAccessToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessToken{}, ErrInvalidGrant
		}
		return domain.AccessToken{}, err
	}
	return access, nil
}

// RevokeToken removes the token if it exists. Per RFC 7009 revoking an
// unknown token is not an error.
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.Store.AccessTokens().DeleteAccessToken(ctx, token); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("token revoked")
	return nil
}

// verifyPKCE checks the S256 transform of the verifier against the challenge
// recorded at authorization time.
func verifyPKCE(verifier, challenge string) bool {
	sum := sha256.Sum256([]byte(verifier))
	computed := base64.RawURLEncoding.EncodeToString(sum[:])
	return cryptox.ConstantTimeEquals(computed, challenge)
}
