package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/cryptox"
	"github.com/fpsgroup/authentic/pkg/idx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

const (
	consentTokenPrefix = "consent"
	authCodePrefix     = "code"

	// DefaultCodeTTL bounds how long an issued authorization code may sit
	// unredeemed.
	DefaultCodeTTL = 5 * time.Minute
)

// Credentials is the single accepted username/password pair for the hosted
// login form. PasswordHash, when set, takes precedence over Password and is
// verified as an argon2id hash.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify reports whether the submitted pair matches. Comparison is constant
// time in both branches.
func (c Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	if c.PasswordHash != "" {
		return userOK && cryptox.VerifyPassword(password, c.PasswordHash) == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK
}

// AuthorizeService drives the interactive authorization-code flow: it
// validates /authorize requests, authenticates the resource owner through the
// hosted login form, and mints single-use authorization codes once consent is
// granted.
type AuthorizeService struct {
	Store       store.Store
	Credentials Credentials

	// Scopes granted on every successful authorization.
	Scopes []string

	// CodeTTL defaults to DefaultCodeTTL when zero.
	CodeTTL time.Duration
}

// AuthorizeRequest captures the query parameters of a GET /authorize request.
type AuthorizeRequest struct {
	ResponseType        string
	ClientID            string
	RedirectURI         string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
	Resource            string
}

// Authorize validates the request, parks it as an AuthorizationState and
// returns the path of the hosted login page. The state token keys the parked
// request; if the client supplied no state parameter one is generated so the
// rest of the flow has a handle.
func (s *AuthorizeService) Authorize(ctx context.Context, req AuthorizeRequest) (string, error) {
	log := slogx.FromContext(ctx)

	if !strings.EqualFold(strings.TrimSpace(req.ResponseType), "code") {
		return "", ErrInvalidRequest
	}
	if strings.TrimSpace(req.ClientID) == "" {
		return "", ErrInvalidRequest
	}

	challenge := strings.TrimSpace(req.CodeChallenge)
	method := strings.TrimSpace(req.CodeChallengeMethod)
	if challenge == "" {
		return "", ErrInvalidRequest
	}
	if method != "" && method != "S256" {
		return "", ErrInvalidRequest
	}

	client, err := s.Store.Clients().GetClient(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRequest
		}
		return "", err
	}

	redirectURI, explicit, err := resolveRedirectURI(client, req.RedirectURI)
	if err != nil {
		return "", err
	}

	state := strings.TrimSpace(req.State)
	if state == "" {
		state, err = cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return "", err
		}
	}

	record := domain.AuthorizationState{
		State:                         state,
		ClientID:                      client.ID,
		RedirectURI:                   redirectURI,
		CodeChallenge:                 challenge,
		RedirectURIProvidedExplicitly: explicit,
		Resource:                      strings.TrimSpace(req.Resource),
		CreatedAt:                     time.Now().UTC(),
	}
	if err := s.Store.AuthorizationStates().PutAuthorizationState(ctx, record); err != nil {
		return "", err
	}

	log.Info("authorization request parked",
		slog.String("client_id", client.ID),
		slog.Bool("redirect_explicit", explicit),
	)

	return "/login?" + url.Values{
		"state":     {state},
		"client_id": {client.ID},
	}.Encode(), nil
}

// LoginPrompt returns the parked request for the given state along with the
// requesting client, so the login page can name who is asking. The state is
// read, not consumed; a failed login attempt must not kill the flow.
func (s *AuthorizeService) LoginPrompt(ctx context.Context, state string) (domain.AuthorizationState, domain.Client, error) {
	record, err := s.Store.AuthorizationStates().GetAuthorizationState(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthorizationState{}, domain.Client{}, ErrInvalidRequest
		}
		return domain.AuthorizationState{}, domain.Client{}, err
	}

	client, err := s.Store.Clients().GetClient(ctx, record.ClientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.AuthorizationState{}, domain.Client{}, err
	}
	return record, client, nil
}

// HandleLogin checks the submitted credentials against the configured pair.
// On success it records the authenticated user, mints a consent token bound
// to the parked state and returns the path of the consent page. The state
// survives a failed attempt so the user can retry.
func (s *AuthorizeService) HandleLogin(ctx context.Context, state, username, password string) (string, error) {
	log := slogx.FromContext(ctx)

	record, err := s.Store.AuthorizationStates().GetAuthorizationState(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRequest
		}
		return "", err
	}

	if !s.Credentials.Verify(username, password) {
		log.Info("login rejected", slog.String("client_id", record.ClientID))
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()

	clientName := domain.UnknownClientName
	if client, err := s.Store.Clients().GetClient(ctx, record.ClientID); err == nil {
		clientName = client.DisplayName()
	}

	token, err := cryptox.GeneratePrefixedToken(consentTokenPrefix, cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	consent := domain.PendingConsent{
		Token:           token,
		Username:        username,
		State:           record.State,
		ClientName:      clientName,
		AuthenticatedAt: now,
	}
	if err := s.Store.PendingConsents().PutPendingConsent(ctx, consent); err != nil {
		return "", err
	}

	user := domain.UserRecord{
		Key:             username,
		Username:        username,
		UserID:          idx.New().String(),
		AuthenticatedAt: now,
	}
	if err := s.Store.Users().PutUserRecord(ctx, user); err != nil {
		return "", err
	}

	log.Info("login accepted",
		slog.String("username", username),
		slog.String("client_id", record.ClientID),
	)

	return "/consent?" + url.Values{"token": {token}}.Encode(), nil
}

// CompleteAuthorization consumes the parked state, mints a single-use
// authorization code and returns the absolute redirect URL the browser should
// be sent to. Consuming the state here means no second code can ever be
// issued for the same authorization request. The username is recorded for
// audit alongside the code.
func (s *AuthorizeService) CompleteAuthorization(ctx context.Context, state, username string) (string, error) {
	log := slogx.FromContext(ctx)

	record, err := s.Store.AuthorizationStates().TakeAuthorizationState(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRequest
		}
		return "", err
	}

	code, err := cryptox.GeneratePrefixedToken(authCodePrefix, cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	authCode := domain.AuthorizationCode{
		Code:                          code,
		ClientID:                      record.ClientID,
		RedirectURI:                   record.RedirectURI,
		RedirectURIProvidedExplicitly: record.RedirectURIProvidedExplicitly,
		Scopes:                        s.Scopes,
		CodeChallenge:                 record.CodeChallenge,
		Resource:                      record.Resource,
		ExpiresAt:                     now.Add(ttl),
		CreatedAt:                     now,
	}
	if err := s.Store.AuthorizationCodes().PutAuthorizationCode(ctx, authCode); err != nil {
		return "", err
	}

	if username != "" {
		user := domain.UserRecord{
			Key:             username,
			Username:        username,
			UserID:          idx.New().String(),
			AuthenticatedAt: now,
		}
		if err := s.Store.Users().PutUserRecord(ctx, user); err != nil {
			return "", err
		}
	}

	log.Info("authorization code issued",
		slog.String("client_id", record.ClientID),
		slog.Duration("ttl", ttl),
	)

	return appendQuery(record.RedirectURI, url.Values{
		"code":  {code},
		"state": {record.State},
	})
}

// RetryURL points a user who denied consent back at the login step for a
// still-parked state. When the state is gone the caller gets "#" and the
// denied page simply offers a dead link.
func (s *AuthorizeService) RetryURL(ctx context.Context, state string) string {
	record, err := s.Store.AuthorizationStates().GetAuthorizationState(ctx, state)
	if err != nil {
		return "#"
	}

	return "/login?" + url.Values{
		"state":     {record.State},
		"client_id": {record.ClientID},
	}.Encode()
}

// resolveRedirectURI applies the OAuth2.1 rules: an explicit redirect_uri
// must exactly match a registered one; omitting it is only allowed when the
// client registered exactly one.
func resolveRedirectURI(client domain.Client, requested string) (uri string, explicit bool, err error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if len(client.RedirectURIs) != 1 {
			return "", false, ErrInvalidRequest
		}
		return client.RedirectURIs[0], false, nil
	}
	for _, registered := range client.RedirectURIs {
		if requested == registered {
			return requested, true, nil
		}
	}
	return "", false, ErrInvalidRequest
}

// appendQuery merges params into rawURL, preserving any query it already
// carries.
func appendQuery(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidRequest
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
