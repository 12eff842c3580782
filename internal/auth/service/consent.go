package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/domain"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// ConsentAction is the closed set of outcomes a consent form can submit.
type ConsentAction int

const (
	ConsentInvalid ConsentAction = iota
	ConsentApprove
	ConsentDeny
)

// ParseConsentAction maps the form value onto the closed set. Anything other
// than "approve" or "deny" is ConsentInvalid.
func ParseConsentAction(raw string) ConsentAction {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "approve":
		return ConsentApprove
	case "deny":
		return ConsentDeny
	default:
		return ConsentInvalid
	}
}

func (a ConsentAction) String() string {
	switch a {
	case ConsentApprove:
		return "approve"
	case ConsentDeny:
		return "deny"
	default:
		return "invalid"
	}
}

// ConsentService resolves consent decisions. Both outcomes consume the
// consent token; only approval consumes the underlying authorization state.
type ConsentService struct {
	Store     store.Store
	Authorize *AuthorizeService
}

// ConsentPrompt returns the pending consent for rendering the prompt, without
// consuming it.
func (s *ConsentService) ConsentPrompt(ctx context.Context, token string) (domain.PendingConsent, error) {
	consent, err := s.Store.PendingConsents().GetPendingConsent(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PendingConsent{}, ErrInvalidRequest
		}
		return domain.PendingConsent{}, err
	}
	return consent, nil
}

// Decision is the outcome of a consent form submission.
type Decision struct {
	Approved bool

	// RedirectURL is the client callback (with code and state) on approval.
	RedirectURL string

	// ClientName and RetryURL feed the denied page when Approved is false.
	ClientName string
	RetryURL   string
}

// Decide consumes the consent token and acts on the user's choice. An
// unknown, replayed or already-decided token fails with ErrInvalidRequest
// regardless of action; the token is terminal either way.
func (s *ConsentService) Decide(ctx context.Context, token string, action ConsentAction) (Decision, error) {
	log := slogx.FromContext(ctx)

	if action == ConsentInvalid {
		return Decision{}, ErrInvalidRequest
	}

	consent, err := s.Store.PendingConsents().TakePendingConsent(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Decision{}, ErrInvalidRequest
		}
		return Decision{}, err
	}

	log.Info("consent decided",
		slog.String("username", consent.Username),
		slog.String("client_name", consent.ClientName),
		slog.String("action", action.String()),
	)

	if action == ConsentDeny {
		// The state is left in place so RetryURL can rebuild the original
		// request.
		return Decision{
			Approved:   false,
			ClientName: consent.ClientName,
			RetryURL:   s.Authorize.RetryURL(ctx, consent.State),
		}, nil
	}

	redirectURL, err := s.Authorize.CompleteAuthorization(ctx, consent.State, consent.Username)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Approved: true, RedirectURL: redirectURL}, nil
}
