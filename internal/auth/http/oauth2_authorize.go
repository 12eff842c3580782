package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// AuthorizeHandler serves GET /authorize per RFC 6749 section 4.1. It never
// issues a code directly; a valid request is parked and the browser is sent
// to the hosted login form.
type AuthorizeHandler struct {
	AuthorizeService *service.AuthorizeService
}

func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	req := service.AuthorizeRequest{
		ResponseType:        q.Get("response_type"),
		ClientID:            q.Get("client_id"),
		RedirectURI:         q.Get("redirect_uri"),
		State:               q.Get("state"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: q.Get("code_challenge_method"),
		Resource:            strings.TrimSpace(q.Get("resource")),
	}

	loginURL, err := h.AuthorizeService.Authorize(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("authorize failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	http.Redirect(w, r, loginURL, http.StatusFound)
}
