package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/internal/auth/webui"
	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/httpx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// LoginHandler serves the hosted login form. GET /login renders it for a
// parked authorization request; POST /login/callback checks the submitted
// credentials.
type LoginHandler struct {
	AuthorizeService *service.AuthorizeService
	Renderer         *webui.Renderer
}

func (h *LoginHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	state := r.URL.Query().Get("state")
	if state == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	record, client, err := h.AuthorizeService.LoginPrompt(ctx, state)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("login prompt failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	h.renderLogin(w, http.StatusOK, webui.LoginData{
		State:      record.State,
		ClientName: client.DisplayName(),
	})
}

func (h *LoginHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	state := r.Form.Get("state")
	username := r.Form.Get("username")
	password := r.Form.Get("password")
	if state == "" || username == "" || password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	consentURL, err := h.AuthorizeService.HandleLogin(ctx, state, username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, consentURL, http.StatusFound)

	case errors.Is(err, service.ErrInvalidCredentials):
		// Re-render the form with an error so the user can retry; the parked
		// request is still alive.
		h.renderLogin(w, http.StatusUnauthorized, webui.LoginData{
			State: state,
			Error: "Invalid username or password.",
		})

	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)

	default:
		log.Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

func (h *LoginHandler) renderLogin(w http.ResponseWriter, code int, data webui.LoginData) {
	var buf bytes.Buffer
	if err := h.Renderer.Login(&buf, data); err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteHTML(w, code, buf.String())
}
