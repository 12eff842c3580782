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

// ConsentHandler serves the consent prompt. GET /consent renders it for a
// pending consent token; POST /consent/callback resolves the decision.
type ConsentHandler struct {
	ConsentService *service.ConsentService
	Renderer       *webui.Renderer
}

func (h *ConsentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	consent, err := h.ConsentService.ConsentPrompt(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("consent prompt failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	var buf bytes.Buffer
	err = h.Renderer.Consent(&buf, webui.ConsentData{
		ConsentToken: consent.Token,
		ClientName:   consent.ClientName,
		Username:     consent.Username,
		Scopes:       h.ConsentService.Authorize.Scopes,
	})
	if err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteHTML(w, http.StatusOK, buf.String())
}

func (h *ConsentHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	token := r.Form.Get("consent_token")
	action := service.ParseConsentAction(r.Form.Get("action"))
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	decision, err := h.ConsentService.Decide(ctx, token, action)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("consent decision failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	if decision.Approved {
		http.Redirect(w, r, decision.RedirectURL, http.StatusFound)
		return
	}

	var buf bytes.Buffer
	err = h.Renderer.Denied(&buf, webui.DeniedData{
		ClientName: decision.ClientName,
		RetryURL:   decision.RetryURL,
	})
	if err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}
	httpx.WriteHTML(w, http.StatusForbidden, buf.String())
}
