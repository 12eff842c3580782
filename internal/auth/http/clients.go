package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/httpx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// RegisterHandler serves POST /register, the RFC 7591 dynamic client
// registration endpoint. Registration is open; there is no initial access
// token.
type RegisterHandler struct {
	ClientService *service.ClientService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/json") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	var req authsdk.ClientRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	client, err := h.ClientService.RegisterClient(ctx, service.RegisterClientRequest{
		ClientName:   req.ClientName,
		RedirectURIs: req.RedirectURIs,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("client registration failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.ClientRegistrationResponse{
		ClientID:     client.ID,
		ClientName:   client.Name,
		RedirectURIs: client.RedirectURIs,
		IssuedAt:     client.CreatedAt.Unix(),
	})
}
