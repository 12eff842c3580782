package http

import (
	"net/http"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/httpx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// RevokeHandler serves POST /revoke following RFC 7009. Revocation always
// returns 200 OK, even for invalid or unknown tokens, to prevent token
// scanning.
type RevokeHandler struct {
	TokenService *service.TokenService
}

func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	token := r.Form.Get("token")
	if token == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// token_type_hint is accepted and ignored; only access tokens exist.
	if err := h.TokenService.RevokeToken(ctx, token); err != nil {
		log.Warn("revoke failed", "err", err)
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
