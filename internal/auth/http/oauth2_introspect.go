package http

import (
	"net/http"
	"strings"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/httpx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// IntrospectHandler serves POST /introspect per RFC 7662. Every failure mode
// collapses to {"active": false} with a 200 status.
type IntrospectHandler struct {
	IntrospectionService *service.IntrospectionService
}

func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.IntrospectionService.Introspect(ctx, r.Form.Get("token"))
	if err != nil {
		// The opaque contract holds even when the store is down.
		log.Error("introspection failed", "err", err)
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
