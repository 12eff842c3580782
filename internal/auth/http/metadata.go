package http

import (
	"net/http"
	"strings"

	"github.com/fpsgroup/authentic/pkg/authsdk"
	"github.com/fpsgroup/authentic/pkg/httpx"
)

// MetadataHandler serves GET /.well-known/oauth-authorization-server per
// RFC 8414 so clients can discover the endpoints instead of hardcoding them.
type MetadataHandler struct {
	Issuer string
	Scopes []string
}

func (h *MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	issuer := strings.TrimRight(h.Issuer, "/")

	httpx.WriteJSON(w, http.StatusOK, authsdk.ServerMetadata{
		Issuer:                        issuer,
		AuthorizationEndpoint:         issuer + "/authorize",
		TokenEndpoint:                 issuer + "/token",
		RegistrationEndpoint:          issuer + "/register",
		IntrospectionEndpoint:         issuer + "/introspect",
		RevocationEndpoint:            issuer + "/revoke",
		ScopesSupported:               h.Scopes,
		ResponseTypesSupported:        []string{"code"},
		GrantTypesSupported:           []string{"authorization_code"},
		CodeChallengeMethodsSupported: []string{"S256"},
	})
}
