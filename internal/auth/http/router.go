// Package http wires the authorization server's endpoints onto a ServeMux
// and translates between the wire formats and the service layer.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fpsgroup/authentic/internal/auth/service"
	"github.com/fpsgroup/authentic/internal/auth/store"
	"github.com/fpsgroup/authentic/internal/auth/webui"
	"github.com/fpsgroup/authentic/pkg/httpx"
	"github.com/fpsgroup/authentic/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	issuer    string
	startTime time.Time
	logger    *slog.Logger
	store     store.Store
	renderer  *webui.Renderer

	AuthorizeService     *service.AuthorizeService
	ConsentService       *service.ConsentService
	TokenService         *service.TokenService
	ClientService        *service.ClientService
	IntrospectionService *service.IntrospectionService
}

func NewRouter(issuer string, st store.Store, renderer *webui.Renderer, logger *slog.Logger) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		issuer:    issuer,
		startTime: time.Now(),
		store:     st,
		renderer:  renderer,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuthorizationFlow()
	r.registerOAuth2()
	r.registerClients()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuthorizationFlow() {
	authorizeHandler := &AuthorizeHandler{AuthorizeService: r.AuthorizeService}
	loginHandler := &LoginHandler{
		AuthorizeService: r.AuthorizeService,
		Renderer:         r.renderer,
	}
	consentHandler := &ConsentHandler{
		ConsentService: r.ConsentService,
		Renderer:       r.renderer,
	}

	// GET /authorize just parks the request and bounces to the login form.
	r.Mux.Handle("GET /authorize",
		httpx.Chain(authorizeHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Credential submission is brute-forceable, so limit by IP + username.
	r.Mux.Handle("POST /login/callback",
		httpx.Chain(http.HandlerFunc(loginHandler.HandlePost),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("GET /consent",
		httpx.Chain(http.HandlerFunc(consentHandler.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /consent/callback",
		httpx.Chain(http.HandlerFunc(consentHandler.HandlePost),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerOAuth2() {
	// The machine endpoints carry CORS headers so browser-based clients can
	// drive the protocol; preflight OPTIONS is answered by the middleware.
	r.Mux.Handle("OPTIONS /",
		httpx.Chain(http.NotFoundHandler(), httpx.CORS()),
	)

	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /token",
		httpx.Chain(tokenHandler,
			httpx.CORS(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	revokeHandler := &RevokeHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /revoke",
		httpx.Chain(revokeHandler,
			httpx.CORS(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	introspectHandler := &IntrospectHandler{IntrospectionService: r.IntrospectionService}
	r.Mux.Handle("POST /introspect",
		httpx.Chain(introspectHandler,
			httpx.CORS(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	metadataHandler := &MetadataHandler{Issuer: r.issuer, Scopes: r.AuthorizeService.Scopes}
	r.Mux.Handle("GET /.well-known/oauth-authorization-server",
		httpx.Chain(metadataHandler,
			httpx.CORS(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerClients() {
	registerHandler := &RegisterHandler{ClientService: r.ClientService}
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			httpx.CORS(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &SystemHandler{Store: r.store, StartTime: r.startTime}
	r.Mux.Handle("GET /livez", http.HandlerFunc(h.HandleLivez))
	r.Mux.Handle("GET /readyz", http.HandlerFunc(h.HandleReadyz))
}
