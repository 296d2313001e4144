package httpserver

import (
	"net/http"

	"dropzero/backend/libs/auth"
	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/api-gateway/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers        *handlers.AuthHandlers
	ConsumptionHandlers *handlers.ConsumptionHandlers
	AlertStream         http.Handler
	HealthHandler       http.HandlerFunc
	Metrics             http.Handler
}

// NewRouter wires HTTP routes. Tokens are checked at the edge so that
// upstreams only see authenticated traffic; upstreams still enforce
// ownership themselves.
func NewRouter(deps RouterDeps, tokens httpx.TokenValidator) http.Handler {
	mux := http.NewServeMux()
	authenticated := httpx.AuthMiddleware(tokens)
	adminOnly := func(h http.Handler) http.Handler {
		return authenticated(httpx.RequireRole(auth.RoleAdmin)(h))
	}

	mux.Handle("/health", httpx.Method(http.MethodGet, deps.HealthHandler))
	if deps.Metrics != nil {
		mux.Handle("/metrics", httpx.Method(http.MethodGet, deps.Metrics))
	}

	mux.Handle("/api/auth/register", httpx.Method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Register)))
	mux.Handle("/api/auth/login", httpx.Method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Login)))
	mux.Handle("GET /api/users/profile/{userId}", authenticated(http.HandlerFunc(deps.AuthHandlers.Profile)))
	mux.Handle("PUT /api/users/profile/{userId}", authenticated(http.HandlerFunc(deps.AuthHandlers.Profile)))

	forward := http.HandlerFunc(deps.ConsumptionHandlers.Forward)
	mux.Handle("/api/readings", httpx.Method(http.MethodPost, authenticated(forward)))
	mux.Handle("/api/readings/", httpx.Method(http.MethodGet, authenticated(forward)))
	mux.Handle("/api/admin/", adminOnly(forward))
	if deps.AlertStream != nil {
		mux.Handle("/api/admin/alerts/stream", httpx.Method(http.MethodGet, adminOnly(deps.AlertStream)))
	}

	return mux
}
