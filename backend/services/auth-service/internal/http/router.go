package httpserver

import (
	"net/http"

	"dropzero/backend/libs/httpx"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Register      http.HandlerFunc
	Login         http.HandlerFunc
	GetProfile    http.HandlerFunc
	UpdateProfile http.HandlerFunc
	Health        http.HandlerFunc
	Metrics       http.Handler
}

// NewRouter wires all HTTP routes. Profile routes require a bearer token.
func NewRouter(routes Routes, tokens httpx.TokenValidator) http.Handler {
	mux := http.NewServeMux()
	authenticated := httpx.AuthMiddleware(tokens)

	if routes.Register != nil {
		mux.Handle("/api/auth/register", httpx.Method(http.MethodPost, routes.Register))
	}
	if routes.Login != nil {
		mux.Handle("/api/auth/login", httpx.Method(http.MethodPost, routes.Login))
	}
	if routes.GetProfile != nil {
		mux.Handle("GET /api/users/profile/{userId}", authenticated(routes.GetProfile))
	}
	if routes.UpdateProfile != nil {
		mux.Handle("PUT /api/users/profile/{userId}", authenticated(routes.UpdateProfile))
	}
	if routes.Health != nil {
		mux.Handle("/health", httpx.Method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", httpx.Method(http.MethodGet, routes.Metrics))
	}
	return mux
}
