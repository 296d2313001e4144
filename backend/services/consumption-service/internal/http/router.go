package httpserver

import (
	"net/http"

	"dropzero/backend/libs/auth"
	"dropzero/backend/libs/httpx"
)

// Routes groups HTTP handlers.
type Routes struct {
	Dashboard     http.HandlerFunc
	History       http.HandlerFunc
	Chart         http.HandlerFunc
	Advice        http.HandlerFunc
	Export        http.HandlerFunc
	SubmitReading http.HandlerFunc

	ZoneMap       http.HandlerFunc
	Alerts        http.HandlerFunc
	AlertStream   http.HandlerFunc
	Stats         http.HandlerFunc
	RegisterMeter http.HandlerFunc

	Health  http.HandlerFunc
	Metrics http.Handler
}

// NewRouter registers service endpoints. Everything under /api requires a
// valid bearer token; /api/admin additionally requires the admin role.
func NewRouter(routes Routes, tokens httpx.TokenValidator) http.Handler {
	mux := http.NewServeMux()
	authenticated := httpx.AuthMiddleware(tokens)
	adminOnly := httpx.RequireRole(auth.RoleAdmin)

	user := func(pattern, method string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, httpx.Method(method, authenticated(h)))
		}
	}
	admin := func(pattern, method string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, httpx.Method(method, authenticated(adminOnly(h))))
		}
	}

	user("/api/readings/dashboard/{userId}", http.MethodGet, routes.Dashboard)
	user("/api/readings/history/{userId}", http.MethodGet, routes.History)
	user("/api/readings/chart/{userId}", http.MethodGet, routes.Chart)
	user("/api/readings/advice/{userId}", http.MethodGet, routes.Advice)
	user("/api/readings/export/{userId}", http.MethodGet, routes.Export)
	user("/api/readings", http.MethodPost, routes.SubmitReading)

	admin("/api/admin/map", http.MethodGet, routes.ZoneMap)
	admin("/api/admin/alerts", http.MethodGet, routes.Alerts)
	admin("/api/admin/alerts/stream", http.MethodGet, routes.AlertStream)
	admin("/api/admin/stats", http.MethodGet, routes.Stats)
	admin("/api/admin/meters", http.MethodPost, routes.RegisterMeter)

	if routes.Health != nil {
		mux.Handle("/health", httpx.Method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", httpx.Method(http.MethodGet, routes.Metrics))
	}
	return mux
}
