package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/api-gateway/internal/clients"
)

// AuthHandlers proxies auth-service endpoints.
type AuthHandlers struct {
	client *clients.AuthClient
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(client *clients.AuthClient, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{client: client, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	reply, err := h.client.Register(r.Context(), body)
	if err != nil {
		h.logger.Error("register proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "auth service unavailable")
		return
	}
	writeReply(w, reply)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	reply, err := h.client.Login(r.Context(), body)
	if err != nil {
		h.logger.Error("login proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "auth service unavailable")
		return
	}
	writeReply(w, reply)
}

// Profile handles GET and PUT /api/users/profile/{userId}.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.PathInt64(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	reply, err := h.client.Profile(r.Context(), r.Method, userID, body, r.Header.Get("Authorization"))
	if err != nil {
		h.logger.Error("profile proxy failed", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "auth service unavailable")
		return
	}
	writeReply(w, reply)
}
