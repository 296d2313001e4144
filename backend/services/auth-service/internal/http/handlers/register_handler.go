package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/services/auth-service/internal/service"
)

// NewRegisterHandler returns HTTP handler for POST /api/auth/register.
func NewRegisterHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		session, err := authService.Register(r.Context(), req)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, session)
	}
}
