package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/auth-service/internal/service"
)

// NewGetProfileHandler handles GET /api/users/profile/{userId}.
func NewGetProfileHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.PathInt64(r, "userId")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		claims, _ := httpx.ClaimsFromContext(r.Context())

		user, err := authService.Profile(r.Context(), claims, userID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// NewUpdateProfileHandler handles PUT /api/users/profile/{userId}.
func NewUpdateProfileHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := httpx.PathInt64(r, "userId")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var upd service.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		claims, _ := httpx.ClaimsFromContext(r.Context())

		user, err := authService.UpdateProfile(r.Context(), claims, userID, upd)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
