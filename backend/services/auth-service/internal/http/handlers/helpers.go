package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/auth-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	httpx.WriteJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	httpx.WriteError(w, status, message)
}

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrEmailInUse):
		writeError(w, http.StatusConflict, "email already registered")
	default:
		logger.Error("request failed", zap.Error(err))
		httpx.WriteInternalError(w, err)
	}
}
