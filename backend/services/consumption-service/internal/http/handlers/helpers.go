package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
	"dropzero/backend/services/consumption-service/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	httpx.WriteJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	httpx.WriteError(w, status, message)
}

// writeServiceError maps service failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrNoActiveMeter):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrMeterExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		httpx.WriteInternalError(w, err)
	}
}

// authorizedUser parses {userId} and checks the caller may access it. It
// writes the error response itself and reports false on failure.
func authorizedUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := httpx.PathInt64(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	claims, _ := httpx.ClaimsFromContext(r.Context())
	if err := service.Authorize(claims, userID); err != nil {
		writeError(w, http.StatusForbidden, "forbidden")
		return 0, false
	}
	return userID, true
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}
