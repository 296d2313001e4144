package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteInternalError writes a 500 carrying the underlying failure as detail.
func WriteInternalError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": "internal error"}
	if err != nil {
		body["detail"] = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}
