package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dropzero/backend/services/api-gateway/internal/clients"
)

// ConsumptionHandlers proxies consumption-service endpoints.
type ConsumptionHandlers struct {
	client *clients.ConsumptionClient
	logger *zap.Logger
}

// NewConsumptionHandlers returns handler struct.
func NewConsumptionHandlers(client *clients.ConsumptionClient, logger *zap.Logger) *ConsumptionHandlers {
	return &ConsumptionHandlers{client: client, logger: logger}
}

// Forward relays readings and admin requests with their query string.
func (h *ConsumptionHandlers) Forward(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	reply, err := h.client.Forward(r.Context(), r.Method, r.URL.RequestURI(), body, r.Header.Get("Authorization"))
	if err != nil {
		h.logger.Error("consumption proxy failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "consumption service unavailable")
		return
	}
	writeReply(w, reply)
}
