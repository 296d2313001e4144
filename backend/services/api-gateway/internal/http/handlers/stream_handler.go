package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// StreamHandler bridges admin WebSocket clients to the consumption-service
// alert feed. Messages flow upstream to downstream only; control frames are
// handled by each side independently.
type StreamHandler struct {
	upstreamURL string
	dialer      *websocket.Dialer
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewStreamHandler returns bridge for upstreamURL (ws:// or wss://).
func NewStreamHandler(upstreamURL string, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		upstreamURL: upstreamURL,
		dialer:      websocket.DefaultDialer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /api/admin/alerts/stream.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := h.upstreamURL
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	header := http.Header{}
	if auth := r.Header.Get("Authorization"); auth != "" {
		header.Set("Authorization", auth)
	}

	upstream, resp, err := h.dialer.DialContext(r.Context(), target, header)
	if err != nil {
		status := http.StatusBadGateway
		if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			status = resp.StatusCode
		}
		h.logger.Warn("alert stream dial failed", zap.Error(err))
		writeError(w, status, "alert stream unavailable")
		return
	}
	defer upstream.Close()

	downstream, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("alert stream upgrade failed", zap.Error(err))
		return
	}
	defer downstream.Close()
	// clear deadlines inherited from the http.Server
	_ = downstream.SetReadDeadline(time.Time{})

	var once sync.Once
	done := make(chan struct{})
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		defer stop()
		for {
			msgType, data, err := upstream.ReadMessage()
			if err != nil {
				return
			}
			_ = downstream.SetWriteDeadline(time.Now().Add(writeWait))
			if err := downstream.WriteMessage(msgType, data); err != nil {
				return
			}
		}
	}()
	go func() {
		defer stop()
		for {
			if _, _, err := downstream.ReadMessage(); err != nil {
				return
			}
		}
	}()

	<-done
}
