package feed

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dropzero/backend/libs/httpx"
)

// Server upgrades admin HTTP requests to alert feed WebSockets.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	buffer       int
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(hub *Hub, buffer int, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		hub:          hub,
		logger:       logger,
		buffer:       buffer,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for GET /api/admin/alerts/stream. Authentication
// happens upstream; the claims are only used for logging.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if claims, ok := httpx.ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := NewSubscriber(uuid.NewString(), userID, conn, s.buffer, s.writeTimeout, s.logger, s.hub.Remove)
	s.hub.Add(sub)

	go sub.Start()
	s.logger.Info("alert feed subscriber connected", zap.String("subscriber_id", sub.ID()), zap.Int64("user_id", userID))
}
