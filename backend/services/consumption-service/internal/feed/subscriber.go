package feed

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readLimit = 4096
	pongWait  = 60 * time.Second
)

// Subscriber is one admin WebSocket session. The feed is push only; anything
// the client sends is discarded.
type Subscriber struct {
	id           string
	userID       int64
	ws           *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	writeMu      sync.Mutex
	writeTimeout time.Duration
	logger       *zap.Logger
	onClose      func(id string)
}

// NewSubscriber wraps an upgraded connection.
func NewSubscriber(id string, userID int64, ws *websocket.Conn, buffer int, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *Subscriber {
	if buffer <= 0 {
		buffer = 16
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Subscriber{
		id:           id,
		userID:       userID,
		ws:           ws,
		send:         make(chan []byte, buffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
		onClose:      onClose,
	}
}

// ID returns identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Start launches the write pump and blocks reading until the peer leaves.
func (s *Subscriber) Start() {
	go s.writePump()
	s.readPump()
}

func (s *Subscriber) readPump() {
	defer s.Close()
	s.ws.SetReadLimit(readLimit)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			s.logger.Info("alert feed subscriber left", zap.String("subscriber_id", s.id), zap.Int64("user_id", s.userID), zap.Error(err))
			return
		}
	}
}

func (s *Subscriber) writePump() {
	for {
		select {
		case <-s.done:
			_ = s.write(websocket.CloseMessage, []byte{})
			return
		case msg := <-s.send:
			if err := s.write(websocket.TextMessage, msg); err != nil {
				s.Close()
				return
			}
		}
	}
}

// Send enqueues a message, dropping it when the buffer is full.
func (s *Subscriber) Send(msg []byte) {
	select {
	case <-s.done:
	case s.send <- msg:
	default:
		s.logger.Warn("dropping alert, subscriber buffer full", zap.String("subscriber_id", s.id))
	}
}

// Ping sends a keep-alive.
func (s *Subscriber) Ping() error {
	return s.write(websocket.PingMessage, []byte("ping"))
}

// Close terminates the session once.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.ws.Close()
		if s.onClose != nil {
			s.onClose(s.id)
		}
	})
}

func (s *Subscriber) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.ws.WriteMessage(messageType, data)
}
