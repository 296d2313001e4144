package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"dropzero/backend/libs/metrics"
	"dropzero/backend/services/consumption-service/internal/models"
)

// Hub tracks admin sessions subscribed to the live alert feed.
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[string]*Subscriber
	pingInterval time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewHub builds subscriber hub.
func NewHub(pingInterval time.Duration, m *metrics.Metrics, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		subscribers:  make(map[string]*Subscriber),
		pingInterval: pingInterval,
		metrics:      m,
		logger:       logger,
	}
}

// Add registers subscriber.
func (h *Hub) Add(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub.ID()] = sub
	h.updateGauge()
}

// Remove drops subscriber.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
	h.updateGauge()
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish fans alert out to every subscriber. Subscribers whose buffer is
// full miss the message.
func (h *Hub) Publish(alert models.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		h.logger.Error("failed to encode alert", zap.String("reading_id", alert.ID), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		sub.Send(payload)
	}
	if h.metrics != nil {
		h.metrics.AlertsPublished.Inc()
	}
}

// Start pings subscribers until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.RLock()
			for _, sub := range h.subscribers {
				if err := sub.Ping(); err != nil {
					h.logger.Debug("ping failed", zap.String("subscriber_id", sub.ID()), zap.Error(err))
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) updateGauge() {
	if h.metrics != nil {
		h.metrics.FeedSubscribers.Set(float64(len(h.subscribers)))
	}
}
