package events

import (
	"sync"

	"minichat-backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageEvent is delivered to chat subscribers whenever a message record
// changes in that chat.
type MessageEvent struct {
	Action  string          `json:"action"` // "create", "update" or "delete"
	Message *models.Message `json:"message"`
}

const subscriberBuffer = 16

// Hub is an in-process publish/subscribe fan-out of message events, keyed by
// chat. Delivery is best-effort: a subscriber that falls behind its buffer
// misses events rather than blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[chan MessageEvent]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]map[chan MessageEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers for events in the given chat. The returned cancel
// function must be called to release the subscription; the channel is closed
// by cancel.
func (h *Hub) Subscribe(chatID uuid.UUID) (<-chan MessageEvent, func()) {
	ch := make(chan MessageEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[chatID] == nil {
		h.subs[chatID] = make(map[chan MessageEvent]struct{})
	}
	h.subs[chatID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[chatID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, chatID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the chat.
func (h *Hub) Publish(chatID uuid.UUID, event MessageEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[chatID] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping message event for slow subscriber",
				zap.String("chat_id", chatID.String()),
				zap.String("action", event.Action))
		}
	}
}
