package handlers

import (
	"net/http"

	"minichat-backend/internal/events"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SubscribeHandlers streams message events for a chat over a websocket,
// replacing per-request polling on the message list.
type SubscribeHandlers struct {
	hub      *events.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewSubscribeHandlers creates a new SubscribeHandlers instance.
func NewSubscribeHandlers(hub *events.Hub, logger *zap.Logger) *SubscribeHandlers {
	return &SubscribeHandlers{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already constrained by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleSubscribe upgrades the connection and forwards message events for
// the chat until the client disconnects.
func (h *SubscribeHandlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	eventsCh, cancel := h.hub.Subscribe(chatID)
	defer cancel()

	// Drain client frames so close/ping handling keeps working; inbound
	// payloads are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("websocket write failed, dropping subscriber",
					zap.String("chat_id", chatID.String()),
					zap.Error(err))
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
