package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"minichat-backend/internal/models"
	"minichat-backend/internal/services"
	"minichat-backend/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MessageHandlers handles HTTP requests addressing individual messages.
type MessageHandlers struct {
	chatService *services.ChatService
}

// NewMessageHandlers creates a new MessageHandlers instance.
func NewMessageHandlers(chatService *services.ChatService) *MessageHandlers {
	return &MessageHandlers{chatService: chatService}
}

// HandleUpdateMessage replaces a message's content.
func (h *MessageHandlers) HandleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	var req models.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.chatService.UpdateMessage(r.Context(), messageID, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Message not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	RespondWithJSON(w, http.StatusOK, msg)
}

// HandleDeleteMessage removes a single message.
func (h *MessageHandlers) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.chatService.DeleteMessage(r.Context(), messageID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Message not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	RespondWithJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
