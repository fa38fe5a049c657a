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

// ChatHandlers handles HTTP requests related to chats.
type ChatHandlers struct {
	chatService *services.ChatService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// chatIDFromURL parses the {chatID} URL parameter.
func chatIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "chatID"))
}

// HandleListChats returns all chats, newest first.
func (h *ChatHandlers) HandleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats(r.Context())
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list chats")
		return
	}
	RespondWithJSON(w, http.StatusOK, chats)
}

// HandleCreateChat creates a new chat.
func (h *ChatHandlers) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), req.Title)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}
	RespondWithJSON(w, http.StatusCreated, chat)
}

// HandleGetChat returns a single chat by ID.
func (h *ChatHandlers) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromURL(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chat not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to get chat")
		return
	}
	RespondWithJSON(w, http.StatusOK, chat)
}

// HandleUpdateChat renames a chat.
func (h *ChatHandlers) HandleUpdateChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromURL(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	var req models.UpdateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.chatService.RenameChat(r.Context(), chatID, req.Title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chat not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to update chat")
		return
	}
	RespondWithJSON(w, http.StatusOK, chat)
}

// HandleDeleteChat removes a chat together with its messages.
func (h *ChatHandlers) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromURL(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(w, http.StatusNotFound, "Chat not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}
	RespondWithJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// HandleListMessages returns a chat's messages in creation order.
func (h *ChatHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromURL(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), chatID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	RespondWithJSON(w, http.StatusOK, messages)
}

// HandleSendMessage runs the send orchestration for a chat: persists the
// user's message, generates and persists the assistant's reply, and returns
// both plus the retitled chat when this was the first exchange.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := chatIDFromURL(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chatService.SendMessage(r.Context(), chatID, req.Content, req.Model)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	RespondWithJSON(w, http.StatusOK, resp)
}
