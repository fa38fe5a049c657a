package services

import (
	"context"
	"fmt"
	"sync"

	"minichat-backend/internal/config"
	"minichat-backend/internal/events"
	"minichat-backend/internal/models"
	"minichat-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultChatTitle is the placeholder used until the first exchange produces
// a model-generated title.
const defaultChatTitle = "New Chat"

// ChatService handles chat-related business logic: chat and message CRUD,
// and the per-request send orchestration.
type ChatService struct {
	store     store.Store
	container *Container
	hub       *events.Hub
	logger    *zap.Logger

	defaultModel  string
	contextPolicy string
	maxTokens     int
}

// NewChatService creates a new ChatService.
func NewChatService(st store.Store, container *Container, hub *events.Hub, cfg *config.Config, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:         st,
		container:     container,
		hub:           hub,
		logger:        logger,
		defaultModel:  cfg.DefaultModel,
		contextPolicy: cfg.ContextPolicy,
		maxTokens:     cfg.ContextMaxTokens,
	}
}

// --- Chat CRUD ---

// ListChats returns all chats, newest first.
func (s *ChatService) ListChats(ctx context.Context) ([]models.Chat, error) {
	chats, err := s.store.ListChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

// GetChat retrieves a single chat by ID.
func (s *ChatService) GetChat(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	chat, err := s.store.GetChatByID(ctx, chatID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

// CreateChat creates a new chat with the given (placeholder) title.
func (s *ChatService) CreateChat(ctx context.Context, title string) (*models.Chat, error) {
	if title == "" {
		title = defaultChatTitle
	}
	chat, err := s.store.CreateChat(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// RenameChat updates a chat's title.
func (s *ChatService) RenameChat(ctx context.Context, chatID uuid.UUID, title string) (*models.Chat, error) {
	if title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}
	chat, err := s.store.UpdateChatTitle(ctx, chatID, title)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update chat: %w", err)
	}
	return chat, nil
}

// DeleteChat removes a chat together with all of its messages, then notifies
// subscribers of each removed message. The snapshot is taken before the
// delete; if it failed, the delete still proceeds and only the notifications
// are skipped.
func (s *ChatService) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
	snapshot, snapErr := s.store.ListMessages(ctx, chatID)

	if err := s.store.DeleteChat(ctx, chatID); err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	if snapErr != nil {
		s.logger.Warn("could not snapshot messages before chat delete, skipping delete events",
			zap.String("chat_id", chatID.String()),
			zap.Error(snapErr))
		return nil
	}
	for i := range snapshot {
		s.hub.Publish(chatID, events.MessageEvent{Action: "delete", Message: &snapshot[i]})
	}
	return nil
}

// --- Message CRUD ---

// ListMessages returns a chat's messages in creation order.
func (s *ChatService) ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	messages, err := s.store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// UpdateMessage replaces a message's content.
func (s *ChatService) UpdateMessage(ctx context.Context, messageID uuid.UUID, content string) (*models.Message, error) {
	msg, err := s.store.UpdateMessage(ctx, messageID, content)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	s.hub.Publish(msg.ChatID, events.MessageEvent{Action: "update", Message: msg})
	return msg, nil
}

// DeleteMessage removes a single message and notifies its chat's subscribers.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	msg, err := s.store.DeleteMessage(ctx, messageID)
	if err != nil {
		if err == store.ErrNotFound {
			return err
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.hub.Publish(msg.ChatID, events.MessageEvent{Action: "delete", Message: msg})
	return nil
}

// --- Send orchestration ---

// SendMessage runs the full per-message flow: persist the user's message,
// assemble the prompt over the now-updated history, invoke the provider (and,
// for the chat's first user message, concurrently request a title), persist
// the assistant's reply, and best-effort update the chat title.
//
// Title generation never fails the reply path. A failure persisting the
// assistant message fails the request even though the user message (and
// possibly the title) are already durable; nothing is rolled back.
func (s *ChatService) SendMessage(ctx context.Context, chatID uuid.UUID, content, model string) (*models.SendMessageResponse, error) {
	if content == "" {
		return nil, fmt.Errorf("message content must not be empty")
	}
	if model == "" {
		model = s.defaultModel
	}

	// First-user-message check happens before the new message is written.
	existing, err := s.store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	isFirstUserMessage := true
	for _, m := range existing {
		if m.Role == models.RoleUser {
			isFirstUserMessage = false
			break
		}
	}

	userMsg, err := s.store.CreateMessage(ctx, chatID, models.RoleUser, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create user message: %w", err)
	}
	s.hub.Publish(chatID, events.MessageEvent{Action: "create", Message: userMsg})

	prompt := s.buildPrompt(ctx, chatID)
	provider := s.container.Provider()

	// Fan out the title call alongside the response call when needed, and
	// join both before proceeding. The title task must never fail or delay
	// the reply path beyond its own duration.
	var title string
	var wg sync.WaitGroup
	if isFirstUserMessage {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t, titleErr := provider.GenerateTitle(ctx, content, model)
			if titleErr != nil {
				s.logger.Warn("title generation failed",
					zap.String("chat_id", chatID.String()),
					zap.Error(titleErr))
				return
			}
			title = t
		}()
	}

	reply, respErr := provider.GenerateResponse(ctx, prompt, model)
	wg.Wait()
	if respErr != nil {
		return nil, fmt.Errorf("failed to generate response: %w", respErr)
	}

	aiMsg, err := s.store.CreateMessage(ctx, chatID, models.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant message: %w", err)
	}
	s.hub.Publish(chatID, events.MessageEvent{Action: "create", Message: aiMsg})

	// The two messages are durable at this point; a failed title update is
	// logged, not surfaced.
	var updatedChat *models.Chat
	if title != "" {
		chat, updateErr := s.store.UpdateChatTitle(ctx, chatID, title)
		if updateErr != nil {
			s.logger.Error("failed to update chat title",
				zap.String("chat_id", chatID.String()),
				zap.Error(updateErr))
		} else {
			updatedChat = chat
		}
	}

	return &models.SendMessageResponse{
		UserMessage: userMsg,
		AIMessage:   aiMsg,
		UpdatedChat: updatedChat,
	}, nil
}

// buildPrompt assembles the provider context under the configured policy.
func (s *ChatService) buildPrompt(ctx context.Context, chatID uuid.UUID) []models.PromptMessage {
	cm := s.container.ContextManager()
	if s.contextPolicy == config.ContextPolicyTokens {
		return cm.BuildContextWithTokenLimit(ctx, chatID, s.maxTokens)
	}
	return cm.BuildContext(ctx, chatID)
}
