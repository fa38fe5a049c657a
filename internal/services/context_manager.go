package services

import (
	"context"

	"minichat-backend/internal/models"
	"minichat-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// systemInstruction is the fixed system entry prepended to every prompt.
const systemInstruction = "You are a helpful AI assistant. Be concise, " +
	"friendly, and provide useful information. Keep your responses focused " +
	"and relevant to the conversation."

// ContextManager builds the exact prompt sequence handed to an AI provider
// for a given chat: one fixed system entry followed by a bounded suffix of
// the chat's history in chronological order. It never mutates persisted
// state.
type ContextManager struct {
	store       store.Store
	logger      *zap.Logger
	maxMessages int
}

// NewContextManager creates a ContextManager bounding history inclusion to
// maxMessages entries (excluding the system entry).
func NewContextManager(st store.Store, maxMessages int, logger *zap.Logger) *ContextManager {
	return &ContextManager{
		store:       st,
		logger:      logger,
		maxMessages: maxMessages,
	}
}

func systemEntry() models.PromptMessage {
	return models.PromptMessage{Role: models.RoleSystem, Content: systemInstruction}
}

// BuildContext returns the prompt for chatID under the fixed-count policy:
// the system entry plus at most maxMessages of the chat's most recent
// messages, order preserved. A persistence read failure degrades to the
// system-only prompt rather than failing the request.
func (m *ContextManager) BuildContext(ctx context.Context, chatID uuid.UUID) []models.PromptMessage {
	messages, err := m.store.ListMessages(ctx, chatID)
	if err != nil {
		m.logger.Error("failed to read history, degrading to system-only context",
			zap.String("chat_id", chatID.String()),
			zap.Error(err))
		return []models.PromptMessage{systemEntry()}
	}

	if len(messages) > m.maxMessages {
		messages = messages[len(messages)-m.maxMessages:]
	}

	prompt := make([]models.PromptMessage, 0, len(messages)+1)
	prompt = append(prompt, systemEntry())
	for _, msg := range messages {
		prompt = append(prompt, models.PromptMessage{Role: msg.Role, Content: msg.Content})
	}
	return prompt
}

// BuildContextWithTokenLimit returns the prompt for chatID under the
// token-budget policy. History is walked newest to oldest, each message
// costing estimateTokens(content), until adding a message would exceed
// maxTokens or the message-count bound is reached, whichever binds first.
// The system entry's own cost counts toward the budget from the start, and
// the returned sequence is still chronological.
func (m *ContextManager) BuildContextWithTokenLimit(ctx context.Context, chatID uuid.UUID, maxTokens int) []models.PromptMessage {
	messages, err := m.store.ListMessages(ctx, chatID)
	if err != nil {
		m.logger.Error("failed to read history, degrading to system-only context",
			zap.String("chat_id", chatID.String()),
			zap.Error(err))
		return []models.PromptMessage{systemEntry()}
	}

	tokenCount := estimateTokens(systemInstruction)
	tail := []models.PromptMessage{}

	for i := len(messages) - 1; i >= 0 && len(tail) < m.maxMessages; i-- {
		cost := estimateTokens(messages[i].Content)
		if tokenCount+cost > maxTokens {
			m.logger.Debug("token budget reached",
				zap.String("chat_id", chatID.String()),
				zap.Int("tokens", tokenCount))
			break
		}
		tail = append(tail, models.PromptMessage{Role: messages[i].Role, Content: messages[i].Content})
		tokenCount += cost
	}

	// tail was accumulated newest-first; reverse into chronological order.
	prompt := make([]models.PromptMessage, 0, len(tail)+1)
	prompt = append(prompt, systemEntry())
	for i := len(tail) - 1; i >= 0; i-- {
		prompt = append(prompt, tail[i])
	}
	return prompt
}

// estimateTokens approximates a text's token cost as ceil(len/4). The
// estimate is deliberately cheap; it bounds prompt size, it does not try to
// match any particular tokenizer.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}
