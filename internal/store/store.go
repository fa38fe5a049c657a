package store

import (
	"context"
	"errors"

	"minichat-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// Store defines the interface to the persistence gateway.
// This allows for mocking in tests and potential DB backend switching.
//
// Ordering contracts: ListChats returns chats newest first; ListMessages
// returns a chat's messages in ascending creation order (the canonical
// conversation order).
type Store interface {
	// Chat operations
	ListChats(ctx context.Context) ([]models.Chat, error)
	GetChatByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	CreateChat(ctx context.Context, title string) (*models.Chat, error)
	UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) (*models.Chat, error)
	// DeleteChat removes the chat and all of its messages. The cascade is
	// best-effort sequential: messages first, then the chat itself.
	DeleteChat(ctx context.Context, id uuid.UUID) error

	// Message operations
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
	CreateMessage(ctx context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, content string) (*models.Message, error)
	// DeleteMessage removes a single message and returns the deleted record,
	// so callers can tell subscribers of the affected chat what disappeared.
	DeleteMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
}
