package models

import (
	"time"

	"github.com/google/uuid"
)

// Role tags a message with its author kind. It determines prompt formatting
// when the message is projected into a provider context.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ValidRole reports whether r is one of the three defined roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Chat represents a conversation container in the database.
// The title starts as a placeholder and is overwritten once, after the first
// exchange, by a model-generated summary.
type Chat struct {
	ID        uuid.UUID `db:"id" json:"chat_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created"`
	UpdatedAt time.Time `db:"updated_at" json:"updated"`
}

// Message represents a single turn in a chat.
// Within a chat, messages are totally ordered by creation time; that order is
// the canonical conversation order.
type Message struct {
	ID        uuid.UUID `db:"id" json:"msg_id"`
	ChatID    uuid.UUID `db:"chat_id" json:"chat_id"`
	Role      Role      `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created"`
	UpdatedAt time.Time `db:"updated_at" json:"updated"`
}

// PromptMessage is a transient (role, content) pair handed to an AI provider.
// It is produced by projecting a Message or by injecting the fixed system
// instruction; it is never persisted.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
