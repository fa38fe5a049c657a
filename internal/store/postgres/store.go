package postgres

import (
	"context"
	"errors"
	"fmt"

	"minichat-backend/internal/models"
	"minichat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

const schema = `
CREATE TABLE IF NOT EXISTS chats (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
    id UUID PRIMARY KEY,
    chat_id UUID NOT NULL REFERENCES chats(id),
    role TEXT NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_chat_created
    ON messages (chat_id, created_at);
`

// EnsureSchema creates the chats and messages tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("database error creating schema: %w", err)
	}
	return nil
}

// isBenignCancellation reports whether a read failed only because its context
// was superseded (e.g. rapid navigation re-issuing the request). Such reads
// are treated as "no data" rather than failures.
func isBenignCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// --- Chat operations ---

const listChats = `
SELECT id, title, created_at, updated_at
FROM chats
ORDER BY created_at DESC;
`

func (s *PostgresStore) ListChats(ctx context.Context) ([]models.Chat, error) {
	rows, err := s.db.Query(ctx, listChats)
	if err != nil {
		if isBenignCancellation(err) {
			s.logger.Debug("ListChats superseded, returning no data")
			return []models.Chat{}, nil
		}
		return nil, fmt.Errorf("database error listing chats: %w", err)
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning chat: %w", err)
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		if isBenignCancellation(err) {
			s.logger.Debug("ListChats superseded mid-read, returning no data")
			return []models.Chat{}, nil
		}
		return nil, fmt.Errorf("database error iterating chats: %w", err)
	}
	return chats, nil
}

const getChatByID = `
SELECT id, title, created_at, updated_at
FROM chats
WHERE id = $1;
`

func (s *PostgresStore) GetChatByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	chat := &models.Chat{}
	err := s.db.QueryRow(ctx, getChatByID, id).Scan(
		&chat.ID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching chat %s: %w", id, err)
	}
	return chat, nil
}

const createChat = `
INSERT INTO chats (id, title)
VALUES ($1, $2)
RETURNING id, title, created_at, updated_at;
`

func (s *PostgresStore) CreateChat(ctx context.Context, title string) (*models.Chat, error) {
	chat := &models.Chat{}
	err := s.db.QueryRow(ctx, createChat, uuid.New(), title).Scan(
		&chat.ID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			s.logger.Error("CreateChat insert failed",
				zap.String("code", pgErr.Code),
				zap.String("detail", pgErr.Detail))
		}
		return nil, fmt.Errorf("database error creating chat: %w", err)
	}
	s.logger.Debug("chat created", zap.String("chat_id", chat.ID.String()))
	return chat, nil
}

const updateChatTitle = `
UPDATE chats
SET title = $2, updated_at = now()
WHERE id = $1
RETURNING id, title, created_at, updated_at;
`

func (s *PostgresStore) UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) (*models.Chat, error) {
	chat := &models.Chat{}
	err := s.db.QueryRow(ctx, updateChatTitle, id, title).Scan(
		&chat.ID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error updating chat %s: %w", id, err)
	}
	return chat, nil
}

// DeleteChat removes a chat's messages and then the chat itself.
// The two deletes run sequentially, not in a transaction; a failure between
// them leaves an empty chat behind rather than orphaned messages.
func (s *PostgresStore) DeleteChat(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting messages for chat %s: %w", id, err)
	}
	s.logger.Debug("chat messages deleted",
		zap.String("chat_id", id.String()),
		zap.Int64("count", res.RowsAffected()))

	tag, err := s.db.Exec(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("database error deleting chat %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Message operations ---

const listMessages = `
SELECT id, chat_id, role, content, created_at, updated_at
FROM messages
WHERE chat_id = $1
ORDER BY created_at ASC;
`

func (s *PostgresStore) ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, listMessages, chatID)
	if err != nil {
		if isBenignCancellation(err) {
			s.logger.Debug("ListMessages superseded, returning no data",
				zap.String("chat_id", chatID.String()))
			return []models.Message{}, nil
		}
		return nil, fmt.Errorf("database error listing messages for chat %s: %w", chatID, err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		if isBenignCancellation(err) {
			s.logger.Debug("ListMessages superseded mid-read, returning no data",
				zap.String("chat_id", chatID.String()))
			return []models.Message{}, nil
		}
		return nil, fmt.Errorf("database error iterating messages: %w", err)
	}
	return messages, nil
}

const createMessage = `
INSERT INTO messages (id, chat_id, role, content)
VALUES ($1, $2, $3, $4)
RETURNING id, chat_id, role, content, created_at, updated_at;
`

func (s *PostgresStore) CreateMessage(ctx context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid message role %q", role)
	}

	msg := &models.Message{}
	err := s.db.QueryRow(ctx, createMessage, uuid.New(), chatID, role, content).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			s.logger.Error("CreateMessage insert failed",
				zap.String("chat_id", chatID.String()),
				zap.String("code", pgErr.Code),
				zap.String("detail", pgErr.Detail))
		}
		return nil, fmt.Errorf("database error creating message: %w", err)
	}
	return msg, nil
}

const updateMessage = `
UPDATE messages
SET content = $2, updated_at = now()
WHERE id = $1
RETURNING id, chat_id, role, content, created_at, updated_at;
`

func (s *PostgresStore) UpdateMessage(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	msg := &models.Message{}
	err := s.db.QueryRow(ctx, updateMessage, id, content).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error updating message %s: %w", id, err)
	}
	return msg, nil
}

const deleteMessage = `
DELETE FROM messages
WHERE id = $1
RETURNING id, chat_id, role, content, created_at, updated_at;
`

func (s *PostgresStore) DeleteMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	msg := &models.Message{}
	err := s.db.QueryRow(ctx, deleteMessage, id).Scan(
		&msg.ID,
		&msg.ChatID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error deleting message %s: %w", id, err)
	}
	return msg, nil
}
