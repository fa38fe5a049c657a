package services

import (
	"context"
	"sync"
	"time"

	"minichat-backend/internal/models"
	"minichat-backend/internal/store"

	"github.com/google/uuid"
)

// fakeStore is an in-memory store.Store used by the service tests. Failures
// are injected through the err fields; counters record side effects.
type fakeStore struct {
	mu    sync.Mutex
	chats map[uuid.UUID]*models.Chat
	msgs  map[uuid.UUID][]models.Message
	seq   int

	listMessagesErr  error
	createMessageErr error
	// failCreateAfter fails CreateMessage once n successful creates have
	// happened (0 disables the trigger).
	failCreateAfter int
	updateTitleErr  error
	titleUpdates    int
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		chats: make(map[uuid.UUID]*models.Chat),
		msgs:  make(map[uuid.UUID][]models.Message),
	}
}

// nextTime hands out strictly increasing creation timestamps.
func (f *fakeStore) nextTime() time.Time {
	f.seq++
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
}

func (f *fakeStore) ListChats(ctx context.Context) ([]models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chats := []models.Chat{}
	for _, c := range f.chats {
		chats = append(chats, *c)
	}
	return chats, nil
}

func (f *fakeStore) GetChatByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.chats[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) CreateChat(ctx context.Context, title string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.nextTime()
	chat := &models.Chat{ID: uuid.New(), Title: title, CreatedAt: now, UpdatedAt: now}
	f.chats[chat.ID] = chat
	copied := *chat
	return &copied, nil
}

func (f *fakeStore) UpdateChatTitle(ctx context.Context, id uuid.UUID, title string) (*models.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateTitleErr != nil {
		return nil, f.updateTitleErr
	}
	c, ok := f.chats[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = f.nextTime()
	f.titleUpdates++
	copied := *c
	return &copied, nil
}

func (f *fakeStore) DeleteChat(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chats[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.msgs, id)
	delete(f.chats, id)
	return nil
}

func (f *fakeStore) ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listMessagesErr != nil {
		return nil, f.listMessagesErr
	}
	out := make([]models.Message, len(f.msgs[chatID]))
	copy(out, f.msgs[chatID])
	return out, nil
}

func (f *fakeStore) CreateMessage(ctx context.Context, chatID uuid.UUID, role models.Role, content string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createMessageErr != nil {
		return nil, f.createMessageErr
	}
	if f.failCreateAfter > 0 && f.createdCountLocked() >= f.failCreateAfter {
		return nil, store.ErrNotFound
	}
	now := f.nextTime()
	msg := models.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.msgs[chatID] = append(f.msgs[chatID], msg)
	copied := msg
	return &copied, nil
}

func (f *fakeStore) createdCountLocked() int {
	n := 0
	for _, msgs := range f.msgs {
		n += len(msgs)
	}
	return n
}

func (f *fakeStore) UpdateMessage(ctx context.Context, id uuid.UUID, content string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for chatID := range f.msgs {
		for i := range f.msgs[chatID] {
			if f.msgs[chatID][i].ID == id {
				f.msgs[chatID][i].Content = content
				f.msgs[chatID][i].UpdatedAt = f.nextTime()
				copied := f.msgs[chatID][i]
				return &copied, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) DeleteMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for chatID := range f.msgs {
		for i := range f.msgs[chatID] {
			if f.msgs[chatID][i].ID == id {
				deleted := f.msgs[chatID][i]
				f.msgs[chatID] = append(f.msgs[chatID][:i], f.msgs[chatID][i+1:]...)
				return &deleted, nil
			}
		}
	}
	return nil, store.ErrNotFound
}

// seedMessage inserts a message directly, bypassing failure injection.
func (f *fakeStore) seedMessage(chatID uuid.UUID, role models.Role, content string) models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.nextTime()
	msg := models.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.msgs[chatID] = append(f.msgs[chatID], msg)
	return msg
}
