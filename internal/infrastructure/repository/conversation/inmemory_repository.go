package conversation

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/utils/idgen"
)

// InMemoryRepository is a thread-safe store used by tests and STORE_DRIVER=memory.
type InMemoryRepository struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	order         []string
	messages      map[string][]*domain.Message
}

// NewInMemoryRepository creates an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[string]*domain.Conversation),
		messages:      make(map[string][]*domain.Message),
	}
}

var _ domain.Store = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) InsertConversation(ctx context.Context, conv *domain.Conversation) (string, error) {
	id, err := newID(ctx, idgen.PrefixConversation)
	if err != nil {
		return "", err
	}

	stored := *conv
	stored.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[id] = &stored
	r.order = append(r.order, id)
	return id, nil
}

func (r *InMemoryRepository) FindConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, nil
	}
	out := *conv
	return &out, nil
}

func (r *InMemoryRepository) ListConversations(ctx context.Context, ownerID string) ([]*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Conversation, 0)
	for _, id := range r.order {
		conv := r.conversations[id]
		if conv.OwnerID != ownerID {
			continue
		}
		out := *conv
		result = append(result, &out)
	}
	return result, nil
}

func (r *InMemoryRepository) InsertMessage(ctx context.Context, msg *domain.Message) (string, error) {
	id, err := newID(ctx, idgen.PrefixMessage)
	if err != nil {
		return "", err
	}

	stored := *msg
	stored.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], &stored)
	return id, nil
}

// FindMessages returns messages by CreatedAt; the stable sort keeps insertion order on ties.
func (r *InMemoryRepository) FindMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	r.mu.RLock()
	stored := r.messages[conversationID]
	result := make([]*domain.Message, len(stored))
	for i, msg := range stored {
		out := *msg
		result[i] = &out
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateConversationTimestamp(ctx context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[id]; ok && ts.After(conv.UpdatedAt) {
		conv.UpdatedAt = ts
	}
	return nil
}

func (r *InMemoryRepository) UpdateConversationTitle(ctx context.Context, id, title string, ts time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return false, nil
	}
	conv.Title = title
	if ts.After(conv.UpdatedAt) {
		conv.UpdatedAt = ts
	}
	return true, nil
}

func (r *InMemoryRepository) DeleteConversation(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.messages, id)
	if _, ok := r.conversations[id]; !ok {
		return false, nil
	}
	delete(r.conversations, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *InMemoryRepository) DeleteMessages(ctx context.Context, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := int64(len(r.messages[conversationID]))
	delete(r.messages, conversationID)
	return removed, nil
}

func (r *InMemoryRepository) CountConversations(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.conversations)), nil
}
