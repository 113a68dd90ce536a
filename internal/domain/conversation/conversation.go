package conversation

import (
	"context"
	"time"
)

// ===============================================
// Conversation Types
// ===============================================

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// DefaultTitle is used when a conversation is created with a blank title.
const DefaultTitle = "New Conversation"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ===============================================
// Conversation Structure
// ===============================================

type Conversation struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is immutable once stored. CreatedAt is always assigned server side.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ===============================================
// Store Interface
// ===============================================

// Store persists conversations and messages. Lookups of unknown ids return
// nil with a nil error; only storage failures are reported as errors.
type Store interface {
	InsertConversation(ctx context.Context, conv *Conversation) (string, error)
	FindConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context, ownerID string) ([]*Conversation, error)
	InsertMessage(ctx context.Context, msg *Message) (string, error)
	// FindMessages returns messages ordered by CreatedAt, ties broken by insertion order.
	FindMessages(ctx context.Context, conversationID string) ([]*Message, error)
	UpdateConversationTimestamp(ctx context.Context, id string, ts time.Time) error
	UpdateConversationTitle(ctx context.Context, id, title string, ts time.Time) (bool, error)
	DeleteConversation(ctx context.Context, id string) (bool, error)
	DeleteMessages(ctx context.Context, conversationID string) (int64, error)
	CountConversations(ctx context.Context) (int64, error)
}

// Metrics receives conversation lifecycle events after they are persisted.
type Metrics interface {
	RecordConversationCreated()
	RecordConversationDeleted()
	SetActiveConversations(count int64)
	RecordMessage(role string, length int)
}
