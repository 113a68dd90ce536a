package entities

import (
	"time"

	"jan-server/services/chat-api/internal/domain/conversation"
)

// Message stores one immutable conversation message. ConversationID holds the
// conversation's public id and is not a foreign key constraint.
type Message struct {
	ID             uint      `gorm:"primaryKey;index:idx_messages_conversation_order,priority:3"`
	PublicID       string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID string    `gorm:"type:varchar(50);index:idx_messages_conversation_order,priority:1;not null"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_order,priority:2;not null"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model
func (m *Message) EtoD() *conversation.Message {
	return &conversation.Message{
		ID:             m.PublicID,
		ConversationID: m.ConversationID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

// NewSchemaMessage creates a database entity from domain model
func NewSchemaMessage(m *conversation.Message) *Message {
	return &Message{
		PublicID:       m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
