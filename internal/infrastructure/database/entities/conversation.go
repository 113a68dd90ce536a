package entities

import (
	"time"

	"jan-server/services/chat-api/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID    string    `gorm:"type:varchar(128);index:idx_conversations_user_created,priority:1;not null;default:''"`
	Title     string    `gorm:"type:varchar(256);not null"`
	CreatedAt time.Time `gorm:"index:idx_conversations_user_created,priority:2;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts database entity to domain model
func (c *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        c.PublicID,
		OwnerID:   c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

// NewSchemaConversation creates a database entity from domain model
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		PublicID:  c.ID,
		UserID:    c.OwnerID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
