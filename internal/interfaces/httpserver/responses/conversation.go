package responses

import (
	"time"

	"jan-server/services/chat-api/internal/domain/conversation"
)

// ConversationResponse is the wire form of a conversation.
type ConversationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse is the wire form of a message.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationListResponse wraps a list of conversations.
type ConversationListResponse struct {
	Data  []ConversationResponse `json:"data"`
	Total int                    `json:"total"`
}

// MessageListResponse wraps the ordered messages of a conversation.
type MessageListResponse struct {
	ConversationID string            `json:"conversation_id"`
	Data           []MessageResponse `json:"data"`
	Total          int               `json:"total"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func FromConversation(c *conversation.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID,
		UserID:    c.OwnerID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromMessage(m *conversation.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func FromConversations(items []*conversation.Conversation) ConversationListResponse {
	data := make([]ConversationResponse, 0, len(items))
	for _, item := range items {
		data = append(data, FromConversation(item))
	}
	return ConversationListResponse{Data: data, Total: len(data)}
}

func FromMessages(conversationID string, items []*conversation.Message) MessageListResponse {
	data := make([]MessageResponse, 0, len(items))
	for _, item := range items {
		data = append(data, FromMessage(item))
	}
	return MessageListResponse{ConversationID: conversationID, Data: data, Total: len(data)}
}
