package handlers

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/infrastructure/observability"
	"jan-server/services/chat-api/internal/interfaces/httpserver/responses"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// ChatService runs one chat turn.
type ChatService interface {
	SendMessage(ctx context.Context, conversationID, content string) (*conversation.Message, error)
}

// ChatHandler serves the send-message use case.
type ChatHandler struct {
	conversations ConversationLookup
	chat          ChatService
}

// NewChatHandler wires dependencies for chat routes.
func NewChatHandler(conversations ConversationLookup, chat ChatService) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		chat:          chat,
	}
}

// SendMessage stores content as a user message and returns the assistant
// reply. The conversation must exist before the LLM is called.
func (h *ChatHandler) SendMessage(ctx context.Context, conversationID, scope, content string) (*responses.MessageResponse, error) {
	ctx, span := observability.GetTracer().Start(ctx, "chat.send_message",
		trace.WithAttributes(observability.ConversationAttributes(conversationID)...),
	)
	defer span.End()

	if _, err := loadConversation(ctx, h.conversations, conversationID, scope); err != nil {
		return nil, err
	}

	reply, err := h.chat.SendMessage(ctx, conversationID, content)
	if err != nil {
		if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
			observability.RecordError(span, err)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to send message")
	}

	resp := responses.FromMessage(reply)
	return &resp, nil
}
