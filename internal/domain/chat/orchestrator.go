package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/domain/llm"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// ConversationService is the subset of conversation.Service used for a chat turn.
type ConversationService interface {
	AddMessage(ctx context.Context, conversationID string, role conversation.Role, content string) (*conversation.Message, error)
	GetMessages(ctx context.Context, conversationID string) ([]*conversation.Message, error)
}

// Completer produces the assistant reply for a history.
type Completer interface {
	Complete(ctx context.Context, history []llm.ChatMessage) llm.Completion
}

// Metrics records per-turn statistics.
type Metrics interface {
	RecordMessagesPerConversation(count int)
}

// Orchestrator runs one chat turn: persist the user message, ask the LLM,
// persist the reply. The steps are not transactional; a crash after the first
// write leaves a user message without a reply.
type Orchestrator struct {
	conversations ConversationService
	llm           Completer
	metrics       Metrics
	log           zerolog.Logger
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(conversations ConversationService, completer Completer, metrics Metrics, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		conversations: conversations,
		llm:           completer,
		metrics:       metrics,
		log:           log.With().Str("component", "chat-orchestrator").Logger(),
	}
}

// SendMessage stores content as a user message and returns the stored
// assistant reply. Provider failures yield a reply with llm.FailureContent;
// only storage and validation errors are returned.
func (o *Orchestrator) SendMessage(ctx context.Context, conversationID, content string) (*conversation.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message content is required", nil, "c1e3a5b7-d9f1-4a3c-b5e7-f9a1c3e5a7b9")
	}

	if _, err := o.conversations.AddMessage(ctx, conversationID, conversation.RoleUser, content); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	messages, err := o.conversations.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	completion := o.llm.Complete(ctx, toHistory(messages))

	reply, err := o.conversations.AddMessage(ctx, conversationID, conversation.RoleAssistant, completion.Content())
	if err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}

	o.metrics.RecordMessagesPerConversation(len(messages) + 1)

	o.log.Debug().
		Str("conversation_id", conversationID).
		Str("message_id", reply.ID).
		Bool("llm_ok", completion.OK()).
		Int("history_length", len(messages)+1).
		Msg("chat turn completed")
	return reply, nil
}

func toHistory(messages []*conversation.Message) []llm.ChatMessage {
	history := make([]llm.ChatMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return history
}
