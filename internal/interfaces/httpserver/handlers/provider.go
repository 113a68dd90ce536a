package handlers

import (
	"github.com/rs/zerolog"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Chat         *ChatHandler
	Metrics      *MetricsHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(conversations ConversationService, chat ChatService, metricsSource MetricsSource, log zerolog.Logger) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversations, log),
		Chat:         NewChatHandler(conversations, chat),
		Metrics:      NewMetricsHandler(metricsSource),
	}
}
