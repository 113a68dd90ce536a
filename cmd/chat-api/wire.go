//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jan-server/services/chat-api/internal/config"
	"jan-server/services/chat-api/internal/domain/chat"
	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/infrastructure/auth"
	"jan-server/services/chat-api/internal/infrastructure/llmprovider"
	"jan-server/services/chat-api/internal/interfaces/httpserver"
	"jan-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

var chatSet = wire.NewSet(
	newStore,
	newMetricsRegistry,
	newConversationService,
	llmprovider.New,
	newGateway,
	newOrchestrator,
	wire.Bind(new(handlers.ConversationService), new(*conversation.Service)),
	wire.Bind(new(handlers.ChatService), new(*chat.Orchestrator)),
)

// WireApplication assembles the service with Wire. Run `wire` in this
// directory to regenerate wire_gen.go.
func WireApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	wire.Build(
		chatSet,
		auth.NewValidator,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
