package routes

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

// Provider encapsulates /api route registration.
type Provider struct {
	handlers *handlers.Provider
	authMW   gin.HandlerFunc
}

// NewProvider builds the route registrar. authMiddleware guards the
// conversation routes and may be nil.
func NewProvider(handlerProvider *handlers.Provider, authMiddleware gin.HandlerFunc) *Provider {
	return &Provider{
		handlers: handlerProvider,
		authMW:   authMiddleware,
	}
}

// Register attaches all routes under the /api prefix.
func (r *Provider) Register(engine *gin.Engine) {
	api := engine.Group("/api")

	conversations := api.Group("/conversations")
	if r.authMW != nil {
		conversations.Use(r.authMW)
	}
	registerConversationRoutes(conversations, r.handlers.Conversation, r.handlers.Chat)

	registerMetricsRoutes(api.Group("/metrics"), r.handlers.Metrics)
}
