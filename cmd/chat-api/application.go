package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/chat-api/internal/config"
	"jan-server/services/chat-api/internal/domain/chat"
	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/domain/llm"
	"jan-server/services/chat-api/internal/infrastructure/auth"
	"jan-server/services/chat-api/internal/infrastructure/database"
	"jan-server/services/chat-api/internal/infrastructure/llmprovider"
	"jan-server/services/chat-api/internal/infrastructure/logger"
	"jan-server/services/chat-api/internal/infrastructure/metrics"
	"jan-server/services/chat-api/internal/infrastructure/observability"
	repo "jan-server/services/chat-api/internal/infrastructure/repository/conversation"
	"jan-server/services/chat-api/internal/infrastructure/telemetry"
	"jan-server/services/chat-api/internal/interfaces/httpserver"
)

// @title Chat API
// @version 1.0
// @description Conversations, messages and LLM chat turns with Prometheus metrics.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/jan-server
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

// buildApplication assembles the service by hand; wire.go describes the same graph.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	store, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	registry := newMetricsRegistry(cfg, log)

	conversations, err := newConversationService(ctx, cfg, store, registry, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	provider, err := llmprovider.New(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	gateway := newGateway(cfg, provider, registry, log)
	orchestrator := newOrchestrator(conversations, gateway, registry, log)

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initialize auth validator: %w", err)
	}

	httpServer := httpserver.New(cfg, log, conversations, orchestrator, registry, authValidator)
	return NewApplication(httpServer, log), cleanup, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Service:     cfg.ServiceName,
		Environment: cfg.Environment,
	})
}

func newTelemetry(ctx context.Context, cfg *config.Config, log zerolog.Logger) (observability.Shutdown, error) {
	return observability.Setup(ctx, cfg, log)
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

// newStore opens the document store selected by STORE_DRIVER.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (conversation.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return repo.NewInMemoryRepository(), func() {}, nil
	}

	db, err := database.Connect(newDatabaseConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return repo.NewPostgresRepository(db), cleanup, nil
}

func newMetricsRegistry(cfg *config.Config, log zerolog.Logger) *metrics.Registry {
	registry := metrics.NewRegistry(cfg.MetricsNamespace, log)
	registry.SetApplicationInfo(cfg.AppVersion, cfg.ServiceName, cfg.LLMModel)
	return registry
}

// newConversationService builds the service and seeds the active gauge from the store.
func newConversationService(ctx context.Context, cfg *config.Config, store conversation.Store, registry *metrics.Registry, log zerolog.Logger) (*conversation.Service, error) {
	svc := conversation.NewService(store, registry,
		conversation.WithStrictConversationCheck(cfg.StrictConversationCheck),
		conversation.WithLogger(log),
	)
	if _, err := svc.SyncActiveConversations(ctx); err != nil {
		return nil, fmt.Errorf("sync active conversations: %w", err)
	}
	return svc, nil
}

func newGateway(cfg *config.Config, provider llm.Provider, registry *metrics.Registry, log zerolog.Logger) *llm.Gateway {
	sanitizer := telemetry.NewSanitizer(telemetry.ParseContentLevel(cfg.LogContentLevel), cfg.ServiceName)
	return llm.NewGateway(provider, registry, llm.GatewayConfig{
		Model:        cfg.LLMModel,
		Timeout:      cfg.LLMTimeout,
		SystemPrompt: cfg.LLMSystemPrompt,
	}, log,
		llm.WithSanitizer(sanitizer),
		llm.WithTracer(observability.GetTracer()),
	)
}

func newOrchestrator(conversations *conversation.Service, gateway *llm.Gateway, registry *metrics.Registry, log zerolog.Logger) *chat.Orchestrator {
	return chat.NewOrchestrator(conversations, gateway, registry, log)
}
