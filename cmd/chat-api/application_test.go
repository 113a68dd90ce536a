package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-api/internal/config"
	"jan-server/services/chat-api/internal/infrastructure/metrics"
)

func memoryConfig() *config.Config {
	return &config.Config{
		ServiceName:      "chat-api",
		AppVersion:       "1.0.0",
		StoreDriver:      config.StoreDriverMemory,
		LLMProvider:      config.LLMProviderHTTP,
		LLMBaseURL:       "http://127.0.0.1:1",
		LLMModel:         "gpt-3.5-turbo",
		LLMTimeout:       time.Second,
		LogContentLevel:  "hashed",
		MetricsNamespace: metrics.DefaultNamespace,
		ShutdownTimeout:  time.Second,
	}
}

func TestBuildApplicationWithMemoryStore(t *testing.T) {
	app, cleanup, err := buildApplication(context.Background(), memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	app.httpServer.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `genesis_ai_application_info{default_model="gpt-3.5-turbo",name="chat-api",version="1.0.0"} 1`)
	assert.Contains(t, rec.Body.String(), "genesis_ai_active_conversations 0")
}

func TestBuildApplicationRejectsUnknownProvider(t *testing.T) {
	cfg := memoryConfig()
	cfg.LLMProvider = "carrier-pigeon"

	_, _, err := buildApplication(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := newLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}
