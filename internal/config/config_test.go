package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chat-api", cfg.ServiceName)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLMModel)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "genesis_ai", cfg.MetricsNamespace)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, ":8000", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "http")
	t.Setenv("LLM_BASE_URL", "http://llm-api:8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LLMProviderHTTP, cfg.LLMProvider)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:  StoreDriverMemory,
			LLMProvider:  LLMProviderOpenAI,
			OpenAIAPIKey: "sk-test",
			LLMTimeout:   time.Second,
			SamplingRate: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing api key", func(c *Config) { c.OpenAIAPIKey = "" }, "OPENAI_API_KEY"},
		{"unknown provider", func(c *Config) { c.LLMProvider = "bedrock" }, "LLM_PROVIDER"},
		{"unknown store", func(c *Config) { c.StoreDriver = "mongo" }, "STORE_DRIVER"},
		{"auth without issuer", func(c *Config) { c.AuthEnabled = true }, "AUTH_ISSUER"},
		{"auth without audience", func(c *Config) {
			c.AuthEnabled = true
			c.AuthIssuer = "https://issuer.test"
		}, "AUTH_AUDIENCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFillsTimeout(t *testing.T) {
	cfg := &Config{StoreDriver: StoreDriverMemory, LLMProvider: LLMProviderHTTP, LLMBaseURL: "http://x"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
}
