package llmprovider

import (
	"fmt"

	"jan-server/services/chat-api/internal/config"
	"jan-server/services/chat-api/internal/domain/llm"
)

// New selects the provider named by LLM_PROVIDER.
func New(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMBaseURL), nil
	case config.LLMProviderHTTP:
		return NewHTTPClient(cfg.LLMBaseURL, cfg.OpenAIAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
