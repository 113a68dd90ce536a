package llmprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"jan-server/services/chat-api/internal/domain/llm"
)

// HTTPClient implements llm.Provider against any OpenAI compatible endpoint.
type HTTPClient struct {
	httpClient *resty.Client
	hasAPIKey  bool
}

// NewHTTPClient creates a Resty-backed client. baseURL may or may not end in /v1.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPClient{httpClient: client, hasAPIKey: apiKey != ""}
}

// CreateChatCompletion calls /v1/chat/completions. The gateway deadline on ctx bounds the call.
func (c *HTTPClient) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse
	request := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion)

	// The caller's token is forwarded only to keyless upstreams.
	if token := llm.AuthTokenFromContext(ctx); token != "" && !c.hasAPIKey {
		request.SetHeader("Authorization", token)
	}

	resp, err := request.Post("/v1/chat/completions")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("llm api error: %d %s", resp.StatusCode(), resp.String())
	}
	return &completion, nil
}

var _ llm.Provider = (*HTTPClient)(nil)
