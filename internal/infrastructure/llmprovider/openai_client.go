package llmprovider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"jan-server/services/chat-api/internal/domain/llm"
)

// OpenAIClient implements llm.Provider with the go-openai SDK.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client for apiKey. An empty baseURL keeps the SDK default.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(clientConfig)}
}

// CreateChatCompletion performs one non-streaming completion.
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	out := &llm.ChatCompletionResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Choices: make([]llm.ChatCompletionChoice, 0, len(resp.Choices)),
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, llm.ChatCompletionChoice{
			Index: choice.Index,
			Message: llm.ChatMessage{
				Role:    choice.Message.Role,
				Content: choice.Message.Content,
			},
			FinishReason: string(choice.FinishReason),
		})
	}
	return out, nil
}

var _ llm.Provider = (*OpenAIClient)(nil)
