package llm

import (
	"context"
)

// Provider performs one non-streaming call against an OpenAI compatible
// /v1/chat/completions endpoint.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest mirrors the OpenAI request shape.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// ChatMessage represents a single message in the conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse captures the non-streaming completion payload.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
	Usage   *Usage                 `json:"usage,omitempty"`
}

// ChatCompletionChoice represents one completion choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token accounting metadata.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// FailureContent is the assistant text stored when the provider call fails.
const FailureContent = "[Error: LLM service unavailable]"

// Completion is the outcome of a gateway call: either Text with Usage, or Err.
type Completion struct {
	Text  string
	Usage Usage
	Model string
	Err   error
}

// OK reports whether the provider returned usable text.
func (c Completion) OK() bool {
	return c.Err == nil
}

// Content returns the generated text, or FailureContent when the call failed.
func (c Completion) Content() string {
	if !c.OK() {
		return FailureContent
	}
	return c.Text
}
