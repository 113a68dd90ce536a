package llmprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-api/internal/config"
	"jan-server/services/chat-api/internal/domain/llm"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Try Lisbon."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
}`

type capturedRequest struct {
	path string
	auth string
	body llm.ChatCompletionRequest
}

func newCompletionServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

var request = llm.ChatCompletionRequest{
	Model:    "gpt-4",
	Messages: []llm.ChatMessage{{Role: "user", Content: "Where should I go?"}},
}

func TestHTTPClientCreateChatCompletion(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionBody)

	client := NewHTTPClient(srv.URL+"/v1", "sk-test")
	resp, err := client.CreateChatCompletion(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, request.Messages, captured.body.Messages)

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Try Lisbon.", resp.Choices[0].Message.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 13, resp.Usage.TotalTokens)
}

func TestHTTPClientForwardsContextToken(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionBody)

	client := NewHTTPClient(srv.URL, "")
	ctx := llm.ContextWithAuthToken(context.Background(), "Bearer user-token")
	_, err := client.CreateChatCompletion(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", captured.auth)
}

func TestHTTPClientAPIKeyWinsOverContextToken(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionBody)

	client := NewHTTPClient(srv.URL, "sk-test")
	ctx := llm.ContextWithAuthToken(context.Background(), "Bearer user-token")
	_, err := client.CreateChatCompletion(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", captured.auth)
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv, _ := newCompletionServer(t, http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`)

	_, err := NewHTTPClient(srv.URL, "").CreateChatCompletion(context.Background(), request)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHTTPClientHonoursDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPClient(srv.URL, "").CreateChatCompletion(ctx, request)
	assert.Error(t, err)
}

func TestOpenAIClientCreateChatCompletion(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionBody)

	client := NewOpenAIClient("sk-test", srv.URL+"/v1")
	resp, err := client.CreateChatCompletion(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "gpt-4", captured.body.Model)

	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Try Lisbon.", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 10, resp.Usage.PromptTokens)
}

func TestOpenAIClientError(t *testing.T) {
	srv, _ := newCompletionServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)

	_, err := NewOpenAIClient("sk-bad", srv.URL+"/v1").CreateChatCompletion(context.Background(), request)
	assert.Error(t, err)
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(&config.Config{LLMProvider: config.LLMProviderOpenAI, OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, p)

	p, err = New(&config.Config{LLMProvider: config.LLMProviderHTTP, LLMBaseURL: "http://llm"})
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, p)

	_, err = New(&config.Config{LLMProvider: "other"})
	assert.Error(t, err)
}
