package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-api/internal/domain/chat"
	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/domain/llm"
	"jan-server/services/chat-api/internal/infrastructure/metrics"
	repo "jan-server/services/chat-api/internal/infrastructure/repository/conversation"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

type scriptedProvider struct {
	calls   int
	last    llm.ChatCompletionRequest
	respond func(ctx context.Context) (*llm.ChatCompletionResponse, error)
}

func (p *scriptedProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	p.calls++
	p.last = req
	return p.respond(ctx)
}

type fixture struct {
	svc          *conversation.Service
	orchestrator *chat.Orchestrator
	provider     *scriptedProvider
	reg          *metrics.Registry
}

func newFixture(t *testing.T, timeout time.Duration, respond func(ctx context.Context) (*llm.ChatCompletionResponse, error)) *fixture {
	t.Helper()
	reg := metrics.NewRegistry("", zerolog.Nop())
	svc := conversation.NewService(repo.NewInMemoryRepository(), reg)
	provider := &scriptedProvider{respond: respond}
	gateway := llm.NewGateway(provider, reg, llm.GatewayConfig{Model: "gpt-3.5-turbo", Timeout: timeout}, zerolog.Nop())
	return &fixture{
		svc:          svc,
		orchestrator: chat.NewOrchestrator(svc, gateway, reg, zerolog.Nop()),
		provider:     provider,
		reg:          reg,
	}
}

func TestSendMessageSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Second, func(context.Context) (*llm.ChatCompletionResponse, error) {
		return &llm.ChatCompletionResponse{
			Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Role: "assistant", Content: "Try Lisbon."}}},
			Usage:   &llm.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15},
		}, nil
	})

	conv, err := f.svc.CreateConversation(ctx, "u1", "Trip planning")
	require.NoError(t, err)

	reply, err := f.orchestrator.SendMessage(ctx, conv.ID, "Where should I go?")
	require.NoError(t, err)
	assert.Equal(t, conversation.RoleAssistant, reply.Role)
	assert.Equal(t, "Try Lisbon.", reply.Content)

	require.Equal(t, 1, f.provider.calls)
	assert.Equal(t, []llm.ChatMessage{{Role: "user", Content: "Where should I go?"}}, f.provider.last.Messages)

	msgs, err := f.svc.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, conversation.RoleUser, msgs[0].Role)
	assert.Equal(t, reply.ID, msgs[1].ID)

	snap := f.reg.Snapshot()
	assert.Equal(t, 1.0, snap.Value(metrics.MessagesTotal, metrics.Labels{"role": "user"}))
	assert.Equal(t, 1.0, snap.Value(metrics.MessagesTotal, metrics.Labels{"role": "assistant"}))
	assert.Equal(t, 15.0, snap.Value(metrics.LLMTokensTotal, metrics.Labels{"model": "gpt-3.5-turbo", "token_type": "total"}))
	hist, ok := snap.Find(metrics.MessagesPerConversation, nil)
	require.True(t, ok)
	assert.Equal(t, uint64(1), hist.Count)
	assert.Equal(t, 2.0, hist.Sum)
}

func TestSendMessageTripPlanningTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 20*time.Millisecond, func(ctx context.Context) (*llm.ChatCompletionResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	conv, err := f.svc.CreateConversation(ctx, "u1", "Trip planning")
	require.NoError(t, err)

	before := f.reg.Snapshot().Value(metrics.ErrorsTotal, metrics.Labels{"error_type": "api_error", "service": "llm"})

	reply, err := f.orchestrator.SendMessage(ctx, conv.ID, "Where should I go?")
	require.NoError(t, err)
	assert.Equal(t, llm.FailureContent, reply.Content)

	msgs, err := f.svc.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Where should I go?", msgs[0].Content)
	assert.Equal(t, llm.FailureContent, msgs[1].Content)

	after := f.reg.Snapshot().Value(metrics.ErrorsTotal, metrics.Labels{"error_type": "api_error", "service": "llm"})
	assert.Equal(t, before+1, after)
}

func TestSendMessageStoresLongReply(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("x", conversation.DefaultValidationConfig().MaxContentLength+1)
	f := newFixture(t, time.Second, func(context.Context) (*llm.ChatCompletionResponse, error) {
		return &llm.ChatCompletionResponse{Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Content: long}}}}, nil
	})

	conv, err := f.svc.CreateConversation(ctx, "u1", "essay")
	require.NoError(t, err)

	reply, err := f.orchestrator.SendMessage(ctx, conv.ID, "Write a long essay")
	require.NoError(t, err)
	assert.Len(t, reply.Content, len(long))

	msgs, err := f.svc.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, long, msgs[1].Content)
}

func TestSendMessageHistoryGrows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Second, func(context.Context) (*llm.ChatCompletionResponse, error) {
		return &llm.ChatCompletionResponse{Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Content: "ok"}}}}, nil
	})

	conv, err := f.svc.CreateConversation(ctx, "u1", "")
	require.NoError(t, err)

	for _, q := range []string{"one", "two", "three"} {
		_, err := f.orchestrator.SendMessage(ctx, conv.ID, q)
		require.NoError(t, err)
	}

	assert.Len(t, f.provider.last.Messages, 5)
	assert.Equal(t, "three", f.provider.last.Messages[4].Content)

	hist, ok := f.reg.Snapshot().Find(metrics.MessagesPerConversation, nil)
	require.True(t, ok)
	assert.Equal(t, uint64(3), hist.Count)
	assert.Equal(t, 2.0+4.0+6.0, hist.Sum)
}

type brokenConversations struct {
	failOn conversation.Role
	added  []conversation.Role
}

func (b *brokenConversations) AddMessage(ctx context.Context, id string, role conversation.Role, content string) (*conversation.Message, error) {
	if role == b.failOn {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "insert failed", errors.New("down"), "")
	}
	b.added = append(b.added, role)
	return &conversation.Message{ID: "msg_x", ConversationID: id, Role: role, Content: content}, nil
}

func (b *brokenConversations) GetMessages(ctx context.Context, id string) ([]*conversation.Message, error) {
	return []*conversation.Message{{Role: conversation.RoleUser, Content: "hi"}}, nil
}

type countingCompleter struct{ calls int }

func (c *countingCompleter) Complete(context.Context, []llm.ChatMessage) llm.Completion {
	c.calls++
	return llm.Completion{Text: "ok"}
}

func TestSendMessageStorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("user message fails before llm call", func(t *testing.T) {
		convs := &brokenConversations{failOn: conversation.RoleUser}
		completer := &countingCompleter{}
		o := chat.NewOrchestrator(convs, completer, metrics.NewRegistry("", zerolog.Nop()), zerolog.Nop())

		_, err := o.SendMessage(ctx, "conv_1", "hi")
		require.Error(t, err)
		assert.True(t, conversation.IsStorageError(err))
		assert.Zero(t, completer.calls)
	})

	t.Run("assistant message fails after llm call", func(t *testing.T) {
		convs := &brokenConversations{failOn: conversation.RoleAssistant}
		completer := &countingCompleter{}
		o := chat.NewOrchestrator(convs, completer, metrics.NewRegistry("", zerolog.Nop()), zerolog.Nop())

		_, err := o.SendMessage(ctx, "conv_1", "hi")
		require.Error(t, err)
		assert.True(t, conversation.IsStorageError(err))
		assert.Equal(t, 1, completer.calls)
		assert.Equal(t, []conversation.Role{conversation.RoleUser}, convs.added)
	})
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	convs := &brokenConversations{}
	completer := &countingCompleter{}
	o := chat.NewOrchestrator(convs, completer, metrics.NewRegistry("", zerolog.Nop()), zerolog.Nop())

	_, err := o.SendMessage(context.Background(), "conv_1", "   ")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, convs.added)
	assert.Zero(t, completer.calls)
}
