package handlers

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/infrastructure/metrics"
	repo "jan-server/services/chat-api/internal/infrastructure/repository/conversation"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

type countingChat struct {
	calls int
}

func (c *countingChat) SendMessage(_ context.Context, conversationID, content string) (*conversation.Message, error) {
	c.calls++
	return &conversation.Message{ID: "msg_1", ConversationID: conversationID, Role: conversation.RoleAssistant, Content: "ok"}, nil
}

func newProvider(t *testing.T) (*Provider, *countingChat, *conversation.Conversation) {
	t.Helper()
	reg := metrics.NewRegistry("", zerolog.Nop())
	svc := conversation.NewService(repo.NewInMemoryRepository(), reg)
	conv, err := svc.CreateConversation(context.Background(), "owner-a", "Trip planning")
	require.NoError(t, err)
	chat := &countingChat{}
	return NewProvider(svc, chat, reg, zerolog.Nop()), chat, conv
}

func TestScopeHidesForeignConversations(t *testing.T) {
	p, chat, conv := newProvider(t)
	ctx := context.Background()

	_, err := p.Conversation.GetConversation(ctx, conv.ID, "owner-b")
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))

	_, err = p.Conversation.DeleteConversation(ctx, conv.ID, "owner-b")
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))

	_, err = p.Chat.SendMessage(ctx, conv.ID, "owner-b", "hello")
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))
	assert.Zero(t, chat.calls)

	got, err := p.Conversation.GetConversation(ctx, conv.ID, "owner-a")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	got, err = p.Conversation.GetConversation(ctx, conv.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "owner-a", got.UserID)
}

func TestSendMessageChecksExistenceFirst(t *testing.T) {
	p, chat, conv := newProvider(t)

	_, err := p.Chat.SendMessage(context.Background(), "conv_missing", "", "hello")
	assert.Equal(t, 404, platformerrors.HTTPStatus(err))
	assert.Zero(t, chat.calls)

	reply, err := p.Chat.SendMessage(context.Background(), conv.ID, "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, 1, chat.calls)
}

func TestMetricsSummaryAggregates(t *testing.T) {
	reg := metrics.NewRegistry("", zerolog.Nop())
	reg.RecordConversationCreated()
	reg.RecordConversationCreated()
	reg.RecordConversationDeleted()
	reg.RecordMessage("user", 5)
	reg.RecordMessage("assistant", 7)
	reg.RecordLLMCall("gpt-4", "success", 0)
	reg.RecordLLMCall("gpt-4", "error", 0)
	reg.RecordTokens("gpt-4", 100, 50, 150)
	reg.RecordError("api_error", "llm")

	summary := NewMetricsHandler(reg).Summary()
	assert.Equal(t, 2.0, summary.Conversations.TotalCreated)
	assert.Equal(t, 1.0, summary.Conversations.TotalDeleted)
	assert.Equal(t, 1.0, summary.Conversations.ActiveCount)
	assert.Equal(t, 2.0, summary.Messages.TotalMessages)
	assert.Equal(t, 1.0, summary.Messages.ByRole["assistant"])
	assert.Equal(t, 2.0, summary.LLM.TotalAPICalls)
	assert.Equal(t, 1.0, summary.LLM.CallsByStatus["error"])
	assert.Equal(t, 150.0, summary.LLM.TotalTokens)
	assert.Equal(t, 100.0, summary.LLM.TokensByType["prompt"])
	assert.Equal(t, 1.0, summary.Errors.ByService["llm"])
}
