package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/utils/idgen"
)

func TestInMemoryRepositoryConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	now := time.Now().UTC()

	id, err := repo.InsertConversation(ctx, &domain.Conversation{OwnerID: "u1", Title: "first", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.True(t, idgen.ValidateIDFormat(id, idgen.PrefixConversation))

	found, err := repo.FindConversation(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Title)

	found.Title = "mutated"
	again, _ := repo.FindConversation(ctx, id)
	assert.Equal(t, "first", again.Title, "callers get copies")

	missing, err := repo.FindConversation(ctx, "conv_missing")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repo.UpdateConversationTitle(ctx, id, "renamed", now.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateConversationTitle(ctx, "conv_missing", "renamed", now)
	require.NoError(t, err)
	assert.False(t, ok)

	count, _ := repo.CountConversations(ctx)
	assert.Equal(t, int64(1), count)
}

func TestInMemoryRepositoryListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := repo.InsertConversation(ctx, &domain.Conversation{OwnerID: "u1", Title: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := repo.InsertConversation(ctx, &domain.Conversation{OwnerID: "u2", Title: "other"})
	require.NoError(t, err)

	list, err := repo.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, conv := range list {
		assert.Equal(t, ids[i], conv.ID)
	}

	empty, err := repo.ListConversations(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryRepositoryMessageOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Same timestamp for the first two: insertion order decides.
	inputs := []struct {
		content string
		at      time.Time
	}{
		{"b", base.Add(time.Second)},
		{"c", base.Add(time.Second)},
		{"a", base},
		{"d", base.Add(2 * time.Second)},
	}
	for _, in := range inputs {
		_, err := repo.InsertMessage(ctx, &domain.Message{ConversationID: "conv_1", Role: domain.RoleUser, Content: in.content, CreatedAt: in.at})
		require.NoError(t, err)
	}

	msgs, err := repo.FindMessages(ctx, "conv_1")
	require.NoError(t, err)
	var got []string
	for _, m := range msgs {
		got = append(got, m.Content)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestInMemoryRepositoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	id, err := repo.InsertConversation(ctx, &domain.Conversation{OwnerID: "u1"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := repo.InsertMessage(ctx, &domain.Message{ConversationID: id, Role: domain.RoleUser, Content: "hi"})
		require.NoError(t, err)
	}

	deleted, err := repo.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	msgs, _ := repo.FindMessages(ctx, id)
	assert.Empty(t, msgs)
	conv, _ := repo.FindConversation(ctx, id)
	assert.Nil(t, conv)

	deleted, err = repo.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	removed, err := repo.DeleteMessages(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestInMemoryRepositoryTimestampOnlyAdvances(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	now := time.Now().UTC()

	id, _ := repo.InsertConversation(ctx, &domain.Conversation{OwnerID: "u1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, repo.UpdateConversationTimestamp(ctx, id, now.Add(-time.Hour)))

	conv, _ := repo.FindConversation(ctx, id)
	assert.Equal(t, now, conv.UpdatedAt)

	later := now.Add(time.Minute)
	require.NoError(t, repo.UpdateConversationTimestamp(ctx, id, later))
	conv, _ = repo.FindConversation(ctx, id)
	assert.Equal(t, later, conv.UpdatedAt)
}

func TestInMemoryRepositoryConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.InsertMessage(ctx, &domain.Message{ConversationID: "conv_1", Role: domain.RoleUser, Content: "x"})
		}()
	}
	wg.Wait()

	msgs, err := repo.FindMessages(ctx, "conv_1")
	require.NoError(t, err)
	assert.Len(t, msgs, 50)
}
