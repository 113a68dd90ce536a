package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/infrastructure/database/entities"
	"jan-server/services/chat-api/internal/utils/idgen"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// PostgresRepository persists conversations and messages via PostgreSQL using GORM.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a repository backed by the provided DB.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ domain.Store = (*PostgresRepository)(nil)

// InsertConversation stores conv under a newly generated public id.
func (r *PostgresRepository) InsertConversation(ctx context.Context, conv *domain.Conversation) (string, error) {
	id, err := newID(ctx, idgen.PrefixConversation)
	if err != nil {
		return "", err
	}

	entity := entities.NewSchemaConversation(conv)
	entity.PublicID = id
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return "", dbError(ctx, "failed to create conversation", err, "9f2b4d6e-1a3c-4e5f-8b7d-0c2e4a6b8d1f")
	}
	return id, nil
}

// FindConversation returns nil, nil when the conversation does not exist.
func (r *PostgresRepository) FindConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Where("public_id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(ctx, "failed to fetch conversation", err, "1c3e5a7b-9d2f-4b6a-8c0e-3f5a7c9e1b2d")
	}
	return entity.EtoD(), nil
}

// ListConversations returns the owner's conversations in creation order.
func (r *PostgresRepository) ListConversations(ctx context.Context, ownerID string) ([]*domain.Conversation, error) {
	var rows []entities.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to list conversations", err, "2d4f6b8c-0e1a-4c3b-9d5f-7a9c1e3b5d7f")
	}

	result := make([]*domain.Conversation, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].EtoD())
	}
	return result, nil
}

// InsertMessage stores msg under a newly generated public id.
func (r *PostgresRepository) InsertMessage(ctx context.Context, msg *domain.Message) (string, error) {
	id, err := newID(ctx, idgen.PrefixMessage)
	if err != nil {
		return "", err
	}

	entity := entities.NewSchemaMessage(msg)
	entity.PublicID = id
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return "", dbError(ctx, "failed to create message", err, "3e5a7c9d-1f2b-4d4c-8e6a-9b1d3f5a7c9e")
	}
	return id, nil
}

// FindMessages returns messages by created_at, ties broken by the insert sequence.
func (r *PostgresRepository) FindMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(ctx, "failed to find messages", err, "4f6b8d0e-2a3c-4e5d-9f7b-0c2e4a6c8e0a")
	}

	result := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].EtoD())
	}
	return result, nil
}

// UpdateConversationTimestamp moves updated_at forward to ts. Older values are ignored.
func (r *PostgresRepository) UpdateConversationTimestamp(ctx context.Context, id string, ts time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("public_id = ? AND updated_at < ?", id, ts).
		Update("updated_at", ts).Error
	if err != nil {
		return dbError(ctx, "failed to update conversation timestamp", err, "5a7c9e1f-3b4d-4f6e-8a8c-1d3f5b7d9f1b")
	}
	return nil
}

// UpdateConversationTitle renames a conversation and reports whether it existed.
func (r *PostgresRepository) UpdateConversationTitle(ctx context.Context, id, title string, ts time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Conversation{}).
		Where("public_id = ?", id).
		Updates(map[string]any{"title": title, "updated_at": ts})
	if result.Error != nil {
		return false, dbError(ctx, "failed to update conversation title", result.Error, "6b8d0f2a-4c5e-4a7f-9b9d-2e4a6c8e0a2c")
	}
	return result.RowsAffected > 0, nil
}

// DeleteConversation removes the conversation and its messages in one transaction.
func (r *PostgresRepository) DeleteConversation(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&entities.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("public_id = ?", id).Delete(&entities.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, dbError(ctx, "failed to delete conversation", err, "7c9e1a3b-5d6f-4b8a-8c0e-3f5b7d9f1b3d")
	}
	return deleted, nil
}

// DeleteMessages removes every message of a conversation.
func (r *PostgresRepository) DeleteMessages(ctx context.Context, conversationID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).Delete(&entities.Message{})
	if result.Error != nil {
		return 0, dbError(ctx, "failed to delete messages", result.Error, "8d0f2b4c-6e7a-4c9b-9d1f-4a6c8e0a2c4e")
	}
	return result.RowsAffected, nil
}

// CountConversations returns the number of stored conversations.
func (r *PostgresRepository) CountConversations(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Conversation{}).Count(&count).Error; err != nil {
		return 0, dbError(ctx, "failed to count conversations", err, "9e1a3c5d-7f8b-4dac-8e2a-5b7d9f1b3d5f")
	}
	return count, nil
}

func newID(ctx context.Context, prefix string) (string, error) {
	id, err := idgen.GenerateSecureID(prefix, idgen.DefaultLength)
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to generate id", err, "0f2b4d6e-8a9c-4ebd-9f3b-6c8e0a2c4e6a")
	}
	return id, nil
}

func dbError(ctx context.Context, message string, err error, code string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, message, err, code)
}
