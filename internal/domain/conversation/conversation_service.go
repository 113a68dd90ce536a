package conversation

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// Service owns conversation and message state and emits lifecycle metrics
// once the corresponding write has been persisted.
type Service struct {
	store       Store
	metrics     Metrics
	clock       Clock
	validator   *Validator
	strictCheck bool
	log         zerolog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the process clock.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithStrictConversationCheck makes AddMessage reject unknown conversation ids.
func WithStrictConversationCheck(enabled bool) Option {
	return func(s *Service) { s.strictCheck = enabled }
}

// WithValidator replaces the default field limits.
func WithValidator(v *Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "conversation-service").Logger() }
}

// NewService creates a conversation service.
func NewService(store Store, metrics Metrics, opts ...Option) *Service {
	s := &Service{
		store:     store,
		metrics:   metrics,
		clock:     ProcessClock(),
		validator: NewValidator(nil),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===============================================
// Conversation Operations
// ===============================================

// CreateConversation stores a new conversation for ownerID.
func (s *Service) CreateConversation(ctx context.Context, ownerID, title string) (*Conversation, error) {
	normalized, err := s.validator.NormalizeTitle(title)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "conversation validation failed", err, "5b0e6f0a-2c1d-4f6e-9a3b-1d7c8e2f4a60")
	}

	now := s.clock.Now()
	conv := &Conversation{
		OwnerID:   ownerID,
		Title:     normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.store.InsertConversation(ctx, conv)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}
	conv.ID = id

	s.metrics.RecordConversationCreated()
	s.log.Debug().Str("conversation_id", id).Msg("conversation created")
	return conv, nil
}

// GetConversation returns the conversation or nil when it does not exist.
func (s *Service) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	conv, err := s.store.FindConversation(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to get conversation")
	}
	return conv, nil
}

// ListConversations returns the owner's conversations in creation order.
func (s *Service) ListConversations(ctx context.Context, ownerID string) ([]*Conversation, error) {
	convs, err := s.store.ListConversations(ctx, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}
	if convs == nil {
		convs = []*Conversation{}
	}
	return convs, nil
}

// RenameConversation updates the title. It returns nil, nil when id is unknown.
func (s *Service) RenameConversation(ctx context.Context, id, title string) (*Conversation, error) {
	normalized, err := s.validator.NormalizeTitle(title)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "conversation validation failed", err, "8c4f2d1e-7a3b-4e5c-b6d9-0f1a2e3c4d5b")
	}

	updated, err := s.store.UpdateConversationTitle(ctx, id, normalized, s.clock.Now())
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to rename conversation")
	}
	if !updated {
		return nil, nil
	}
	return s.GetConversation(ctx, id)
}

// DeleteConversation removes the conversation and every message in it.
// It reports whether a conversation was deleted.
func (s *Service) DeleteConversation(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.DeleteMessages(ctx, id)
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete messages")
	}

	deleted, err := s.store.DeleteConversation(ctx, id)
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	if !deleted {
		return false, nil
	}

	s.metrics.RecordConversationDeleted()
	s.log.Debug().Str("conversation_id", id).Int64("messages_removed", removed).Msg("conversation deleted")
	return true, nil
}

// SyncActiveConversations sets the active gauge from the stored count.
func (s *Service) SyncActiveConversations(ctx context.Context) (int64, error) {
	count, err := s.store.CountConversations(ctx)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count conversations")
	}
	s.metrics.SetActiveConversations(count)
	return count, nil
}

// ===============================================
// Message Operations
// ===============================================

// AddMessage stores a message with a server assigned timestamp and advances
// the conversation's UpdatedAt.
func (s *Service) AddMessage(ctx context.Context, conversationID string, role Role, content string) (*Message, error) {
	if err := s.validator.ValidateMessage(role, content); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message validation failed", err, "3e9d7c5b-1a2f-4c6e-8b0d-2f4a6c8e0b1d")
	}

	if s.strictCheck {
		conv, err := s.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "6a1c3e5f-7b9d-4f1a-a3c5-e7f9b1d3f5a7")
		}
	}

	now := s.clock.Now()
	msg := &Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}

	id, err := s.store.InsertMessage(ctx, msg)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add message")
	}
	msg.ID = id

	if err := s.store.UpdateConversationTimestamp(ctx, conversationID, now); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation timestamp")
	}

	s.metrics.RecordMessage(string(role), utf8.RuneCountInString(content))
	return msg, nil
}

// GetMessages returns the conversation's messages in append order.
func (s *Service) GetMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	msgs, err := s.store.FindMessages(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to get messages")
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	return msgs, nil
}

// IsStorageError reports whether err originated from the store.
func IsStorageError(err error) bool {
	return platformerrors.IsType(err, platformerrors.ErrorTypeDatabaseError)
}
