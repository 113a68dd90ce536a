package handlers

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"jan-server/services/chat-api/internal/domain/conversation"
	"jan-server/services/chat-api/internal/interfaces/httpserver/responses"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// ConversationService is the conversation use case surface the HTTP layer needs.
type ConversationService interface {
	CreateConversation(ctx context.Context, ownerID, title string) (*conversation.Conversation, error)
	GetConversation(ctx context.Context, id string) (*conversation.Conversation, error)
	ListConversations(ctx context.Context, ownerID string) ([]*conversation.Conversation, error)
	RenameConversation(ctx context.Context, id, title string) (*conversation.Conversation, error)
	DeleteConversation(ctx context.Context, id string) (bool, error)
	GetMessages(ctx context.Context, conversationID string) ([]*conversation.Message, error)
}

// ConversationHandler maps conversation use cases to response payloads.
//
// Methods taking a scope treat a non-empty scope as the authenticated owner:
// conversations owned by someone else are reported as not found.
type ConversationHandler struct {
	service ConversationService
	log     zerolog.Logger
}

// NewConversationHandler wires dependencies for conversation routes.
func NewConversationHandler(service ConversationService, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("component", "conversation-handler").Logger(),
	}
}

// CreateConversation creates a conversation for ownerID.
func (h *ConversationHandler) CreateConversation(ctx context.Context, ownerID, title string) (*responses.ConversationResponse, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "user_id is required", nil, "5b7d9f1a-3c5e-4a7b-9d1f-3a5c7e9b1d3f")
	}

	conv, err := h.service.CreateConversation(ctx, ownerID, title)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create conversation")
	}

	resp := responses.FromConversation(conv)
	return &resp, nil
}

// GetConversation returns the conversation or a not found error.
func (h *ConversationHandler) GetConversation(ctx context.Context, id, scope string) (*responses.ConversationResponse, error) {
	conv, err := h.load(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	resp := responses.FromConversation(conv)
	return &resp, nil
}

// ListConversations lists the conversations of ownerID in creation order.
func (h *ConversationHandler) ListConversations(ctx context.Context, ownerID string) (*responses.ConversationListResponse, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "user_id is required", nil, "7d9f1b3c-5e7a-4c9d-b1f3-5c7e9a1d3f5b")
	}

	items, err := h.service.ListConversations(ctx, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list conversations")
	}

	resp := responses.FromConversations(items)
	return &resp, nil
}

// RenameConversation replaces the title of an existing conversation.
func (h *ConversationHandler) RenameConversation(ctx context.Context, id, scope, title string) (*responses.ConversationResponse, error) {
	if _, err := h.load(ctx, id, scope); err != nil {
		return nil, err
	}

	conv, err := h.service.RenameConversation(ctx, id, title)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to rename conversation")
	}
	if conv == nil {
		return nil, notFound(ctx, id)
	}

	resp := responses.FromConversation(conv)
	return &resp, nil
}

// DeleteConversation removes a conversation together with its messages.
func (h *ConversationHandler) DeleteConversation(ctx context.Context, id, scope string) (*responses.DeleteResponse, error) {
	if _, err := h.load(ctx, id, scope); err != nil {
		return nil, err
	}

	deleted, err := h.service.DeleteConversation(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete conversation")
	}
	if !deleted {
		return nil, notFound(ctx, id)
	}

	h.log.Info().Str("conversation_id", id).Msg("conversation deleted")
	return &responses.DeleteResponse{ID: id, Deleted: true}, nil
}

// ListMessages returns the messages of a conversation in append order.
func (h *ConversationHandler) ListMessages(ctx context.Context, id, scope string) (*responses.MessageListResponse, error) {
	if _, err := h.load(ctx, id, scope); err != nil {
		return nil, err
	}

	items, err := h.service.GetMessages(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to load messages")
	}

	resp := responses.FromMessages(id, items)
	return &resp, nil
}

func (h *ConversationHandler) load(ctx context.Context, id, scope string) (*conversation.Conversation, error) {
	return loadConversation(ctx, h.service, id, scope)
}

// ConversationLookup fetches a conversation by id.
type ConversationLookup interface {
	GetConversation(ctx context.Context, id string) (*conversation.Conversation, error)
}

func loadConversation(ctx context.Context, lookup ConversationLookup, id, scope string) (*conversation.Conversation, error) {
	conv, err := lookup.GetConversation(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to load conversation")
	}
	if conv == nil || (scope != "" && conv.OwnerID != scope) {
		return nil, notFound(ctx, id)
	}
	return conv, nil
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeNotFound, "conversation not found: "+id, nil, "9f1b3d5e-7a9c-4e1f-b3d5-7e9a1c3f5b7d")
}
