package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-api/internal/domain/llm"
	"jan-server/services/chat-api/internal/infrastructure/auth"
	"jan-server/services/chat-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/chat-api/internal/interfaces/httpserver/responses"
	"jan-server/services/chat-api/internal/utils/platformerrors"
)

const userIDHeader = "X-User-ID"

type createConversationRequest struct {
	UserID string `json:"user_id" example:"u1"`
	Title  string `json:"title" example:"Trip planning"`
}

type renameConversationRequest struct {
	Title *string `json:"title" example:"Weekend in Lisbon"`
}

type sendMessageRequest struct {
	Content string `json:"content" example:"Where should I go?"`
}

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler, chat *handlers.ChatHandler) {
	router.POST("", createConversation(handler))
	router.GET("", listConversations(handler))
	router.GET("/:id", getConversation(handler))
	router.PATCH("/:id", renameConversation(handler))
	router.DELETE("/:id", deleteConversation(handler))
	router.GET("/:id/messages", listMessages(handler))
	router.POST("/:id/messages", sendMessage(chat))
}

// resolveOwner picks the principal for a request: the JWT subject when auth
// is enabled, else the X-User-ID header, else fallback from the body or query.
func resolveOwner(c *gin.Context, fallback string) string {
	if subject := auth.Subject(c); subject != "" {
		return subject
	}
	if header := strings.TrimSpace(c.GetHeader(userIDHeader)); header != "" {
		return header
	}
	return strings.TrimSpace(fallback)
}

// createConversation godoc
// @Summary      Create a conversation
// @Tags         conversations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      createConversationRequest  true  "Owner and title"
// @Success      201      {object}  responses.ConversationResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/conversations [post]
func createConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "1a3c5e7b-9d1f-4b3a-8c5e-7a9b1d3f5c7e")
			return
		}

		result, err := handler.CreateConversation(c.Request.Context(), resolveOwner(c, req.UserID), req.Title)
		if err != nil {
			responses.HandleError(c, err, "Failed to create conversation")
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// listConversations godoc
// @Summary      List conversations of a user
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Param        user_id  query     string  false  "Owner id when no token or X-User-ID header is sent"
// @Success      200      {object}  responses.ConversationListResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /api/conversations [get]
func listConversations(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.ListConversations(c.Request.Context(), resolveOwner(c, c.Query("user_id")))
		if err != nil {
			responses.HandleError(c, err, "Failed to list conversations")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// getConversation godoc
// @Summary      Get a conversation
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID (format: conv_xxxxx)"
// @Success      200  {object}  responses.ConversationResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id} [get]
func getConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.GetConversation(c.Request.Context(), c.Param("id"), auth.Subject(c))
		if err != nil {
			responses.HandleError(c, err, "Failed to get conversation")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// renameConversation godoc
// @Summary      Rename a conversation
// @Tags         conversations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Conversation ID"
// @Param        request  body      renameConversationRequest  true  "New title"
// @Success      200      {object}  responses.ConversationResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/conversations/{id} [patch]
func renameConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req renameConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "title is required", "3c5e7a9d-1f3b-4d5c-9e7a-9b1d3f5c7e9a")
			return
		}

		result, err := handler.RenameConversation(c.Request.Context(), c.Param("id"), auth.Subject(c), *req.Title)
		if err != nil {
			responses.HandleError(c, err, "Failed to rename conversation")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// deleteConversation godoc
// @Summary      Delete a conversation and its messages
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  responses.DeleteResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id} [delete]
func deleteConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.DeleteConversation(c.Request.Context(), c.Param("id"), auth.Subject(c))
		if err != nil {
			responses.HandleError(c, err, "Failed to delete conversation")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// listMessages godoc
// @Summary      List messages in append order
// @Tags         conversations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  responses.MessageListResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/conversations/{id}/messages [get]
func listMessages(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := handler.ListMessages(c.Request.Context(), c.Param("id"), auth.Subject(c))
		if err != nil {
			responses.HandleError(c, err, "Failed to list messages")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// sendMessage godoc
// @Summary      Send a user message and receive the assistant reply
// @Description  Provider failures still store and return an assistant message with a fixed error text.
// @Tags         conversations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Conversation ID"
// @Param        request  body      sendMessageRequest  true  "Message content"
// @Success      201      {object}  responses.MessageResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/conversations/{id}/messages [post]
func sendMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "5e7a9c1f-3b5d-4f7e-a9c1-d3f5b7e9a1c3")
			return
		}

		ctx := llm.ContextWithAuthToken(c.Request.Context(), c.GetHeader("Authorization"))
		result, err := handler.SendMessage(ctx, c.Param("id"), auth.Subject(c), req.Content)
		if err != nil {
			responses.HandleError(c, err, "Failed to send message")
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}
