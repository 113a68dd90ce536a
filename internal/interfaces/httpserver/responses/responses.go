package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-api/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code,omitempty"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses.
// The cause is attached to the gin context so the logging middleware sees it.
func HandleError(reqCtx *gin.Context, err error, message string) {
	_ = reqCtx.Error(err)

	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		errResp := ErrorResponse{
			Code:          platformErr.Code,
			Error:         message,
			Message:       platformErr.Message,
			ErrorInstance: platformErr,
			RequestID:     platformErr.RequestID,
		}
		reqCtx.AbortWithStatusJSON(platformerrors.HTTPStatus(err), errResp)
		return
	}

	errResp := ErrorResponse{
		Error:         message,
		ErrorInstance: err,
		RequestID:     platformerrors.RequestIDFromContext(reqCtx.Request.Context()),
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}

// HandleNewError creates a new typed error at the handler layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, uuid)
	HandleError(reqCtx, err, message)
}
