package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where in the stack an error was raised.
type Layer string

const (
	LayerRepository Layer = "repository"
	LayerDomain     Layer = "domain"
	LayerHandler    Layer = "handler"
	LayerProvider   Layer = "provider"
)

// ErrorType classifies an error for logging and HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeDatabaseError ErrorType = "database_error"
	ErrorTypeExternal      ErrorType = "external"
	ErrorTypeInternal      ErrorType = "internal"
)

type requestIDKey struct{}

// WithRequestID stores the request id so errors created downstream carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// PlatformError is the structured error shared by every layer of the service.
type PlatformError struct {
	Layer     Layer
	Type      ErrorType
	Message   string
	Code      string
	RequestID string
	Err       error
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError creates a PlatformError of the given type.
func NewError(ctx context.Context, layer Layer, errType ErrorType, message string, cause error, code string) *PlatformError {
	return &PlatformError{
		Layer:     layer,
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: RequestIDFromContext(ctx),
		Err:       cause,
	}
}

// AsError re-wraps err for the given layer, keeping the original type when err
// is already a PlatformError. Unknown errors become internal errors.
func AsError(ctx context.Context, layer Layer, err error, message string) error {
	if err == nil {
		return nil
	}
	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			Layer:     layer,
			Type:      pe.Type,
			Message:   message,
			Code:      pe.Code,
			RequestID: firstNonEmpty(pe.RequestID, RequestIDFromContext(ctx)),
			Err:       err,
		}
	}
	return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
}

// IsType reports whether any PlatformError in err's chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	var pe *PlatformError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
