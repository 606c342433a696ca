package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/constants"
	"github.com/yukikurage/task-scheduler/internal/repository"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInvalidReference = "INVALID_REFERENCE"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// Client errors
	ErrCodeClientClosedRequest = "CLIENT_CLOSED_REQUEST"
)

// StatusClientClosedRequest is the nginx convention for a request whose
// client went away before a response was written.
const StatusClientClosedRequest = 499

// APIError represents a standardized API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details any) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response and aborts the handler chain.
// The request ID, when one was assigned, is echoed in the body.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	if err.RequestID == "" {
		err.RequestID = c.GetString(constants.ContextKeyRequestID)
	}
	c.AbortWithStatusJSON(statusCode, err)
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details any) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// UnprocessableEntity sends a 422 response for references to missing records
func UnprocessableEntity(c *gin.Context, message string) {
	if message == "" {
		message = "Referenced record does not exist"
	}
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIError(ErrCodeInvalidReference, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// FromError maps a service or repository error onto a response. The error is
// attached to the gin context so the request logger can report it.
func FromError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequestWithDetails(c, "Validation failed", verr.Fields)
	case errors.Is(err, repository.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, sentinelMessage(err, repository.ErrNotFound,
			repository.ErrUserNotFound, repository.ErrResourceNotFound, repository.ErrTaskNotFound))
	case errors.Is(err, repository.ErrReference):
		UnprocessableEntity(c, sentinelMessage(err, repository.ErrReference,
			repository.ErrUnknownCreator, repository.ErrUnknownTask, repository.ErrUnknownUser, repository.ErrUnknownResource))
	case errors.Is(err, repository.ErrConflict):
		Conflict(c, sentinelMessage(err, repository.ErrConflict, repository.ErrEmailTaken))
	case errors.Is(err, repository.ErrStorageUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(c, "")
	case errors.Is(err, context.Canceled):
		RespondWithError(c, StatusClientClosedRequest, NewAPIError(ErrCodeClientClosedRequest, "Client closed request"))
	default:
		InternalError(c, "")
	}
}

// sentinelMessage returns the text of the most specific sentinel err matches,
// keeping driver detail out of responses.
func sentinelMessage(err, fallback error, specific ...error) string {
	for _, sentinel := range specific {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return fallback.Error()
}
