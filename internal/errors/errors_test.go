package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-scheduler/internal/constants"
	"github.com/yukikurage/task-scheduler/internal/repository"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	driverErr := errors.New("FOREIGN KEY constraint failed")

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:   "validation",
			err:    &repository.ValidationError{Fields: []repository.FieldError{{Field: "email", Rule: "email"}}},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidInput,
		},
		{
			name:    "not found",
			err:     fmt.Errorf("failed to delete user: %w", repository.ErrUserNotFound),
			status:  http.StatusNotFound,
			code:    ErrCodeNotFound,
			message: repository.ErrUserNotFound.Error(),
		},
		{
			name:    "reference hides driver text",
			err:     fmt.Errorf("%w: %w", repository.ErrUnknownUser, driverErr),
			status:  http.StatusUnprocessableEntity,
			code:    ErrCodeInvalidReference,
			message: repository.ErrUnknownUser.Error(),
		},
		{
			name:    "conflict",
			err:     fmt.Errorf("failed to create user: %w", repository.ErrEmailTaken),
			status:  http.StatusConflict,
			code:    ErrCodeConflict,
			message: repository.ErrEmailTaken.Error(),
		},
		{
			name:   "unavailable",
			err:    fmt.Errorf("%w: dial tcp", repository.ErrStorageUnavailable),
			status: http.StatusServiceUnavailable,
			code:   ErrCodeServiceUnavailable,
		},
		{
			name:   "deadline",
			err:    context.DeadlineExceeded,
			status: http.StatusServiceUnavailable,
			code:   ErrCodeServiceUnavailable,
		},
		{
			name:   "canceled",
			err:    fmt.Errorf("failed to list tasks: %w", context.Canceled),
			status: StatusClientClosedRequest,
			code:   ErrCodeClientClosedRequest,
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(constants.ContextKeyRequestID, "req-1")

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			assert.Len(t, c.Errors, 1)

			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "req-1", body.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}
