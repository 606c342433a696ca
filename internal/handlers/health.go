package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-scheduler/internal/errors"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	ping func(context.Context) error
}

// NewHealthHandler creates a handler that reports healthy while ping succeeds
func NewHealthHandler(ping func(context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health reports whether the service can reach its database
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "Database unreachable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Task Scheduler API is running",
	})
}
