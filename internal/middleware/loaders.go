package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/constants"
	apierrors "github.com/yukikurage/task-scheduler/internal/errors"
	"github.com/yukikurage/task-scheduler/internal/models"
)

// TaskGetter loads a task by ID
type TaskGetter interface {
	GetTask(ctx context.Context, id uint64) (*models.Task, error)
}

// UserGetter loads a user by ID
type UserGetter interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// ResourceGetter loads a resource by ID
type ResourceGetter interface {
	GetResource(ctx context.Context, id uint64) (*models.Resource, error)
}

// LoadTask resolves the :id path parameter to a task and stores it in context
func LoadTask(tasks TaskGetter) gin.HandlerFunc {
	return loader("task", constants.ContextKeyTask, tasks.GetTask)
}

// LoadUser resolves the :id path parameter to a user and stores it in context
func LoadUser(users UserGetter) gin.HandlerFunc {
	return loader("user", constants.ContextKeyUser, users.GetUser)
}

// LoadResource resolves the :id path parameter to a resource and stores it in context
func LoadResource(resources ResourceGetter) gin.HandlerFunc {
	return loader("resource", constants.ContextKeyResource, resources.GetResource)
}

func loader[T any](name, key string, get func(context.Context, uint64) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ParseID(c, "id")
		if !ok {
			apierrors.BadRequest(c, "Invalid "+name+" ID")
			return
		}

		record, err := get(c.Request.Context(), id)
		if err != nil {
			apierrors.FromError(c, err)
			return
		}

		c.Set(key, *record)
		c.Next()
	}
}

// ParseID reads a positive integer path parameter
func ParseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// GetTask retrieves the task stored by LoadTask
func GetTask(c *gin.Context) (models.Task, bool) {
	return fromContext[models.Task](c, constants.ContextKeyTask)
}

// GetUser retrieves the user stored by LoadUser
func GetUser(c *gin.Context) (models.User, bool) {
	return fromContext[models.User](c, constants.ContextKeyUser)
}

// GetResource retrieves the resource stored by LoadResource
func GetResource(c *gin.Context) (models.Resource, bool) {
	return fromContext[models.Resource](c, constants.ContextKeyResource)
}

func fromContext[T any](c *gin.Context, key string) (T, bool) {
	var zero T
	value, exists := c.Get(key)
	if !exists {
		return zero, false
	}
	record, ok := value.(T)
	return record, ok
}
