package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/dto"
	apierrors "github.com/yukikurage/task-scheduler/internal/errors"
	"github.com/yukikurage/task-scheduler/internal/middleware"
	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/services"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser registers a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers returns users, optionally filtered by role and active flag
func (h *UserHandler) ListUsers(c *gin.Context) {
	input := services.ListUsersInput{
		Pagination: utils.GetPaginationParams(c),
	}

	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		input.Role = &role
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		apierrors.BadRequest(c, "Invalid is_active")
		return
	}
	input.IsActive = isActive

	users, total, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, paginationResponse(input.Pagination, total)))
}

// GetUser returns the user loaded by LoadUser
func (h *UserHandler) GetUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.InternalError(c, "User not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(user))
}

// UpdateUser applies a partial update to a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.InternalError(c, "User not found in context")
		return
	}

	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), user.ID, req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// DeleteUser removes a user; tasks it created keep existing without a creator
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.InternalError(c, "User not found in context")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), user.ID); err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAssignedTasks returns the tasks the user is assigned to
func (h *UserHandler) ListAssignedTasks(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.InternalError(c, "User not found in context")
		return
	}

	tasks, err := h.userService.ListTasksForUser(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, nil))
}

// ListCreatedTasks returns the tasks the user created
func (h *UserHandler) ListCreatedTasks(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.InternalError(c, "User not found in context")
		return
	}

	tasks, err := h.userService.ListCreatedTasks(c.Request.Context(), user.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, nil))
}
