package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-scheduler/internal/dto"
	apierrors "github.com/yukikurage/task-scheduler/internal/errors"
	"github.com/yukikurage/task-scheduler/internal/middleware"
	"github.com/yukikurage/task-scheduler/internal/services"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks overlapping the optional [from, to) window
func (h *TaskHandler) ListTasks(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		apierrors.BadRequest(c, "Invalid from, expected RFC 3339")
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		apierrors.BadRequest(c, "Invalid to, expected RFC 3339")
		return
	}
	createdBy, ok := queryUint(c, "created_by")
	if !ok {
		apierrors.BadRequest(c, "Invalid created_by")
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		From:       from,
		To:         to,
		CreatedBy:  createdBy,
		Pagination: params,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, paginationResponse(params, total)))
}

// GetTask returns the task loaded by LoadTask, with its creator
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates the title or schedule of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req services.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(c.Request.Context(), task.ID, req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task and its assignments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task.ID); err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUsers returns the users assigned to the task
func (h *TaskHandler) ListUsers(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	users, err := h.taskService.ListUsersForTask(c.Request.Context(), task.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, nil))
}

// AssignUsers assigns users to the task; existing assignments are kept
func (h *TaskHandler) AssignUsers(c *gin.Context) {
	h.changeAssignments(c, h.taskService.AssignUsers, h.ListUsers)
}

// UnassignUser removes one user from the task
func (h *TaskHandler) UnassignUser(c *gin.Context) {
	h.removeAssignment(c, "user_id", h.taskService.UnassignUser)
}

// ListResources returns the resources used by the task
func (h *TaskHandler) ListResources(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	resources, err := h.taskService.ListResourcesForTask(c.Request.Context(), task.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceListResponse(resources, nil))
}

// AssignResources assigns resources to the task; existing assignments are kept
func (h *TaskHandler) AssignResources(c *gin.Context) {
	h.changeAssignments(c, h.taskService.AssignResources, h.ListResources)
}

// UnassignResource removes one resource from the task
func (h *TaskHandler) UnassignResource(c *gin.Context) {
	h.removeAssignment(c, "resource_id", h.taskService.UnassignResource)
}

// changeAssignments binds an AssignRequest, applies it and renders the
// resulting assignment list.
func (h *TaskHandler) changeAssignments(
	c *gin.Context,
	apply func(context.Context, services.AssignInput) error,
	render gin.HandlerFunc,
) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := apply(c.Request.Context(), services.AssignInput{TaskID: task.ID, IDs: req.IDs}); err != nil {
		apierrors.FromError(c, err)
		return
	}

	render(c)
}

func (h *TaskHandler) removeAssignment(
	c *gin.Context,
	param string,
	remove func(context.Context, uint64, uint64) error,
) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	id, ok := middleware.ParseID(c, param)
	if !ok {
		apierrors.BadRequest(c, "Invalid "+param)
		return
	}

	if err := remove(c.Request.Context(), task.ID, id); err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
