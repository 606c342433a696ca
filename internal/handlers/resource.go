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

type ResourceHandler struct {
	resourceService *services.ResourceService
}

func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

// CreateResource creates a new resource
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req services.CreateResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	resource, err := h.resourceService.CreateResource(c.Request.Context(), req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToResourceDTO(*resource))
}

// ListResources returns resources filtered by type, active flag and name
func (h *ResourceHandler) ListResources(c *gin.Context) {
	input := services.ListResourcesInput{
		Name:       c.Query("name"),
		Pagination: utils.GetPaginationParams(c),
	}

	if raw := c.Query("type"); raw != "" {
		typ := models.ResourceType(raw)
		input.Type = &typ
	}

	isActive, ok := queryBool(c, "is_active")
	if !ok {
		apierrors.BadRequest(c, "Invalid is_active")
		return
	}
	input.IsActive = isActive

	resources, total, err := h.resourceService.ListResources(c.Request.Context(), input)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceListResponse(resources, paginationResponse(input.Pagination, total)))
}

// GetResource returns the resource loaded by LoadResource
func (h *ResourceHandler) GetResource(c *gin.Context) {
	resource, ok := middleware.GetResource(c)
	if !ok {
		apierrors.InternalError(c, "Resource not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceDTO(resource))
}

// UpdateResource applies a partial update to a resource
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	resource, ok := middleware.GetResource(c)
	if !ok {
		apierrors.InternalError(c, "Resource not found in context")
		return
	}

	var req services.UpdateResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.resourceService.UpdateResource(c.Request.Context(), resource.ID, req)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceDTO(*updated))
}

// DeactivateResource marks a resource inactive and keeps its assignments
func (h *ResourceHandler) DeactivateResource(c *gin.Context) {
	resource, ok := middleware.GetResource(c)
	if !ok {
		apierrors.InternalError(c, "Resource not found in context")
		return
	}

	updated, err := h.resourceService.DeactivateResource(c.Request.Context(), resource.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResourceDTO(*updated))
}

// DeleteResource removes a resource and its assignments
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	resource, ok := middleware.GetResource(c)
	if !ok {
		apierrors.InternalError(c, "Resource not found in context")
		return
	}

	if err := h.resourceService.DeleteResource(c.Request.Context(), resource.ID); err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTasks returns the tasks using the resource
func (h *ResourceHandler) ListTasks(c *gin.Context) {
	resource, ok := middleware.GetResource(c)
	if !ok {
		apierrors.InternalError(c, "Resource not found in context")
		return
	}

	tasks, err := h.resourceService.ListTasksForResource(c.Request.Context(), resource.ID)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, nil))
}
