package dto

import (
	"time"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// ResourceDTO represents a resource in API responses
type ResourceDTO struct {
	ID        uint64              `json:"id"`
	Name      string              `json:"name"`
	Type      models.ResourceType `json:"type"`
	IsActive  bool                `json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
}

// ResourceListResponse represents a list of resources
type ResourceListResponse struct {
	Resources  []ResourceDTO             `json:"resources"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToResourceDTO converts a Resource model to ResourceDTO
func ToResourceDTO(resource models.Resource) ResourceDTO {
	return ResourceDTO{
		ID:        resource.ID,
		Name:      resource.Name,
		Type:      resource.Type,
		IsActive:  resource.IsActive,
		CreatedAt: resource.CreatedAt,
	}
}

// ToResourceListResponse converts resources to a response
func ToResourceListResponse(resources []models.Resource, pagination *utils.PaginationResponse) ResourceListResponse {
	items := make([]ResourceDTO, len(resources))
	for i, resource := range resources {
		items[i] = ToResourceDTO(resource)
	}

	return ResourceListResponse{
		Resources:  items,
		Pagination: pagination,
	}
}
