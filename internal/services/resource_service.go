package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/repository"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// ResourceService handles resource business logic
type ResourceService struct {
	resourceRepo repository.ResourceRepository
}

// NewResourceService creates a new ResourceService
func NewResourceService(resourceRepo repository.ResourceRepository) *ResourceService {
	return &ResourceService{resourceRepo: resourceRepo}
}

// CreateResourceInput represents input for creating a resource
type CreateResourceInput struct {
	Name     string              `json:"name" validate:"required,max=255"`
	Type     models.ResourceType `json:"type" validate:"required,resource_type"`
	IsActive *bool               `json:"is_active"`
}

// UpdateResourceInput represents input for updating a resource; nil fields are kept
type UpdateResourceInput struct {
	Name     *string              `json:"name" validate:"omitnil,min=1,max=255"`
	Type     *models.ResourceType `json:"type" validate:"omitnil,resource_type"`
	IsActive *bool                `json:"is_active"`
}

// ListResourcesInput represents filters for listing resources
type ListResourcesInput struct {
	Type       *models.ResourceType `json:"type" validate:"omitnil,resource_type"`
	IsActive   *bool                `json:"is_active"`
	Name       string               `json:"name" validate:"max=255"`
	Pagination utils.PaginationParams
}

// CreateResource creates a resource. Names need not be unique.
func (s *ResourceService) CreateResource(ctx context.Context, input CreateResourceInput) (*models.Resource, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	resource := &models.Resource{
		Name:     input.Name,
		Type:     input.Type,
		IsActive: true,
	}
	if input.IsActive != nil {
		resource.IsActive = *input.IsActive
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return resource, nil
}

// GetResource returns a resource by ID
func (s *ResourceService) GetResource(ctx context.Context, id uint64) (*models.Resource, error) {
	return s.resourceRepo.FindByID(ctx, id)
}

// ListResources returns resources matching the filters and the total match count
func (s *ResourceService) ListResources(ctx context.Context, input ListResourcesInput) ([]models.Resource, int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, 0, err
	}

	resources, total, err := s.resourceRepo.List(ctx, repository.ResourceFilter{
		Type:         input.Type,
		IsActive:     input.IsActive,
		NameContains: input.Name,
		Pagination:   input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, total, nil
}

// UpdateResource renames, retypes, activates or deactivates a resource
func (s *ResourceService) UpdateResource(ctx context.Context, id uint64, input UpdateResourceInput) (*models.Resource, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	resource, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		resource.Name = *input.Name
	}
	if input.Type != nil {
		resource.Type = *input.Type
	}
	if input.IsActive != nil {
		resource.IsActive = *input.IsActive
	}

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return resource, nil
}

// DeactivateResource soft-deletes a resource; its assignments are kept
func (s *ResourceService) DeactivateResource(ctx context.Context, id uint64) (*models.Resource, error) {
	inactive := false
	return s.UpdateResource(ctx, id, UpdateResourceInput{IsActive: &inactive})
}

// DeleteResource removes a resource and its task assignments
func (s *ResourceService) DeleteResource(ctx context.Context, id uint64) error {
	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return nil
}

// ListTasksForResource lists the tasks using a resource
func (s *ResourceService) ListTasksForResource(ctx context.Context, resourceID uint64) ([]models.Task, error) {
	tasks, err := s.resourceRepo.ListTasks(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for resource: %w", err)
	}
	return tasks, nil
}
