package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/repository"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title     string    `json:"title" validate:"required,max=255"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	CreatedBy uint64    `json:"created_by" validate:"required"`
}

// UpdateTaskInput represents input for updating a task; nil fields are kept.
// The creator cannot be changed.
type UpdateTaskInput struct {
	Title     *string    `json:"title" validate:"omitnil,min=1,max=255"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	From       *time.Time
	To         *time.Time
	CreatedBy  *uint64
	Pagination utils.PaginationParams
}

// AssignInput names a task and the users or resources to (un)assign
type AssignInput struct {
	TaskID uint64   `json:"task_id" validate:"required"`
	IDs    []uint64 `json:"ids" validate:"required,min=1,dive,required"`
}

// CreateTask creates a task. start_time < end_time is not enforced.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	creator := input.CreatedBy
	task := &models.Task{
		Title:     input.Title,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		CreatedBy: &creator,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask returns a task with its creator loaded
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID, "Creator")
}

// ListTasks returns tasks overlapping the optional window
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, 0, invalid("to", "gtefield")
	}

	tasks, total, err := s.taskRepo.List(ctx, repository.TaskFilter{
		From:       input.From,
		To:         input.To,
		CreatedBy:  input.CreatedBy,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTask changes the title or schedule of a task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.StartTime != nil && input.StartTime.IsZero() {
		return nil, invalid("start_time", "required")
	}
	if input.EndTime != nil && input.EndTime.IsZero() {
		return nil, invalid("end_time", "required")
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.StartTime != nil {
		task.StartTime = input.StartTime.UTC()
	}
	if input.EndTime != nil {
		task.EndTime = input.EndTime.UTC()
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task and all of its assignments
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AssignUsers assigns users to a task. Already assigned users are a no-op.
func (s *TaskService) AssignUsers(ctx context.Context, input AssignInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := s.taskRepo.AssignUsers(ctx, input.TaskID, input.IDs); err != nil {
		return fmt.Errorf("failed to assign users: %w", err)
	}
	return nil
}

// AssignUser assigns a single user to a task
func (s *TaskService) AssignUser(ctx context.Context, taskID, userID uint64) error {
	return s.AssignUsers(ctx, AssignInput{TaskID: taskID, IDs: []uint64{userID}})
}

// UnassignUsers removes user assignments; absent assignments are ignored
func (s *TaskService) UnassignUsers(ctx context.Context, input AssignInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := s.taskRepo.UnassignUsers(ctx, input.TaskID, input.IDs); err != nil {
		return fmt.Errorf("failed to unassign users: %w", err)
	}
	return nil
}

// UnassignUser removes a single user assignment
func (s *TaskService) UnassignUser(ctx context.Context, taskID, userID uint64) error {
	return s.UnassignUsers(ctx, AssignInput{TaskID: taskID, IDs: []uint64{userID}})
}

// AssignResources assigns resources to a task. Already assigned resources are a no-op.
func (s *TaskService) AssignResources(ctx context.Context, input AssignInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := s.taskRepo.AssignResources(ctx, input.TaskID, input.IDs); err != nil {
		return fmt.Errorf("failed to assign resources: %w", err)
	}
	return nil
}

// AssignResource assigns a single resource to a task
func (s *TaskService) AssignResource(ctx context.Context, taskID, resourceID uint64) error {
	return s.AssignResources(ctx, AssignInput{TaskID: taskID, IDs: []uint64{resourceID}})
}

// UnassignResources removes resource assignments; absent assignments are ignored
func (s *TaskService) UnassignResources(ctx context.Context, input AssignInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if err := s.taskRepo.UnassignResources(ctx, input.TaskID, input.IDs); err != nil {
		return fmt.Errorf("failed to unassign resources: %w", err)
	}
	return nil
}

// UnassignResource removes a single resource assignment
func (s *TaskService) UnassignResource(ctx context.Context, taskID, resourceID uint64) error {
	return s.UnassignResources(ctx, AssignInput{TaskID: taskID, IDs: []uint64{resourceID}})
}

// ListUsersForTask lists the users assigned to a task
func (s *TaskService) ListUsersForTask(ctx context.Context, taskID uint64) ([]models.User, error) {
	users, err := s.taskRepo.ListUsers(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for task: %w", err)
	}
	return users, nil
}

// ListResourcesForTask lists the resources used by a task
func (s *TaskService) ListResourcesForTask(ctx context.Context, taskID uint64) ([]models.Resource, error) {
	resources, err := s.taskRepo.ListResources(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources for task: %w", err)
	}
	return resources, nil
}
