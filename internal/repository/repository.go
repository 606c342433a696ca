package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; a duplicate email yields ErrEmailTaken
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update persists email, password hash, role and active flag
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user, its task assignments, and clears the creator
	// reference on tasks it created
	Delete(ctx context.Context, id uint64) error

	// ListTasks lists the tasks a user is assigned to
	ListTasks(ctx context.Context, userID uint64) ([]models.Task, error)

	// ListCreatedTasks lists the tasks a user created
	ListCreatedTasks(ctx context.Context, userID uint64) ([]models.Task, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.UserRole
	IsActive   *bool
	Pagination utils.PaginationParams
}

// ResourceRepository defines the interface for resource data access
type ResourceRepository interface {
	// Create creates a new resource
	Create(ctx context.Context, resource *models.Resource) error

	// FindByID finds a resource by ID
	FindByID(ctx context.Context, id uint64) (*models.Resource, error)

	// List retrieves resources with filtering and pagination
	List(ctx context.Context, filter ResourceFilter) ([]models.Resource, int64, error)

	// Update persists name, type and active flag
	Update(ctx context.Context, resource *models.Resource) error

	// Delete removes a resource and its task assignments
	Delete(ctx context.Context, id uint64) error

	// ListTasks lists the tasks using a resource
	ListTasks(ctx context.Context, resourceID uint64) ([]models.Task, error)
}

// ResourceFilter holds filtering options for listing resources
type ResourceFilter struct {
	Type         *models.ResourceType
	IsActive     *bool
	NameContains string
	Pagination   utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task; the creator must exist
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update persists title, start time and end time
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task and all of its assignments
	Delete(ctx context.Context, id uint64) error

	// AssignUsers assigns users to a task; existing pairs are left untouched
	AssignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task if present
	UnassignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error

	// AssignResources assigns resources to a task; existing pairs are left untouched
	AssignResources(ctx context.Context, taskID uint64, resourceIDs []uint64) error

	// UnassignResources removes resource assignments from a task if present
	UnassignResources(ctx context.Context, taskID uint64, resourceIDs []uint64) error

	// FindUserAssignment finds a specific task-user assignment
	FindUserAssignment(ctx context.Context, taskID, userID uint64) (*models.TaskUser, error)

	// FindResourceAssignment finds a specific task-resource assignment
	FindResourceAssignment(ctx context.Context, taskID, resourceID uint64) (*models.TaskResource, error)

	// ListUsers lists the users assigned to a task
	ListUsers(ctx context.Context, taskID uint64) ([]models.User, error)

	// ListResources lists the resources used by a task
	ListResources(ctx context.Context, taskID uint64) ([]models.Resource, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// From and To select tasks overlapping [From, To)
	From       *time.Time
	To         *time.Time
	CreatedBy  *uint64
	Pagination utils.PaginationParams
}
