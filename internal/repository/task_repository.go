package repository

import (
	"context"

	"github.com/yukikurage/task-scheduler/internal/database"
	"github.com/yukikurage/task-scheduler/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create verifies the creator and inserts the task in one transaction
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.CreatedBy == nil {
		return ErrUnknownCreator
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.User{}, *task.CreatedBy)
		if err != nil {
			return err
		}
		if !found {
			return ErrUnknownCreator
		}

		return tx.Omit(clause.Associations).Create(task).Error
	})
	return classify(err, nil, ErrUnknownCreator)
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.OverlappingWindow(filter.From, filter.To))

	if filter.CreatedBy != nil {
		query = query.Where("tasks.created_by = ?", *filter.CreatedBy)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}

	tasks := []models.Task{}
	if err := query.
		Order("tasks.start_time ASC, tasks.id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}

	return tasks, total, nil
}

// Update persists the mutable task columns
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Task{}, task.ID)
		if err != nil {
			return err
		}
		if !found {
			return ErrTaskNotFound
		}

		return tx.Model(task).
			Omit(clause.Associations).
			Select("Title", "StartTime", "EndTime").
			Updates(task).Error
	})
	return classify(err, nil, nil)
}

// Delete removes a task and its assignments in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Task{}, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrTaskNotFound
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskUser{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskResource{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
	return classify(err, nil, nil)
}

// AssignUsers assigns users to a task. Pairs that already exist keep their
// original assigned_at.
func (r *GormTaskRepository) AssignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error {
	userIDs = uniqueUint64(userIDs)
	if len(userIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireTask(tx, taskID); err != nil {
			return err
		}

		ok, err := allExist(tx, &models.User{}, userIDs)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownUser
		}

		assignments := make([]models.TaskUser, len(userIDs))
		for i, userID := range userIDs {
			assignments[i] = models.TaskUser{
				TaskID: taskID,
				UserID: userID,
			}
		}

		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&assignments).Error
	})
	return classify(err, nil, nil)
}

// UnassignUsers removes user assignments from a task; absent pairs are ignored
func (r *GormTaskRepository) UnassignUsers(ctx context.Context, taskID uint64, userIDs []uint64) error {
	userIDs = uniqueUint64(userIDs)
	if len(userIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Delete(&models.TaskUser{}).Error
	return classify(err, nil, nil)
}

// AssignResources assigns resources to a task. Pairs that already exist keep
// their original assigned_at.
func (r *GormTaskRepository) AssignResources(ctx context.Context, taskID uint64, resourceIDs []uint64) error {
	resourceIDs = uniqueUint64(resourceIDs)
	if len(resourceIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireTask(tx, taskID); err != nil {
			return err
		}

		ok, err := allExist(tx, &models.Resource{}, resourceIDs)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownResource
		}

		assignments := make([]models.TaskResource, len(resourceIDs))
		for i, resourceID := range resourceIDs {
			assignments[i] = models.TaskResource{
				TaskID:     taskID,
				ResourceID: resourceID,
			}
		}

		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "task_id"}, {Name: "resource_id"}},
				DoNothing: true,
			}).
			Create(&assignments).Error
	})
	return classify(err, nil, nil)
}

// UnassignResources removes resource assignments from a task; absent pairs are ignored
func (r *GormTaskRepository) UnassignResources(ctx context.Context, taskID uint64, resourceIDs []uint64) error {
	resourceIDs = uniqueUint64(resourceIDs)
	if len(resourceIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Where("task_id = ? AND resource_id IN ?", taskID, resourceIDs).
		Delete(&models.TaskResource{}).Error
	return classify(err, nil, nil)
}

// FindUserAssignment finds a specific task-user assignment
func (r *GormTaskRepository) FindUserAssignment(ctx context.Context, taskID, userID uint64) (*models.TaskUser, error) {
	var assignment models.TaskUser
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, classify(err, nil, nil)
	}
	return &assignment, nil
}

// FindResourceAssignment finds a specific task-resource assignment
func (r *GormTaskRepository) FindResourceAssignment(ctx context.Context, taskID, resourceID uint64) (*models.TaskResource, error) {
	var assignment models.TaskResource
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND resource_id = ?", taskID, resourceID).
		First(&assignment).Error; err != nil {
		return nil, classify(err, nil, nil)
	}
	return &assignment, nil
}

// ListUsers lists the users assigned to a task
func (r *GormTaskRepository) ListUsers(ctx context.Context, taskID uint64) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Task{}, taskID)
		if err != nil {
			return err
		}
		if !found {
			return ErrTaskNotFound
		}

		return tx.Joins("JOIN task_user ON task_user.user_id = users.id").
			Where("task_user.task_id = ?", taskID).
			Order("users.id").
			Find(&users).Error
	})
	if err != nil {
		return nil, classify(err, nil, nil)
	}
	return users, nil
}

// ListResources lists the resources used by a task
func (r *GormTaskRepository) ListResources(ctx context.Context, taskID uint64) ([]models.Resource, error) {
	resources := []models.Resource{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Task{}, taskID)
		if err != nil {
			return err
		}
		if !found {
			return ErrTaskNotFound
		}

		return tx.Joins("JOIN task_resource ON task_resource.resource_id = resources.id").
			Where("task_resource.task_id = ?", taskID).
			Order("resources.id").
			Find(&resources).Error
	})
	if err != nil {
		return nil, classify(err, nil, nil)
	}
	return resources, nil
}

// requireTask fails with ErrUnknownTask when taskID names no task.
func (r *GormTaskRepository) requireTask(tx *gorm.DB, taskID uint64) error {
	found, err := exists(tx, &models.Task{}, taskID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnknownTask
	}
	return nil
}
