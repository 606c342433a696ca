package repository

import (
	"context"

	"github.com/yukikurage/task-scheduler/internal/database"
	"github.com/yukikurage/task-scheduler/internal/models"
	"gorm.io/gorm"
)

// GormResourceRepository is a GORM implementation of ResourceRepository
type GormResourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &GormResourceRepository{db: db}
}

// Create creates a new resource
func (r *GormResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return classify(r.db.WithContext(ctx).Create(resource).Error, nil, nil)
}

// FindByID finds a resource by ID
func (r *GormResourceRepository) FindByID(ctx context.Context, id uint64) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, id).Error; err != nil {
		return nil, notFound(err, ErrResourceNotFound)
	}
	return &resource, nil
}

// List retrieves resources with filtering and pagination
func (r *GormResourceRepository) List(ctx context.Context, filter ResourceFilter) ([]models.Resource, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Resource{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.NameContains != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(filter.NameContains)+"%")
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}

	resources := []models.Resource{}
	if err := query.Order("id").Scopes(database.Paginate(filter.Pagination)).Find(&resources).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}
	return resources, total, nil
}

// Update persists the mutable resource columns
func (r *GormResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Resource{}, resource.ID)
		if err != nil {
			return err
		}
		if !found {
			return ErrResourceNotFound
		}

		return tx.Model(resource).
			Select("Name", "Type", "IsActive").
			Updates(resource).Error
	})
	return classify(err, nil, nil)
}

// Delete removes a resource and its task assignments in a transaction
func (r *GormResourceRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Resource{}, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrResourceNotFound
		}

		if err := tx.Where("resource_id = ?", id).Delete(&models.TaskResource{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Resource{}, id).Error
	})
	return classify(err, nil, nil)
}

// ListTasks lists the tasks using a resource
func (r *GormResourceRepository) ListTasks(ctx context.Context, resourceID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.Resource{}, resourceID)
		if err != nil {
			return err
		}
		if !found {
			return ErrResourceNotFound
		}

		return tx.Joins("JOIN task_resource ON task_resource.task_id = tasks.id").
			Where("task_resource.resource_id = ?", resourceID).
			Order("tasks.id").
			Find(&tasks).Error
	})
	if err != nil {
		return nil, classify(err, nil, nil)
	}
	return tasks, nil
}
