package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-scheduler/internal/database"
	"github.com/yukikurage/task-scheduler/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return classify(r.db.WithContext(ctx).Create(user).Error, ErrEmailTaken, nil)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}

	users := []models.User{}
	if err := query.Order("id").Scopes(database.Paginate(filter.Pagination)).Find(&users).Error; err != nil {
		return nil, 0, classify(err, nil, nil)
	}
	return users, total, nil
}

// Update persists the mutable user columns
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.User{}, user.ID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		return tx.Model(user).
			Select("Email", "PasswordHash", "Role", "IsActive").
			Updates(user).Error
	})
	return classify(err, ErrEmailTaken, nil)
}

// Delete removes a user in a transaction. Assignments go with it and tasks the
// user created survive with a cleared creator.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.User{}, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		if err := tx.Model(&models.Task{}).
			Where("created_by = ?", id).
			Update("created_by", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.TaskUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
	return classify(err, nil, nil)
}

// ListTasks lists the tasks a user is assigned to
func (r *GormUserRepository) ListTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.User{}, userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		return tx.Joins("JOIN task_user ON task_user.task_id = tasks.id").
			Where("task_user.user_id = ?", userID).
			Order("tasks.id").
			Find(&tasks).Error
	})
	if err != nil {
		return nil, classify(err, nil, nil)
	}
	return tasks, nil
}

// ListCreatedTasks lists the tasks a user created
func (r *GormUserRepository) ListCreatedTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &models.User{}, userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}

		return tx.Where("created_by = ?", userID).Order("id").Find(&tasks).Error
	})
	if err != nil {
		return nil, classify(err, nil, nil)
	}
	return tasks, nil
}

// notFound swaps gorm.ErrRecordNotFound for a specific sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return classify(err, nil, nil)
}
