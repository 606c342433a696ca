package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/repository"
	"github.com/yukikurage/task-scheduler/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var ErrFailedToHashPassword = errors.New("failed to hash password")

// UserService handles user business logic.
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewUserService(userRepo repository.UserRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// CreateUserInput represents input for creating a user. Exactly one of
// Password and PasswordHash must be set.
type CreateUserInput struct {
	Email        string          `json:"email" validate:"required,email,max=255"`
	Password     string          `json:"password" validate:"omitempty,min=8,max=72,bcrypt_len"`
	PasswordHash string          `json:"password_hash" validate:"required_without=Password,excluded_with=Password,max=255"`
	Role         models.UserRole `json:"role" validate:"omitempty,user_role"`
	IsActive     *bool           `json:"is_active"`
}

// UpdateUserInput represents input for updating a user; nil fields are kept.
type UpdateUserInput struct {
	Email        *string          `json:"email" validate:"omitnil,email,max=255"`
	Password     *string          `json:"password" validate:"omitnil,min=8,max=72,bcrypt_len"`
	PasswordHash *string          `json:"password_hash" validate:"omitnil,min=1,max=255,excluded_with=Password"`
	Role         *models.UserRole `json:"role" validate:"omitnil,user_role"`
	IsActive     *bool            `json:"is_active"`
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Role       *models.UserRole `json:"role" validate:"omitnil,user_role"`
	IsActive   *bool            `json:"is_active"`
	Pagination utils.PaginationParams
}

// CreateUser registers a new user; a taken email yields repository.ErrEmailTaken.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash := input.PasswordHash
	if input.Password != "" {
		var err error
		if hash, err = s.hashPassword(input.Password); err != nil {
			return nil, err
		}
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetUserByEmail retrieves a user by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.FindByEmail(ctx, normalizeEmail(email))
}

// ListUsers returns users matching the filters and the total match count.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	if err := validateInput(input); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Role:       input.Role,
		IsActive:   input.IsActive,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUser changes email, role, active flag or password hash.
func (s *UserService) UpdateUser(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	switch {
	case input.Password != nil:
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	case input.PasswordHash != nil:
		user.PasswordHash = *input.PasswordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user. Its assignments are removed and tasks it created
// remain with no creator.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListTasksForUser lists the tasks a user is assigned to.
func (s *UserService) ListTasksForUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.userRepo.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user: %w", err)
	}
	return tasks, nil
}

// ListCreatedTasks lists the tasks a user created.
func (s *UserService) ListCreatedTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.userRepo.ListCreatedTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created tasks: %w", err)
	}
	return tasks, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", invalid("password", "bcrypt_len")
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
