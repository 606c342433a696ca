package dto

import (
	"time"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// UserDTO represents a user in API responses. The password hash is never exposed.
type UserDTO struct {
	ID        uint64          `json:"id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users      []UserDTO                 `json:"users"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts users to a response; a nil pagination omits the metadata
func ToUserListResponse(users []models.User, pagination *utils.PaginationResponse) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}

	return UserListResponse{
		Users:      items,
		Pagination: pagination,
	}
}
