package dto

import (
	"time"

	"github.com/yukikurage/task-scheduler/internal/models"
	"github.com/yukikurage/task-scheduler/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedBy *uint64   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Creator   *UserDTO  `json:"creator,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                 `json:"tasks"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// AssignRequest lists the users or resources to (un)assign
type AssignRequest struct {
	IDs []uint64 `json:"ids"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		CreatedBy: task.CreatedBy,
		CreatedAt: task.CreatedAt,
	}

	// Include creator if preloaded
	if task.Creator != nil {
		creator := ToUserDTO(*task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskListResponse converts tasks to a response; a nil pagination omits the metadata
func ToTaskListResponse(tasks []models.Task, pagination *utils.PaginationResponse) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: pagination,
	}
}
