package dto

import (
	"time"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"
)

type CreateTaskRequest struct {
	Description string `json:"description" example:"Buy groceries"`
}

// UpdateTaskRequest is a partial update; omitted fields stay as they are.
type UpdateTaskRequest struct {
	Description *string `json:"description" example:"Buy groceries and milk"`
	Completed   *bool   `json:"completed" example:"true"`
}

func (r UpdateTaskRequest) ToDomain() dom.UpdateTask {
	return dom.UpdateTask{Description: r.Description, Completed: r.Completed}
}

type TaskURI struct {
	ID uint64 `uri:"id" binding:"required,min=1"`
}

type StatusQuery struct {
	Completed *bool `form:"completed" binding:"required"`
}

type TaskResponse struct {
	ID          uint64    `json:"id" example:"1"`
	Description string    `json:"description" example:"Buy groceries"`
	Completed   bool      `json:"completed" example:"false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"task not found with id 1"`
}

func TaskToResponse(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func TasksToResponses(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = TaskToResponse(list[i])
	}
	return out
}
