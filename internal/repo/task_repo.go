package repo

import (
	"context"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"
)

// TaskRepo is the store contract. Implementations own the id → task mapping
// and the id counter; tasks cross the boundary by value only.
type TaskRepo interface {
	GetAll(ctx context.Context) ([]dom.Task, error)
	GetByID(ctx context.Context, id uint64) (dom.Task, error)
	Create(ctx context.Context, in dom.CreateTask) (dom.Task, error)
	Update(ctx context.Context, id uint64, in dom.UpdateTask) (dom.Task, error)
	Delete(ctx context.Context, id uint64) error
	Complete(ctx context.Context, id uint64) (dom.Task, error)
	Uncomplete(ctx context.Context, id uint64) (dom.Task, error)
}
