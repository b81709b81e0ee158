package repo

import (
	"context"
	"time"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"

	"golang.org/x/sync/semaphore"
)

// DefaultLockTimeout bounds how long an operation waits for the store.
const DefaultLockTimeout = 2 * time.Second

// MemoryTaskRepo keeps tasks in a map. Every operation runs inside one
// critical section, so readers never observe a half-applied change.
type MemoryTaskRepo struct {
	sem         *semaphore.Weighted
	lockTimeout time.Duration
	nextID      uint64
	tasks       map[uint64]dom.Task
}

// NewMemoryTaskRepo returns an empty store. A non-positive lockTimeout
// falls back to DefaultLockTimeout.
func NewMemoryTaskRepo(lockTimeout time.Duration) *MemoryTaskRepo {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &MemoryTaskRepo{
		sem:         semaphore.NewWeighted(1),
		lockTimeout: lockTimeout,
		nextID:      1,
		tasks:       make(map[uint64]dom.Task),
	}
}

// lock acquires the critical section or fails with a RepositoryError once
// ctx is done or the lock timeout elapses.
func (r *MemoryTaskRepo) lock(ctx context.Context, op string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &dom.RepositoryError{Op: op + ": acquire lock", Err: err}
	}
	return func() { r.sem.Release(1) }, nil
}

func (r *MemoryTaskRepo) GetAll(ctx context.Context) ([]dom.Task, error) {
	unlock, err := r.lock(ctx, "get all")
	if err != nil {
		return nil, err
	}
	defer unlock()

	list := make([]dom.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		list = append(list, t)
	}
	return list, nil
}

func (r *MemoryTaskRepo) GetByID(ctx context.Context, id uint64) (dom.Task, error) {
	unlock, err := r.lock(ctx, "get by id")
	if err != nil {
		return dom.Task{}, err
	}
	defer unlock()

	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, &dom.NotFoundError{ID: id}
	}
	return t, nil
}

func (r *MemoryTaskRepo) Create(ctx context.Context, in dom.CreateTask) (dom.Task, error) {
	if err := in.Validate(); err != nil {
		return dom.Task{}, err
	}

	unlock, err := r.lock(ctx, "create")
	if err != nil {
		return dom.Task{}, err
	}
	defer unlock()

	t, err := dom.NewTask(r.nextID, in.Description)
	if err != nil {
		return dom.Task{}, err
	}
	r.tasks[t.ID] = t
	r.nextID++
	return t, nil
}

func (r *MemoryTaskRepo) Update(ctx context.Context, id uint64, in dom.UpdateTask) (dom.Task, error) {
	if in.IsEmpty() {
		return dom.Task{}, &dom.InvalidOperationError{Reason: "update task cannot be empty"}
	}
	if err := in.Validate(); err != nil {
		return dom.Task{}, err
	}

	unlock, err := r.lock(ctx, "update")
	if err != nil {
		return dom.Task{}, err
	}
	defer unlock()

	// t is a copy; the map entry only changes once every field applied.
	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, &dom.NotFoundError{ID: id}
	}
	if in.Description != nil {
		if err := t.UpdateDescription(*in.Description); err != nil {
			return dom.Task{}, err
		}
	}
	if in.Completed != nil {
		if *in.Completed {
			t.Complete()
		} else {
			t.Uncomplete()
		}
	}
	r.tasks[id] = t
	return t, nil
}

func (r *MemoryTaskRepo) Delete(ctx context.Context, id uint64) error {
	unlock, err := r.lock(ctx, "delete")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := r.tasks[id]; !ok {
		return &dom.NotFoundError{ID: id}
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepo) Complete(ctx context.Context, id uint64) (dom.Task, error) {
	return r.transition(ctx, "complete", id, (*dom.Task).Complete)
}

func (r *MemoryTaskRepo) Uncomplete(ctx context.Context, id uint64) (dom.Task, error) {
	return r.transition(ctx, "uncomplete", id, (*dom.Task).Uncomplete)
}

func (r *MemoryTaskRepo) transition(ctx context.Context, op string, id uint64, apply func(*dom.Task)) (dom.Task, error) {
	unlock, err := r.lock(ctx, op)
	if err != nil {
		return dom.Task{}, err
	}
	defer unlock()

	t, ok := r.tasks[id]
	if !ok {
		return dom.Task{}, &dom.NotFoundError{ID: id}
	}
	apply(&t)
	r.tasks[id] = t
	return t, nil
}

var _ TaskRepo = (*MemoryTaskRepo)(nil)
