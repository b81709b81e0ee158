package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"
	"github.com/MokkeMeguru/todo-api/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// TaskCache is an optional cache of the full task snapshot, keyed by the
// store version the snapshot was loaded at.
type TaskCache interface {
	GetAll(ctx context.Context, version string) ([]dom.Task, bool, error)
	SetAll(ctx context.Context, version string, list []dom.Task) error
	Invalidate(ctx context.Context, version string) error
}

// TaskService is the use-case layer over a TaskRepo.
type TaskService struct {
	repo  repo.TaskRepo
	cache TaskCache
	log   *slog.Logger
	sf    singleflight.Group
	// epoch separates the cache entries of this instance from those left by
	// an earlier process under the same key prefix.
	epoch string
	// gen changes after every successful write. Snapshot loads and cache
	// entries are keyed by it, so once a write returns no reader can join a
	// load or read an entry from before it.
	gen atomic.Uint64
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c TaskCache, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{repo: r, cache: c, log: logger, epoch: uuid.NewString()}
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]dom.Task, error) {
	list, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all tasks: %w", err)
	}
	return list, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uint64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *TaskService) CreateTask(ctx context.Context, description string) (dom.Task, error) {
	in := dom.CreateTask{Description: description}
	if err := in.Validate(); err != nil {
		return dom.Task{}, fmt.Errorf("create task: %w", err)
	}
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return dom.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.changed(ctx)
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uint64, in dom.UpdateTask) (dom.Task, error) {
	if in.IsEmpty() {
		return dom.Task{}, fmt.Errorf("update task %d: %w", id,
			&dom.InvalidOperationError{Reason: "update task cannot be empty"})
	}
	if err := in.Validate(); err != nil {
		return dom.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	t, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return dom.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	s.changed(ctx)
	return t, nil
}

// DeleteTask checks existence before deleting. The two store calls are not
// atomic together: a concurrent delete in between surfaces as NotFound from
// the second call.
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.changed(ctx)
	return nil
}

func (s *TaskService) CompleteTask(ctx context.Context, id uint64) (dom.Task, error) {
	t, err := s.repo.Complete(ctx, id)
	if err != nil {
		return dom.Task{}, fmt.Errorf("complete task %d: %w", id, err)
	}
	s.changed(ctx)
	return t, nil
}

func (s *TaskService) UncompleteTask(ctx context.Context, id uint64) (dom.Task, error) {
	t, err := s.repo.Uncomplete(ctx, id)
	if err != nil {
		return dom.Task{}, fmt.Errorf("uncomplete task %d: %w", id, err)
	}
	s.changed(ctx)
	return t, nil
}

func (s *TaskService) GetCompletedTasks(ctx context.Context) ([]dom.Task, error) {
	return s.GetTasksByStatus(ctx, true)
}

func (s *TaskService) GetPendingTasks(ctx context.Context) ([]dom.Task, error) {
	return s.GetTasksByStatus(ctx, false)
}

func (s *TaskService) GetTasksByStatus(ctx context.Context, completed bool) ([]dom.Task, error) {
	list, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get tasks by status: %w", err)
	}
	return filter(list, func(t dom.Task) bool { return t.Completed == completed }), nil
}

// SearchTasks matches q case-insensitively against descriptions. An empty
// query matches every task.
func (s *TaskService) SearchTasks(ctx context.Context, q string) ([]dom.Task, error) {
	list, err := s.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	q = strings.ToLower(strings.TrimSpace(q))
	return filter(list, func(t dom.Task) bool {
		return strings.Contains(strings.ToLower(t.Description), q)
	}), nil
}

// snapshot returns a private copy of every task, ordered by id.
func (s *TaskService) snapshot(ctx context.Context) ([]dom.Task, error) {
	gen := s.gen.Load()
	ch := s.sf.DoChan(s.version(gen), func() (interface{}, error) {
		// Callers joining this load must not fail because the first one left.
		return s.load(context.WithoutCancel(ctx), gen)
	})
	select {
	case <-ctx.Done():
		return nil, &dom.RepositoryError{Op: "get all", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]dom.Task)), nil
	}
}

func (s *TaskService) load(ctx context.Context, gen uint64) ([]dom.Task, error) {
	version := s.version(gen)
	if s.cache != nil {
		list, ok, err := s.cache.GetAll(ctx, version)
		if err != nil {
			s.log.WarnContext(ctx, "task cache read failed", "error", err)
		} else if ok {
			return list, nil
		}
	}
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(list, func(a, b dom.Task) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	s.fill(ctx, gen, list)
	return list, nil
}

// fill stores a freshly loaded snapshot under its version. If a write landed
// meanwhile nobody reads that version any more, so the entry is dropped.
func (s *TaskService) fill(ctx context.Context, gen uint64, list []dom.Task) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetAll(ctx, s.version(gen), list); err != nil {
		s.log.WarnContext(ctx, "task cache write failed", "error", err)
		return
	}
	if s.gen.Load() != gen {
		s.invalidate(ctx, gen)
	}
}

func (s *TaskService) changed(ctx context.Context) {
	prev := s.gen.Add(1) - 1
	s.invalidate(ctx, prev)
}

func (s *TaskService) invalidate(ctx context.Context, gen uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, s.version(gen)); err != nil {
		s.log.WarnContext(ctx, "task cache invalidation failed", "error", err)
	}
}

func (s *TaskService) version(gen uint64) string {
	return s.epoch + ":" + strconv.FormatUint(gen, 10)
}

func filter(list []dom.Task, keep func(dom.Task) bool) []dom.Task {
	out := make([]dom.Task, 0, len(list))
	for _, t := range list {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
