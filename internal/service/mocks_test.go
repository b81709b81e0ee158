package service

import (
	"context"
	"sync"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockTaskRepo is a mock implementation of repo.TaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) GetAll(ctx context.Context) ([]dom.Task, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]dom.Task)
	return list, args.Error(1)
}

func (m *MockTaskRepo) GetByID(ctx context.Context, id uint64) (dom.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(dom.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepo) Create(ctx context.Context, in dom.CreateTask) (dom.Task, error) {
	args := m.Called(ctx, in)
	task, _ := args.Get(0).(dom.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepo) Update(ctx context.Context, id uint64, in dom.UpdateTask) (dom.Task, error) {
	args := m.Called(ctx, id, in)
	task, _ := args.Get(0).(dom.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepo) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepo) Complete(ctx context.Context, id uint64) (dom.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(dom.Task)
	return task, args.Error(1)
}

func (m *MockTaskRepo) Uncomplete(ctx context.Context, id uint64) (dom.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(dom.Task)
	return task, args.Error(1)
}

// memCache is an in-process TaskCache that counts calls. beforeSet and
// afterSet, when set, run around the store of every SetAll.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]dom.Task
	hits        int
	sets        int
	invalidates int
	getErr      error
	invErr      error
	beforeSet   func()
	afterSet    func()
}

func (c *memCache) GetAll(_ context.Context, version string) ([]dom.Task, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	list, ok := c.entries[version]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return append([]dom.Task{}, list...), true, nil
}

func (c *memCache) SetAll(_ context.Context, version string, list []dom.Task) error {
	if c.beforeSet != nil {
		c.beforeSet()
	}
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[string][]dom.Task)
	}
	c.sets++
	c.entries[version] = append([]dom.Task{}, list...)
	c.mu.Unlock()
	if c.afterSet != nil {
		c.afterSet()
	}
	return nil
}

func (c *memCache) Invalidate(_ context.Context, version string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidates++
	if c.invErr != nil {
		return c.invErr
	}
	delete(c.entries, version)
	return nil
}
