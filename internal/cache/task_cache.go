package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "github.com/MokkeMeguru/todo-api/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyAll = "tasks:all:"

// TaskCache caches the full task snapshot in Redis. Filters and search are
// derived from the snapshot, so one key per store version is enough. A
// version is never reused, so an entry filled late for an old version is
// never read under a newer one.
type TaskCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTaskCache returns a new TaskCache. prefix namespaces the keys of one store.
func NewTaskCache(rdb *redis.Client, prefix string, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *TaskCache) key(version string) string {
	return c.prefix + keyAll + version
}

// GetAll returns the snapshot cached for version. ok is false on a miss.
func (c *TaskCache) GetAll(ctx context.Context, version string) (list []dom.Task, ok bool, err error) {
	b, err := c.rdb.Get(ctx, c.key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, true, nil
}

// SetAll stores the snapshot for version.
func (c *TaskCache) SetAll(ctx context.Context, version string, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(version), b, c.ttl).Err()
}

// Invalidate drops the snapshot of a superseded version.
func (c *TaskCache) Invalidate(ctx context.Context, version string) error {
	return c.rdb.Del(ctx, c.key(version)).Err()
}
