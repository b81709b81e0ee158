package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MokkeMeguru/todo-api/internal/config"
	"github.com/MokkeMeguru/todo-api/internal/dto"

	_ "github.com/MokkeMeguru/todo-api/docs"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.App.Env = "test"
	cfg.App.Version = "1.2.3"
	cfg.Redis.Addr = ""
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServiceRoutes(t *testing.T) {
	a, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	h := a.Router()

	rr := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"api":"/api/v1"`)

	rr = do(t, h, http.MethodGet, "/swagger-doc.json", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/tasks")
	assert.Contains(t, paths, "/tasks/{id}/complete")

	rr = do(t, h, http.MethodGet, "/swagger", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/swagger/index.html", rr.Header().Get("Location"))
}

func TestTaskFlow(t *testing.T) {
	a, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)
	h := a.Router()

	rr := do(t, h, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "Write report"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created dto.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, uint64(1), created.ID)

	rr = do(t, h, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "Review PR"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodPut, "/api/v1/tasks/1/complete", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []dto.TaskResponse
	rr = do(t, h, http.MethodGet, "/api/v1/tasks/completed", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint64(1), list[0].ID)

	rr = do(t, h, http.MethodGet, "/api/v1/tasks/search?q=REVIEW", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint64(2), list[0].ID)

	rr = do(t, h, http.MethodDelete, "/api/v1/tasks/2", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/tasks/2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/tasks/status?completed=false", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestTaskFlow_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()

	a, err := New(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	h := a.Router()

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "first"}).Code)

	var list []dto.TaskResponse
	rr := do(t, h, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], cfg.Redis.KeyPrefix+"tasks:all:"), keys[0])

	// A write drops the cached snapshot, so the next read sees it.
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "second"}).Code)
	assert.Empty(t, mr.Keys())

	rr = do(t, h, http.MethodGet, "/api/v1/tasks", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	_, err := New(cfg, discardLogger())
	assert.ErrorContains(t, err, "redis ping")
}

func TestCORS(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.AllowOrigins = "https://app.example.com"
	a, err := New(cfg, discardLogger())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	a.Router().ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	a.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestClose(t *testing.T) {
	a, err := New(testConfig(t), discardLogger())
	require.NoError(t, err)
	assert.NoError(t, a.Close())

	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	a, err = New(cfg, discardLogger())
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Error(t, a.redis.Ping(context.Background()).Err(), "client is closed")
}
