package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MokkeMeguru/todo-api/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    *slog.Logger
	redis  *redis.Client
	router *gin.Engine
}

// New wires the store, the optional redis cache and the router.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		logger.Info("task cache enabled", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.KeyPrefix)
	} else {
		logger.Info("task cache disabled")
	}

	a.router = newRouter(cfg, logger, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close releases the redis client, if any.
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("redis close: %w", err)
		}
	}
	return nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func newRouter(cfg config.Config, logger *slog.Logger, rdb *redis.Client) *gin.Engine {
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), corsMiddleware(cfg.HTTP))
	Setup(r, cfg, logger, rdb)
	return r
}
