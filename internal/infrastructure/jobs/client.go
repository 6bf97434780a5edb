package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/conjunto-api/pkg/config"
)

// RedisOpts opciones de conexión de asynq a partir de la configuración.
func RedisOpts(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// PingRedis comprueba la conexión antes de arrancar el worker o encolar.
func PingRedis(ctx context.Context, cfg config.RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return nil
}

// Client encola tareas de facturación.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueGenerateMonthly encola la generación mensual.
func (c *Client) EnqueueGenerateMonthly(ctx context.Context, payload GenerateMonthlyPayload) (*asynq.TaskInfo, error) {
	task, err := NewGenerateMonthlyTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task)
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}
