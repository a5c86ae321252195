package cache

import (
	"context"
	"time"

	"github.com/burakmert236/firstblood/common/config"
	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

type RedisClient struct {
	client *redis.Client
	addr   string
}

// NewRedisClient connects and pings the server; a client is only returned
// once Redis has answered.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, *apperrors.AppError) {
	client := redis.NewClient(redisOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeRedisOperationError, "failed to connect to redis at "+cfg.Address)
	}

	return &RedisClient{client: client, addr: cfg.Address}, nil
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) Addr() string {
	return r.addr
}

func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}
