package redisclient

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

// Ping checks redis connectivity.

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

const submitLockPrefix = "registration:submit:"

// AcquireSubmitLock takes a short-lived lock keyed by the applicant's
// national-id token so concurrent submits for the same applicant are
// serialized. Returns false when another submit holds the lock.

func (c *Client) AcquireSubmitLock(ctx context.Context, ano string, ttl time.Duration) (bool, error) {
	return c.redisdb.SetNX(ctx, submitLockPrefix+ano, "1", ttl).Result()
}

func (c *Client) ReleaseSubmitLock(ctx context.Context, ano string) error {
	return c.redisdb.Del(ctx, submitLockPrefix+ano).Err()
}
