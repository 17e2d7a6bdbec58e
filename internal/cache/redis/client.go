package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client is a cache backed by Redis. Redis errors are logged and read as a
// miss so a cache outage never fails a store read.
type Client struct {
	redisdb *redis.Client
	log     *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return NewFromClient(redisdb, log)
}

func NewFromClient(redisdb *redis.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{redisdb: redisdb, log: log}
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.redisdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WarnContext(ctx, "redis get failed", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.redisdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "redis set failed", "key", key, "err", err)
	}
}

// this ping function checks redis connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}
