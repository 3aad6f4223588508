// Package redis opens the optional Redis connection behind distributed
// provisioning locks.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"condovote/internal/platform/config"
)

// Client embeds the go-redis client so it satisfies redis.UniversalClient.
type Client struct {
	*redis.Client
}

// New connects and pings. It returns nil, nil when no URL is configured,
// meaning locks stay process-local.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.MinIdleConns = cfg.MinIdleConns
	overrideIfSet(&opts.PoolSize, cfg.PoolSize)
	overrideIfSet(&opts.DialTimeout, cfg.DialTimeout)
	overrideIfSet(&opts.ReadTimeout, cfg.ReadTimeout)
	overrideIfSet(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func overrideIfSet[T int | ~int64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// Health pings the server; /health reports it.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
