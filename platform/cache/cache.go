// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cache is the key-value cache binding of the Aerostack SDK. It is a
// thin typed wrapper over Redis: keys are namespaced under a configurable
// prefix, values are strings, expiry is optional.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"aerostack/sdk/platform"
)

// Options configures a cache client.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, separated by a colon.
	// Empty means no namespacing.
	Prefix string
}

// Client is a namespaced key-value cache over Redis.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New connects to Redis and validates the connection with a ping.
func New(ctx context.Context, opts Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, platform.Wrap(platform.Unavailable, "cache ping failed", err)
	}

	return &Client{rdb: rdb, prefix: opts.Prefix}, nil
}

func (c *Client) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Set stores value under key. A zero ttl means no expiry.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return platform.New(platform.InvalidInput, "cache key must not be empty")
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return platform.Wrap(platform.Unavailable, "cache set failed", err)
	}
	return nil
}

// Get returns the value stored under key. A missing key is a NotFound error.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", platform.New(platform.NotFound, "cache key not found: "+key)
	}
	if err != nil {
		return "", platform.Wrap(platform.Unavailable, "cache get failed", err)
	}
	return val, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return platform.Wrap(platform.Unavailable, "cache delete failed", err)
	}
	return nil
}

// TTL returns the remaining lifetime of key. Keys without expiry report a
// negative duration, per Redis semantics.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.rdb.TTL(ctx, c.key(key)).Result()
	if err != nil {
		return 0, platform.Wrap(platform.Unavailable, "cache ttl failed", err)
	}
	return d, nil
}

// Ping checks if the cache is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return platform.Wrap(platform.Unavailable, "cache unreachable", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
