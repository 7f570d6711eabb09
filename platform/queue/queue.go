// Copyright (c) 2026 Aerostack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package queue is the message queue binding of the Aerostack SDK, a producer
// over Redis Streams. Each enqueued message gets a generated ID alongside the
// stream entry ID Redis assigns.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"aerostack/sdk/platform"
)

// Options configures a queue producer.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Stream is the Redis stream entries are appended to.
	Stream string
}

// Message is a payload to enqueue. Values must be Redis-representable
// (strings, numbers, booleans, byte slices).
type Message struct {
	Values map[string]any
}

// Receipt identifies an enqueued message.
type Receipt struct {
	// MessageID is the producer-generated UUID attached to the entry.
	MessageID string
	// EntryID is the stream entry ID assigned by Redis.
	EntryID string
}

// Producer appends messages to a Redis stream.
type Producer struct {
	rdb    *redis.Client
	stream string
}

// New connects to Redis and validates the connection with a ping.
func New(ctx context.Context, opts Options) (*Producer, error) {
	if opts.Stream == "" {
		return nil, platform.New(platform.InvalidInput, "queue stream must not be empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, platform.Wrap(platform.Unavailable, "queue ping failed", err)
	}

	return &Producer{rdb: rdb, stream: opts.Stream}, nil
}

// Enqueue appends one message to the stream using XADD.
func (p *Producer) Enqueue(ctx context.Context, msg Message) (Receipt, error) {
	id := uuid.NewString()
	values := make(map[string]any, len(msg.Values)+1)
	for k, v := range msg.Values {
		values[k] = v
	}
	values["message_id"] = id

	entryID, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return Receipt{}, platform.Wrap(platform.Unavailable, "enqueue failed", err)
	}
	return Receipt{MessageID: id, EntryID: entryID}, nil
}

// EnqueueBatch appends messages in order. It stops at the first failure and
// returns the receipts of the messages already appended.
func (p *Producer) EnqueueBatch(ctx context.Context, msgs []Message) ([]Receipt, error) {
	receipts := make([]Receipt, 0, len(msgs))
	for _, msg := range msgs {
		r, err := p.Enqueue(ctx, msg)
		if err != nil {
			return receipts, err
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}

// Ping checks if the queue is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return platform.Wrap(platform.Unavailable, "queue unreachable", err)
	}
	return nil
}

// Close closes the underlying connection.
func (p *Producer) Close() error {
	return p.rdb.Close()
}
