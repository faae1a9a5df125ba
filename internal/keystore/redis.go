package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const opTimeout = time.Second

// RedisSubstrate implements Substrate on a Redis server, for contexts that do
// not share a process. Keys are namespaced under a fixed prefix so one server
// can back several shops.
type RedisSubstrate struct {
	client *redis.Client
	prefix string
}

// NewRedisSubstrate creates a substrate on the given client. prefix namespaces
// all keys; empty means "shop".
func NewRedisSubstrate(client *redis.Client, prefix string) *RedisSubstrate {
	if prefix == "" {
		prefix = "shop"
	}
	return &RedisSubstrate{client: client, prefix: prefix}
}

func (r *RedisSubstrate) storageKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisSubstrate) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.storageKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

func (r *RedisSubstrate) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.storageKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSubstrate) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// RedisBus carries notifications over a Redis pub/sub channel. Delivery is
// asynchronous, so subscribers rely on Notification.Origin rather than timing
// to drop their own writes.
type RedisBus struct {
	client  *redis.Client
	channel string

	mu     sync.Mutex
	subs   []*redis.PubSub
	closed bool
	wg     sync.WaitGroup
}

// NewRedisBus creates a bus publishing on the given channel; empty means
// "shop:events".
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	if channel == "" {
		channel = "shop:events"
	}
	return &RedisBus{client: client, channel: channel}
}

func (b *RedisBus) Publish(n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(handler func(Notification)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	pubsub := b.client.Subscribe(context.Background(), b.channel)
	b.subs = append(b.subs, pubsub)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range pubsub.Channel() {
			var n Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				continue
			}
			handler(n)
		}
	}()

	return func() {
		pubsub.Close()
	}
}

// Close stops all subscriptions and waits for their receive loops to exit.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
	b.wg.Wait()
	return nil
}
