package keystore

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and a substrate/bus pair on it.
func setupTestRedis(t *testing.T) (*RedisSubstrate, *RedisBus) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	bus := NewRedisBus(client, "")
	t.Cleanup(func() { bus.Close() })

	return NewRedisSubstrate(client, ""), bus
}

func TestRedisSubstrate_RoundTrip(t *testing.T) {
	sub, _ := setupTestRedis(t)

	_, ok, err := sub.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sub.Set("cart", `[{"id":"A","quantity":1}]`))

	val, ok, err := sub.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"A","quantity":1}]`, val)

	require.NoError(t, sub.Delete("cart"))
	_, ok, err = sub.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBus_DeliversNotifications(t *testing.T) {
	_, bus := setupTestRedis(t)

	received := make(chan Notification, 1)
	bus.Subscribe(func(n Notification) { received <- n })

	// Subscription registration races with the first publish, so retry
	// until the message lands.
	require.Eventually(t, func() bool {
		if err := bus.Publish(Notification{Key: "cart", NewValue: "[]", Origin: "tab-a"}); err != nil {
			return false
		}
		select {
		case n := <-received:
			assert.Equal(t, "cart", n.Key)
			assert.Equal(t, "[]", n.NewValue)
			assert.Equal(t, "tab-a", n.Origin)
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRedisContexts_SelfSuppressed(t *testing.T) {
	sub, bus := setupTestRedis(t)

	a := NewContext("tab-a", sub, bus, nil)
	b := NewContext("tab-b", sub, bus, nil)
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	aCalls := make(chan string, 8)
	bCalls := make(chan string, 8)
	a.Subscribe("cart", func(v string) { aCalls <- v })
	b.Subscribe("cart", func(v string) { bCalls <- v })

	require.Eventually(t, func() bool {
		Write(a, "cart", testCart{Items: 4})
		select {
		case v := <-bCalls:
			assert.JSONEq(t, `{"items":4}`, v)
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	// The origin check filters tab-a's own notifications even though pub/sub
	// delivery happens long after the write flag clears.
	select {
	case v := <-aCalls:
		t.Fatalf("writer received its own notification: %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}
