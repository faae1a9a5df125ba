// Package keystore is the durable keyed store underneath the cart: typed
// get/set over a synchronous key-value substrate, with change notifications
// so every execution context (browser tab, process) sharing the substrate
// converges on the same persisted state.
package keystore

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Context is one execution context's handle on the shared store, the
// equivalent of a single browser tab. Each context carries its own
// re-entrancy flag so a write never re-triggers the writer's own handlers,
// and an ID so asynchronous buses can attribute notifications.
type Context struct {
	id  string
	sub Substrate
	bus Bus
	log *slog.Logger

	writing atomic.Bool

	mu       sync.Mutex
	handlers map[string][]func(newValue string)
	unsub    func()
}

// NewContext creates a context over the given substrate and bus. id must be
// unique among contexts sharing the bus.
func NewContext(id string, sub Substrate, bus Bus, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	c := &Context{
		id:       id,
		sub:      sub,
		bus:      bus,
		log:      log.With("context", id),
		handlers: make(map[string][]func(string)),
	}
	c.unsub = bus.Subscribe(c.dispatch)
	return c
}

// InFlight reports whether this context is currently inside a write. Mutating
// callers use it as the update-in-flight guard.
func (c *Context) InFlight() bool {
	return c.writing.Load()
}

// Subscribe registers a handler invoked with the raw new value whenever
// another context writes key. Notifications originating from this context are
// suppressed.
func (c *Context) Subscribe(key string, handler func(newValue string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[key] = append(c.handlers[key], handler)
}

// Close detaches the context from the bus. Reads and writes remain usable;
// the context just stops observing other contexts' changes.
func (c *Context) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Context) dispatch(n Notification) {
	// A context never processes its own writes: the flag catches synchronous
	// echo from in-process buses, the origin check catches asynchronous echo
	// from remote ones.
	if c.writing.Load() || n.Origin == c.id {
		return
	}

	c.mu.Lock()
	handlers := make([]func(string), len(c.handlers[n.Key]))
	copy(handlers, c.handlers[n.Key])
	c.mu.Unlock()

	for _, h := range handlers {
		h(n.NewValue)
	}
}

// Read returns the value stored under key, or initial when the key is absent
// or holds text that does not parse. Read never fails: corrupt data is logged
// and degraded to the initial value.
func Read[T any](c *Context, key string, initial T) T {
	raw, ok, err := c.sub.Get(key)
	if err != nil {
		c.log.Error("store read failed", "category", "persist", "key", key, "error", err)
		return initial
	}
	if !ok {
		return initial
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		c.log.Error("stored value is corrupt", "category", "parse", "key", key, "error", err)
		return initial
	}
	return v
}

// Write serializes value under key and notifies other contexts. Failures are
// logged and absorbed so the caller's in-memory state still advances; the
// worst case is degraded durability, never a failed mutation.
func Write[T any](c *Context, key string, value T) {
	c.writing.Store(true)
	defer c.writing.Store(false)

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Error("store write failed", "category", "persist", "key", key, "error", err)
		return
	}

	if err := c.sub.Set(key, string(raw)); err != nil {
		c.log.Error("store write failed", "category", "persist", "key", key, "error", err)
		return
	}

	if err := c.bus.Publish(Notification{Key: key, NewValue: string(raw), Origin: c.id}); err != nil {
		c.log.Error("change notification failed", "category", "notify", "key", key, "error", err)
	}
}
