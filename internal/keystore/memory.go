package keystore

import (
	"sort"
	"sync"
)

// MemorySubstrate implements Substrate with an in-process map. It models the
// browser's origin-scoped storage for contexts living in one process: writes
// are synchronous and visible to every context sharing the instance.
type MemorySubstrate struct {
	mu   sync.RWMutex
	data map[string]string

	// Quota caps the total stored bytes when > 0. Writes that would exceed
	// it fail with ErrQuotaExceeded, like a full browser storage area.
	Quota int
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{data: make(map[string]string)}
}

func (m *MemorySubstrate) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemorySubstrate) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Quota > 0 {
		total := len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.Quota {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}

func (m *MemorySubstrate) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MemoryBus delivers notifications synchronously to every subscriber, in the
// order they subscribed. Synchronous delivery matches the storage-event model
// the store is built around: a write and its notifications complete before
// the writer's call returns.
type MemoryBus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(Notification)
}

// NewMemoryBus creates a bus with no subscribers.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]func(Notification))}
}

func (b *MemoryBus) Publish(n Notification) error {
	b.mu.Lock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	// Sort for deterministic delivery order.
	sort.Ints(ids)
	handlers := make([]func(Notification), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(n)
	}
	return nil
}

func (b *MemoryBus) Subscribe(handler func(Notification)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}
