// Package cart is the synchronization engine for the shopping cart: mutation
// and query operations over one well-known key in the durable keyed store,
// kept consistent across every execution context sharing that store.
package cart

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/stpauli98/CandleShop-sub000/internal/domain"
	"github.com/stpauli98/CandleShop-sub000/internal/keystore"
)

// StorageKey is the well-known store key all contexts share the cart under.
const StorageKey = "cart"

// Engine exposes the cart operations for one context. All mutations persist
// the full cart through the keyed store; notifications from other contexts
// replace the in-memory cart wholesale (last write wins, no field-level
// merge — a deliberate choice for a single-user cart).
type Engine struct {
	store *keystore.Context
	key   string
	log   *slog.Logger

	mu        sync.Mutex
	lines     []domain.CartLine
	listeners []func([]domain.CartLine)
}

// NewEngine hydrates the cart from the store and subscribes to changes made
// by other contexts.
func NewEngine(store *keystore.Context, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		store: store,
		key:   StorageKey,
		log:   log,
		lines: keystore.Read(store, StorageKey, []domain.CartLine{}),
	}
	store.Subscribe(e.key, e.onRemoteChange)
	return e
}

// Lines returns a copy of the current cart contents.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// ItemCount returns the sum of quantities across all lines.
func (e *Engine) ItemCount() int {
	return ItemCount(e.Lines())
}

// Total returns the monetary total of the current cart.
func (e *Engine) Total() float64 {
	return Total(e.Lines())
}

// OnChange registers a listener invoked with the new cart contents after
// every change, local or remote.
func (e *Engine) OnChange(fn func(lines []domain.CartLine)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// AddToCart inserts a quantity-1 line for the product and selection, or
// increments the existing line with the same identity. Name, prices, image
// and the selection are snapshotted at insertion time. Adding an unavailable
// product is a no-op.
func (e *Engine) AddToCart(p domain.Product, sel domain.VariantSelection) {
	if e.dropInFlight("add") {
		return
	}
	if !p.Available {
		e.log.Debug("add ignored, product unavailable", "product", p.ID)
		return
	}

	e.mu.Lock()
	next := cloneLines(e.lines)
	found := false
	for i := range next {
		if next[i].Matches(p.ID, sel) {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, domain.NewCartLine(p, sel))
	}
	e.lines = next
	snapshot := cloneLines(next)
	e.mu.Unlock()

	e.persist(snapshot)
}

// RemoveFromCart deletes the matching line entirely, regardless of quantity.
// No-op when the identity is not present.
func (e *Engine) RemoveFromCart(productID string, sel domain.VariantSelection) {
	if e.dropInFlight("remove") {
		return
	}

	e.mu.Lock()
	next := make([]domain.CartLine, 0, len(e.lines))
	removed := false
	for _, l := range e.lines {
		if l.Matches(productID, sel) {
			removed = true
			continue
		}
		next = append(next, l)
	}
	e.lines = next
	snapshot := cloneLines(next)
	e.mu.Unlock()

	if !removed {
		return
	}
	e.persist(snapshot)
}

// UpdateQuantity replaces the matching line's quantity. Quantities below 1
// are ignored; removal must go through RemoveFromCart explicitly.
func (e *Engine) UpdateQuantity(productID string, quantity int, sel domain.VariantSelection) {
	if e.dropInFlight("update") {
		return
	}
	if quantity < 1 {
		e.log.Debug("quantity update ignored", "product", productID, "quantity", quantity)
		return
	}

	e.mu.Lock()
	next := cloneLines(e.lines)
	changed := false
	for i := range next {
		if next[i].Matches(productID, sel) {
			next[i].Quantity = quantity
			changed = true
			break
		}
	}
	e.lines = next
	snapshot := cloneLines(next)
	e.mu.Unlock()

	if !changed {
		return
	}
	e.persist(snapshot)
}

// Decrement lowers the matching line's quantity by one, removing the line
// when the quantity would drop below one. No-op when the identity is absent.
func (e *Engine) Decrement(productID string, sel domain.VariantSelection) {
	if e.dropInFlight("decrement") {
		return
	}

	e.mu.Lock()
	next := make([]domain.CartLine, 0, len(e.lines))
	changed := false
	for _, l := range e.lines {
		if l.Matches(productID, sel) {
			changed = true
			if l.Quantity > 1 {
				l.Quantity--
				next = append(next, l)
			}
			continue
		}
		next = append(next, l)
	}
	e.lines = next
	snapshot := cloneLines(next)
	e.mu.Unlock()

	if !changed {
		return
	}
	e.persist(snapshot)
}

// ClearCart replaces the persisted cart with an empty list. Used after a
// successful checkout.
func (e *Engine) ClearCart() {
	if e.dropInFlight("clear") {
		return
	}

	e.mu.Lock()
	e.lines = []domain.CartLine{}
	e.mu.Unlock()

	e.persist([]domain.CartLine{})
}

func (e *Engine) dropInFlight(op string) bool {
	if e.store.InFlight() {
		e.log.Debug("mutation dropped, update in flight", "op", op)
		return true
	}
	return false
}

func (e *Engine) persist(lines []domain.CartLine) {
	keystore.Write(e.store, e.key, lines)
	e.notify(lines)
}

// onRemoteChange handles a notification from another context: the incoming
// value becomes the authoritative cart snapshot, replacing local state
// wholesale. Parse failures drop the notification and keep local state.
func (e *Engine) onRemoteChange(newValue string) {
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(newValue), &lines); err != nil {
		e.log.Error("remote cart update is corrupt", "category", "parse", "error", err)
		return
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	e.mu.Lock()
	e.lines = lines
	snapshot := cloneLines(lines)
	e.mu.Unlock()

	e.notify(snapshot)
}

func (e *Engine) notify(lines []domain.CartLine) {
	e.mu.Lock()
	listeners := make([]func([]domain.CartLine), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(lines)
	}
}

func cloneLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
