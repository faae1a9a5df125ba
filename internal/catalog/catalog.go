// Package catalog is the product-catalog collaborator: the hosted document
// database the storefront reads product records from. The cart snapshots
// these records at add time and never asks the catalog to refresh them.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/stpauli98/CandleShop-sub000/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog supplies product records. Consumers define this interface; the
// Mongo implementation and the in-memory implementation both satisfy it.
type Catalog interface {
	// GetProduct returns the product with the given ID, or
	// ErrProductNotFound.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// ListProducts returns all products.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// MemoryCatalog holds products in memory, for tests and the demo binary.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	order    []string
}

// NewMemoryCatalog creates a catalog seeded with the given products.
func NewMemoryCatalog(products ...domain.Product) *MemoryCatalog {
	c := &MemoryCatalog{products: make(map[string]domain.Product)}
	for _, p := range products {
		c.Put(p)
	}
	return c
}

// Put adds or replaces a product.
func (c *MemoryCatalog) Put(p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.products[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	c.products[p.ID] = p
}

func (c *MemoryCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (c *MemoryCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out, nil
}
