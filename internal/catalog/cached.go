package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stpauli98/CandleShop-sub000/internal/domain"
)

const defaultTTL = 15 * time.Minute

type cachedProduct struct {
	product   domain.Product
	expiresAt time.Time
}

// CachedCatalog is a read-through cache over another Catalog. Concurrent
// misses for the same product collapse into one upstream call.
type CachedCatalog struct {
	upstream Catalog
	ttl      time.Duration
	log      *slog.Logger
	sfg      singleflight.Group // Prevents cache stampede

	mu       sync.RWMutex
	products map[string]cachedProduct
}

// NewCachedCatalog wraps upstream with a TTL cache; ttl <= 0 uses the
// default.
func NewCachedCatalog(upstream Catalog, ttl time.Duration, log *slog.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedCatalog{
		upstream: upstream,
		ttl:      ttl,
		log:      log,
		products: make(map[string]cachedProduct),
	}
}

func (c *CachedCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	c.mu.RLock()
	entry, ok := c.products[id]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		p := entry.product
		return &p, nil
	}

	v, err, _ := c.sfg.Do(id, func() (interface{}, error) {
		p, err := c.upstream.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.products[id] = cachedProduct{product: *p, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// ListProducts always goes upstream; listings are not cached.
func (c *CachedCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.upstream.ListProducts(ctx)
}

// Invalidate drops the cached entry for a product, if any.
func (c *CachedCatalog) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
}
