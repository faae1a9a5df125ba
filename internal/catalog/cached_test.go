package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stpauli98/CandleShop-sub000/internal/domain"
)

type countingCatalog struct {
	upstream Catalog
	calls    atomic.Int64
	delay    time.Duration
}

func (c *countingCatalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return c.upstream.GetProduct(ctx, id)
}

func (c *countingCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.upstream.ListProducts(ctx)
}

func TestCachedCatalog_SecondReadHitsCache(t *testing.T) {
	counting := &countingCatalog{upstream: NewMemoryCatalog(
		domain.Product{ID: "A", Name: "Lavanda"},
	)}
	sut := NewCachedCatalog(counting, time.Minute, nil)

	for i := 0; i < 3; i++ {
		p, err := sut.GetProduct(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, "Lavanda", p.Name)
	}

	assert.Equal(t, int64(1), counting.calls.Load())
}

func TestCachedCatalog_ConcurrentMissesCollapse(t *testing.T) {
	counting := &countingCatalog{
		upstream: NewMemoryCatalog(domain.Product{ID: "A", Name: "Lavanda"}),
		delay:    20 * time.Millisecond,
	}
	sut := NewCachedCatalog(counting, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := sut.GetProduct(context.Background(), "A")
			assert.NoError(t, err)
			assert.Equal(t, "Lavanda", p.Name)
		}()
	}
	wg.Wait()

	// Ten concurrent misses collapse into one flight; allow one straggler
	// that lost the race with the first flight's completion.
	assert.LessOrEqual(t, counting.calls.Load(), int64(2))
}

func TestCachedCatalog_ErrorsPassThrough(t *testing.T) {
	counting := &countingCatalog{upstream: NewMemoryCatalog()}
	sut := NewCachedCatalog(counting, time.Minute, nil)

	_, err := sut.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProductNotFound)

	// Errors are not cached; the next read goes upstream again.
	_, err = sut.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, int64(2), counting.calls.Load())
}

func TestCachedCatalog_InvalidateForcesRefresh(t *testing.T) {
	mem := NewMemoryCatalog(domain.Product{ID: "A", Price: "10.00"})
	counting := &countingCatalog{upstream: mem}
	sut := NewCachedCatalog(counting, time.Minute, nil)

	p, err := sut.GetProduct(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "10.00", p.Price)

	mem.Put(domain.Product{ID: "A", Price: "8.00"})
	sut.Invalidate("A")

	p, err = sut.GetProduct(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "8.00", p.Price)
	assert.Equal(t, int64(2), counting.calls.Load())
}
