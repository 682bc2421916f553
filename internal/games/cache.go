package games

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL  = 24 * time.Hour
	defaultCacheSize = 512
)

// Cache memoises search results per literal query text. Only successful
// searches are stored; concurrent misses for one key share a single fill.
type Cache struct {
	lru   *expirable.LRU[string, []Summary]
	group singleflight.Group
}

// NewCache returns a cache holding at most size queries for ttl each.
// Non-positive values pick the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Cache{lru: expirable.NewLRU[string, []Summary](size, nil, ttl)}
}

func (c *Cache) Get(query string) ([]Summary, bool) {
	v, ok := c.lru.Get(query)
	if !ok {
		return nil, false
	}

	return slices.Clone(v), true
}

func (c *Cache) Len() int { return c.lru.Len() }

// Load returns the cached value for query or runs fill once to produce it.
// fill gets a context detached from ctx's cancellation, so one caller
// giving up does not fail the others waiting on the same fill.
func (c *Cache) Load(ctx context.Context, query string, fill func(context.Context) ([]Summary, error)) ([]Summary, error) {
	if v, ok := c.Get(query); ok {
		return v, nil
	}

	fctx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(query, func() (any, error) {
		if v, ok := c.lru.Get(query); ok {
			return v, nil
		}

		res, err := fill(fctx)
		if err != nil {
			return nil, err
		}

		c.lru.Add(query, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return slices.Clone(r.Val.([]Summary)), nil
	}
}
