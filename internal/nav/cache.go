package nav

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dkoval/navgrid/internal/model"
)

// GridBuilder constructs the navigation grid for a map key. Called at
// most once per key per cache generation; it is where map geometry is
// read. Builders return ErrUnknownMap for keys without geometry.
type GridBuilder func(ctx context.Context, id model.MapID) (Grid, error)

// Cache owns the long-lived grids, keyed by map identifier. A grid is
// built on first use and shared read-only afterwards; concurrent first
// requests for the same key collapse into a single build. Invalidate
// drops a key on map reload, so the next request rebuilds.
type Cache struct {
	build   GridBuilder
	metrics *Metrics

	group singleflight.Group

	mu    sync.RWMutex
	grids map[model.MapID]Grid
}

// NewCache creates a grid cache around the given builder.
// metrics may be nil.
func NewCache(build GridBuilder, metrics *Metrics) *Cache {
	return &Cache{
		build:   build,
		metrics: metrics,
		grids:   make(map[model.MapID]Grid),
	}
}

// Get returns the grid for the map key, building it on first use.
func (c *Cache) Get(ctx context.Context, id model.MapID) (Grid, error) {
	c.mu.RLock()
	g, ok := c.grids[id]
	c.mu.RUnlock()
	if ok {
		if c.metrics != nil {
			c.metrics.cacheHits.Inc()
		}
		return g, nil
	}

	if c.metrics != nil {
		c.metrics.cacheMisses.Inc()
	}

	v, err, _ := c.group.Do(string(id), func() (any, error) {
		// Re-check under singleflight: a concurrent caller may have built it.
		c.mu.RLock()
		g, ok := c.grids[id]
		c.mu.RUnlock()
		if ok {
			return g, nil
		}

		built, err := c.build(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("building grid for map %q: %w", id, err)
		}

		w, d := built.Size()
		slog.Info("navigation grid built", "map", id, "width", w, "depth", d)

		c.mu.Lock()
		c.grids[id] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Grid), nil
}

// Invalidate drops the cached grid for the map key. The next Get
// rebuilds from current geometry. Used on map reloads.
func (c *Cache) Invalidate(id model.MapID) {
	c.mu.Lock()
	_, had := c.grids[id]
	delete(c.grids, id)
	c.mu.Unlock()

	if had {
		slog.Info("navigation grid invalidated", "map", id)
	}
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}
