package blogicum

import (
	"sync"
	"time"

	"github.com/eringen/blogicum/views"
)

// taxonomyCache is an in-memory cache of the published category and location
// lists with TTL. The post form selects and the feeds hit these on every
// request, and the lists change rarely.
type taxonomyCache struct {
	mu         sync.RWMutex
	categories []views.Category
	locations  []views.Location
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

func newTaxonomyCache(s *Store, ttl time.Duration) *taxonomyCache {
	return &taxonomyCache{store: s, ttl: ttl}
}

func (c *taxonomyCache) valid() bool {
	return c.categories != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *taxonomyCache) Invalidate() {
	c.mu.Lock()
	c.categories = nil
	c.locations = nil
	c.mu.Unlock()
}

func (c *taxonomyCache) load() error {
	if c.valid() {
		return nil
	}
	cats, err := c.store.ListCategories(true)
	if err != nil {
		return err
	}
	locs, err := c.store.ListLocations(true)
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []views.Category{}
	}
	c.categories = cats
	c.locations = locs
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached lists after ensuring they are fresh. It
// tries a read lock first; only takes a write lock when a reload is needed.
func (c *taxonomyCache) ensureLoaded() ([]views.Category, []views.Location, error) {
	c.mu.RLock()
	if c.valid() {
		cats, locs := c.categories, c.locations
		c.mu.RUnlock()
		return cats, locs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.categories, c.locations, nil
}

// Categories returns the published categories.
func (c *taxonomyCache) Categories() ([]views.Category, error) {
	cats, _, err := c.ensureLoaded()
	return cats, err
}

// Locations returns the published locations.
func (c *taxonomyCache) Locations() ([]views.Location, error) {
	_, locs, err := c.ensureLoaded()
	return locs, err
}
