package filter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkdesk/internal/ticket"
)

// ErrLoad marks a failed fetch of the ticket collection. The cache is
// never left partially updated: on failure the last-known-good items
// stay in place.
var ErrLoad = errors.New("load tickets")

// DefaultMaxAge is how long a fetched collection stays reusable. The
// backend UI defined the same five-minute window but only some of its
// filter paths honored it; here every path does.
const DefaultMaxAge = 5 * time.Minute

// Loader fetches the full ticket collection from the backend.
type Loader interface {
	List(ctx context.Context) ([]ticket.Ticket, error)
}

// Cache is the single source of truth for filtering: the full ticket
// list plus a freshness timestamp. Safe for use from concurrent
// tea.Cmd goroutines.
type Cache struct {
	loader Loader
	maxAge time.Duration
	now    func() time.Time

	mu        sync.Mutex
	items     []ticket.Ticket
	fetchedAt time.Time
	loaded    bool
}

func NewCache(loader Loader, maxAge time.Duration) *Cache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Cache{loader: loader, maxAge: maxAge, now: time.Now}
}

// EnsureLoaded returns the cached items when they are present and
// younger than maxAge, otherwise fetches a fresh collection. The
// returned slice is a copy; callers may mutate it freely.
func (c *Cache) EnsureLoaded(ctx context.Context) ([]ticket.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && c.now().Sub(c.fetchedAt) < c.maxAge {
		return c.snapshotLocked(), nil
	}
	if err := c.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return c.snapshotLocked(), nil
}

// ForceReload discards the cached collection and fetches a fresh one.
// The returned slice is a copy, like EnsureLoaded's.
func (c *Cache) ForceReload(ctx context.Context) ([]ticket.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reloadLocked(ctx); err != nil {
		return nil, err
	}
	return c.snapshotLocked(), nil
}

// Invalidate drops the cached collection without fetching, so the next
// read reloads. Called after mutations (delete) to keep the cache
// consistent with backend state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.fetchedAt = time.Time{}
	c.loaded = false
}

func (c *Cache) reloadLocked(ctx context.Context) error {
	items, err := c.loader.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	c.items = items
	c.fetchedAt = c.now()
	c.loaded = true
	return nil
}

// snapshotLocked copies the cached slice so a caller mutating its view
// cannot race a concurrent filter pass over the same backing array.
func (c *Cache) snapshotLocked() []ticket.Ticket {
	out := make([]ticket.Ticket, len(c.items))
	copy(out, c.items)
	return out
}
