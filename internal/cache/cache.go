// Package cache implements the bounded-size, TTL-expiring substitute
// cache (C7) that sits in front of a store.Store: a successful
// GetRandom either serves from a cached snapshot or refills it from the
// store, and every store mutation that can affect a template's rows
// must invalidate that template's entry.
package cache

import (
	"context"
	"math/rand/v2"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/store"
)

// DefaultMaxEntries and DefaultTTL are the cache's size and freshness
// bounds per spec §4.6: roughly 20 templates' worth of recent draws,
// refreshed at least once a minute. New always uses these, and
// NewWithBounds falls back to them for a non-positive value, so callers
// that don't care about the config surface's cache knobs can keep calling
// New(backing) as before.
const (
	DefaultMaxEntries = 20
	DefaultTTL        = 60 * time.Second
	snapshotLimit     = 200
)

// Cache wraps a store.Store with an expirable LRU of recently drawn
// substitute snapshots.
type Cache struct {
	store store.Store
	lru   *lru.LRU[string, []store.Substitute]
}

// New builds a Cache in front of backing, using the spec's default
// bounds (20 entries, 60s TTL).
func New(backing store.Store) *Cache {
	return NewWithBounds(backing, DefaultMaxEntries, DefaultTTL)
}

// NewWithBounds builds a Cache in front of backing with an
// operator-tunable size and TTL (internal/config's CacheConfig), falling
// back to the spec defaults for any non-positive value.
func NewWithBounds(backing store.Store, maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: backing,
		lru:   lru.NewLRU[string, []store.Substitute](maxEntries, nil, ttl),
	}
}

// GetRandom returns a uniformly random substitute for template, refilling
// the cache entry from the store on a miss (spec §4.6). Fails with a
// DatabaseError if the template has no substitutes.
func (c *Cache) GetRandom(ctx context.Context, template string) (store.Substitute, error) {
	if cached, ok := c.lru.Get(template); ok && len(cached) > 0 {
		return cached[rand.IntN(len(cached))], nil
	}

	rows, err := c.store.ReadRandomSubstitutes(ctx, template, snapshotLimit)
	if err != nil {
		return store.Substitute{}, err
	}
	if len(rows) == 0 {
		return store.Substitute{}, fungerr.Database(
			"No substitutes were present in template \""+template+"\"", nil)
	}
	c.lru.Add(template, rows)
	return rows[rand.IntN(len(rows))], nil
}

// Invalidate drops template's cached snapshot, if any. Every mutator on a
// template's substitutes (add, delete-by-name, delete-by-id, replace,
// copy-to, rename-template, delete-template) must call this for every
// template it affects.
func (c *Cache) Invalidate(template string) {
	c.lru.Remove(template)
}

// Purge drops every cached entry. A template rename can rewrite
// substitute bodies belonging to any number of other templates (every
// template with a substitute that referenced the renamed name) and the
// store contract does not report which ones those were (spec §4.10 only
// returns the renamed Template itself), so the rename propagator cannot
// cheaply name each affected key the way delete-by-id does. With at most
// maxEntries cached templates, purging all of them on a rename is cheap
// and satisfies spec §4.6's "every affected template's cache entry" —
// unaffected templates just repopulate on their next draw.
func (c *Cache) Purge() {
	c.lru.Purge()
}
