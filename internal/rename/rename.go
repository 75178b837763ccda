// Package rename wires the store's transactional template rename to
// substitute-cache invalidation (C8): the store itself performs the
// atomic rename and reference rewrite (spec §4.7), and this package is
// the one call site responsible for dropping every cache entry the
// rename could have touched.
package rename

import (
	"context"

	"fungen.dev/internal/cache"
	"fungen.dev/internal/store"
)

// Propagator renames a template and invalidates the caches of every
// template whose body the rename could have rewritten.
type Propagator struct {
	store store.Store
	cache *cache.Cache
}

// New builds a Propagator over store and its fronting cache.
func New(backing store.Store, front *cache.Cache) *Propagator {
	return &Propagator{store: backing, cache: front}
}

// RenameByName renames oldName to newName. The store performs the body
// rewrites atomically with the name change; since the store's rename
// contract (spec §4.10) reports only the renamed Template, not the set
// of other templates whose substitute bodies got rewritten, this call
// purges the whole cache rather than guessing at a partial invalidation
// list (see cache.Cache.Purge).
func (p *Propagator) RenameByName(ctx context.Context, oldName, newName string) (*store.Template, error) {
	t, err := p.store.UpdateTemplateByName(ctx, oldName, newName)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Purge()
	}
	return t, nil
}

// RenameByID renames the template identified by id.
func (p *Propagator) RenameByID(ctx context.Context, id store.KeySize, newName string) (*store.Template, error) {
	t, err := p.store.UpdateTemplateByID(ctx, id, newName)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Purge()
	}
	return t, nil
}
