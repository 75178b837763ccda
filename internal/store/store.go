// Package store defines the persisted substitute-store contract (C10):
// templates and their substitutes, ordering/limit vocabularies, batch
// receipts, and the transactional seam the rename propagator needs.
// internal/store/memstore and internal/store/pgstore provide concrete
// implementations of Store.
package store

import "context"

// KeySize is the store-assigned opaque primary key type (spec §3).
type KeySize = int64

// Template is a named pool of substitutes. Name is unique, lower-case,
// matches ^[a-z0-9_]+$, starts with a non-numeric character, and is at
// most 255 bytes long (spec §3) — store implementations validate this on
// create/rename.
type Template struct {
	ID   KeySize
	Name string
}

// Substitute is one replacement body belonging to exactly one template.
// (Name, TemplateID) is unique.
type Substitute struct {
	ID         KeySize
	Name       string
	TemplateID KeySize
}

// SortOrder is ascending or descending.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// OrderBy is the sort vocabulary read operations accept (spec §4.10).
type OrderBy struct {
	kind  OrderKind
	order SortOrder
}

// OrderKind names which field (or randomness) an OrderBy sorts by.
type OrderKind int

const (
	OrderKindDefault OrderKind = iota
	OrderKindID
	OrderKindName
	OrderKindNameIgnoreCase
	OrderKindRandom
)

func OrderByID(s SortOrder) OrderBy             { return OrderBy{kind: OrderKindID, order: s} }
func OrderByName(s SortOrder) OrderBy           { return OrderBy{kind: OrderKindName, order: s} }
func OrderByNameIgnoreCase(s SortOrder) OrderBy {
	return OrderBy{kind: OrderKindNameIgnoreCase, order: s}
}
func OrderByRandom() OrderBy  { return OrderBy{kind: OrderKindRandom} }
func OrderByDefault() OrderBy { return OrderBy{kind: OrderKindDefault} }

// Kind reports which field (or randomness) o sorts by.
func (o OrderBy) Kind() OrderKind { return o.kind }

// Order reports the sort direction (meaningless for OrderKindRandom/Default).
func (o OrderBy) Order() SortOrder { return o.order }

// Limit is Count(n) or None (unlimited).
type Limit struct {
	count     int
	unlimited bool
}

func LimitCount(n int) Limit { return Limit{count: n} }
func LimitNone() Limit       { return Limit{unlimited: true} }

// Unlimited reports whether l admits every row.
func (l Limit) Unlimited() bool { return l.unlimited }

// Count reports l's row cap; meaningless if Unlimited is true.
func (l Limit) Count() int { return l.count }

// TemplateReceipt reports the outcome of a batch template delete.
type TemplateReceipt struct {
	Updated []Template
	Ignored []string
}

// SubstituteReceipt reports the outcome of a batch substitute create or
// delete.
type SubstituteReceipt struct {
	Updated []Substitute
	Ignored []string
}

// Store is the contract the generation orchestrator, the cache, and the
// rename propagator are written against (spec §4.10). Every operation is
// safe to call concurrently; UpdateTemplateByID/Name must perform the
// rename and the rename-propagation substitute rewrites atomically.
type Store interface {
	CreateTemplate(ctx context.Context, name string) (*Template, error)
	ReadTemplateByID(ctx context.Context, id KeySize) (*Template, error)
	ReadTemplateByName(ctx context.Context, name string) (*Template, error)
	ReadTemplates(ctx context.Context, searchSubstring string, order OrderBy, limit Limit) ([]Template, error)
	UpdateTemplateByID(ctx context.Context, id KeySize, newName string) (*Template, error)
	UpdateTemplateByName(ctx context.Context, oldName, newName string) (*Template, error)
	DeleteTemplateByID(ctx context.Context, id KeySize) (*Template, error)
	DeleteTemplateByName(ctx context.Context, name string) (*Template, error)
	DeleteTemplatesByName(ctx context.Context, names []string) (TemplateReceipt, error)

	CreateSubstitute(ctx context.Context, template string, body string) (SubstituteReceipt, error)
	CreateSubstitutes(ctx context.Context, template string, bodies []string) (SubstituteReceipt, error)
	ReadSubstituteByID(ctx context.Context, id KeySize) (*Substitute, error)
	ReadSubstituteFromTemplateByName(ctx context.Context, template, name string) (*Substitute, error)
	ReadSubstitutesFromTemplate(ctx context.Context, template string, searchSubstring string, order OrderBy, limit Limit) ([]Substitute, error)
	UpdateSubstituteByID(ctx context.Context, id KeySize, newBody string) (*Substitute, error)
	UpdateSubstituteByName(ctx context.Context, template, name, newBody string) (*Substitute, error)
	DeleteSubstituteByID(ctx context.Context, id KeySize) (*Substitute, error)
	DeleteSubstitutesByID(ctx context.Context, ids []KeySize) (SubstituteReceipt, error)
	DeleteSubstituteByName(ctx context.Context, template, name string) (*Substitute, error)
	DeleteSubstitutesByName(ctx context.Context, template string, names []string) (SubstituteReceipt, error)
	CopySubstitutesFromTemplateToTemplate(ctx context.Context, src, dst string) (SubstituteReceipt, error)

	// ReadRandomSubstitutes returns up to limit rows for template in
	// random order, for the cache's get_random miss path (spec §4.6).
	ReadRandomSubstitutes(ctx context.Context, template string, limit int) ([]Substitute, error)
}

// Invalidator is implemented by a cache sitting in front of a Store; every
// mutator that can affect a template's cached substitute list notifies it
// (spec §4.6's required invalidation).
type Invalidator interface {
	Invalidate(template string)
}
