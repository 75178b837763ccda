// Package memstore is an in-process implementation of store.Store backed
// by plain maps under a mutex. It mirrors pgstore's transactional rename
// behavior without a real database, for tests and for running the engine
// without Postgres configured.
package memstore

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/store"
	"fungen.dev/internal/substitutor"
)

var _ store.Store = (*MemStore)(nil)

// MemStore implements store.Store in memory.
type MemStore struct {
	mu          sync.Mutex
	nextID      store.KeySize
	templates   map[store.KeySize]*store.Template
	substitutes map[store.KeySize]*store.Substitute
}

// New creates an empty MemStore.
func New() *MemStore {
	return &MemStore{
		templates:   make(map[store.KeySize]*store.Template),
		substitutes: make(map[store.KeySize]*store.Substitute),
	}
}

func (m *MemStore) allocID() store.KeySize {
	m.nextID++
	return m.nextID
}

func (m *MemStore) findTemplateByNameLocked(name string) *store.Template {
	for _, t := range m.templates {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (m *MemStore) findSubstituteLocked(templateID store.KeySize, name string) *store.Substitute {
	for _, s := range m.substitutes {
		if s.TemplateID == templateID && s.Name == name {
			return s
		}
	}
	return nil
}

func cloneTemplate(t *store.Template) *store.Template {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneSubstitute(s *store.Substitute) *store.Substitute {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// CreateTemplate inserts name, or returns nil if a template with that name
// already exists (insert-or-nothing, spec §4.10).
func (m *MemStore) CreateTemplate(ctx context.Context, name string) (*store.Template, error) {
	if err := store.ValidateTemplateName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing := m.findTemplateByNameLocked(name); existing != nil {
		return nil, nil
	}
	t := &store.Template{ID: m.allocID(), Name: name}
	m.templates[t.ID] = t
	return cloneTemplate(t), nil
}

func (m *MemStore) ReadTemplateByID(ctx context.Context, id store.KeySize) (*store.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTemplate(m.templates[id]), nil
}

func (m *MemStore) ReadTemplateByName(ctx context.Context, name string) (*store.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTemplate(m.findTemplateByNameLocked(name)), nil
}

func (m *MemStore) ReadTemplates(ctx context.Context, searchSubstring string, order store.OrderBy, limit store.Limit) ([]store.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Template
	for _, t := range m.templates {
		if searchSubstring != "" && !strings.Contains(t.Name, searchSubstring) {
			continue
		}
		out = append(out, *t)
	}
	sortTemplates(out, order)
	return applyTemplateLimit(out, limit), nil
}

// renamePropagateLocked rewrites every substitute whose Name contains a
// delimited reference to oldName, across all four delimiters (spec §4.7,
// §6): a substitute body can legitimately carry a register reference like
// $noun-1, and that reference must track a rename of noun just like a
// ^noun^ or 'noun' reference would.
func (m *MemStore) renamePropagateLocked(oldName, newName string) {
	delims := []substitutor.Delimiter{substitutor.Caret, substitutor.SingleQuote, substitutor.BackTick, substitutor.PlusRegister}
	for _, d := range delims {
		sub := substitutor.New(d)
		for _, s := range m.substitutes {
			if !strings.Contains(s.Name, d.String()+oldName) {
				continue
			}
			rewritten := sub.Rename(s.Name, oldName, newName)
			if rewritten != s.Name {
				s.Name = rewritten
			}
		}
	}
}

func (m *MemStore) UpdateTemplateByID(ctx context.Context, id store.KeySize, newName string) (*store.Template, error) {
	if err := store.ValidateTemplateName(newName); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.templates[id]
	if t == nil {
		return nil, nil
	}
	oldName := t.Name
	t.Name = newName
	m.renamePropagateLocked(oldName, newName)
	return cloneTemplate(t), nil
}

func (m *MemStore) UpdateTemplateByName(ctx context.Context, oldName, newName string) (*store.Template, error) {
	if err := store.ValidateTemplateName(newName); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.findTemplateByNameLocked(oldName)
	if t == nil {
		return nil, nil
	}
	t.Name = newName
	m.renamePropagateLocked(oldName, newName)
	return cloneTemplate(t), nil
}

func (m *MemStore) DeleteTemplateByID(ctx context.Context, id store.KeySize) (*store.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.templates[id]
	if t == nil {
		return nil, nil
	}
	delete(m.templates, id)
	for sid, s := range m.substitutes {
		if s.TemplateID == id {
			delete(m.substitutes, sid)
		}
	}
	return cloneTemplate(t), nil
}

func (m *MemStore) DeleteTemplateByName(ctx context.Context, name string) (*store.Template, error) {
	m.mu.Lock()
	t := m.findTemplateByNameLocked(name)
	m.mu.Unlock()
	if t == nil {
		return nil, nil
	}
	return m.DeleteTemplateByID(ctx, t.ID)
}

func (m *MemStore) DeleteTemplatesByName(ctx context.Context, names []string) (store.TemplateReceipt, error) {
	var receipt store.TemplateReceipt
	for _, name := range names {
		t, _ := m.DeleteTemplateByName(ctx, name)
		if t != nil {
			receipt.Updated = append(receipt.Updated, *t)
		} else {
			receipt.Ignored = append(receipt.Ignored, name)
		}
	}
	return receipt, nil
}

func (m *MemStore) readOrCreateTemplateLocked(name string) (*store.Template, error) {
	if err := store.ValidateTemplateName(name); err != nil {
		return nil, err
	}
	if t := m.findTemplateByNameLocked(name); t != nil {
		return t, nil
	}
	t := &store.Template{ID: m.allocID(), Name: name}
	m.templates[t.ID] = t
	return t, nil
}

func (m *MemStore) CreateSubstitute(ctx context.Context, template string, body string) (store.SubstituteReceipt, error) {
	return m.CreateSubstitutes(ctx, template, []string{body})
}

func (m *MemStore) CreateSubstitutes(ctx context.Context, template string, bodies []string) (store.SubstituteReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.readOrCreateTemplateLocked(template)
	if err != nil {
		return store.SubstituteReceipt{}, err
	}
	var receipt store.SubstituteReceipt
	for _, body := range bodies {
		if m.findSubstituteLocked(t.ID, body) != nil {
			receipt.Ignored = append(receipt.Ignored, body)
			continue
		}
		s := &store.Substitute{ID: m.allocID(), Name: body, TemplateID: t.ID}
		m.substitutes[s.ID] = s
		receipt.Updated = append(receipt.Updated, *s)
	}
	return receipt, nil
}

func (m *MemStore) ReadSubstituteByID(ctx context.Context, id store.KeySize) (*store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSubstitute(m.substitutes[id]), nil
}

func (m *MemStore) ReadSubstituteFromTemplateByName(ctx context.Context, template, name string) (*store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.findTemplateByNameLocked(template)
	if t == nil {
		return nil, nil
	}
	return cloneSubstitute(m.findSubstituteLocked(t.ID, name)), nil
}

func (m *MemStore) ReadSubstitutesFromTemplate(ctx context.Context, template string, searchSubstring string, order store.OrderBy, limit store.Limit) ([]store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.findTemplateByNameLocked(template)
	if t == nil {
		return nil, nil
	}
	var out []store.Substitute
	for _, s := range m.substitutes {
		if s.TemplateID != t.ID {
			continue
		}
		if searchSubstring != "" && !strings.Contains(s.Name, searchSubstring) {
			continue
		}
		out = append(out, *s)
	}
	sortSubstitutes(out, order)
	return applySubstituteLimit(out, limit), nil
}

func (m *MemStore) UpdateSubstituteByID(ctx context.Context, id store.KeySize, newBody string) (*store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.substitutes[id]
	if s == nil {
		return nil, nil
	}
	s.Name = newBody
	return cloneSubstitute(s), nil
}

func (m *MemStore) UpdateSubstituteByName(ctx context.Context, template, name, newBody string) (*store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.findTemplateByNameLocked(template)
	if t == nil {
		return nil, nil
	}
	s := m.findSubstituteLocked(t.ID, name)
	if s == nil {
		return nil, nil
	}
	s.Name = newBody
	return cloneSubstitute(s), nil
}

func (m *MemStore) DeleteSubstituteByID(ctx context.Context, id store.KeySize) (*store.Substitute, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.substitutes[id]
	if s == nil {
		return nil, nil
	}
	delete(m.substitutes, id)
	return cloneSubstitute(s), nil
}

func (m *MemStore) DeleteSubstitutesByID(ctx context.Context, ids []store.KeySize) (store.SubstituteReceipt, error) {
	var receipt store.SubstituteReceipt
	for _, id := range ids {
		s, _ := m.DeleteSubstituteByID(ctx, id)
		if s != nil {
			receipt.Updated = append(receipt.Updated, *s)
		} else {
			receipt.Ignored = append(receipt.Ignored, "")
		}
	}
	return receipt, nil
}

func (m *MemStore) DeleteSubstituteByName(ctx context.Context, template, name string) (*store.Substitute, error) {
	m.mu.Lock()
	t := m.findTemplateByNameLocked(template)
	m.mu.Unlock()
	if t == nil {
		return nil, nil
	}
	m.mu.Lock()
	s := m.findSubstituteLocked(t.ID, name)
	m.mu.Unlock()
	if s == nil {
		return nil, nil
	}
	return m.DeleteSubstituteByID(ctx, s.ID)
}

func (m *MemStore) DeleteSubstitutesByName(ctx context.Context, template string, names []string) (store.SubstituteReceipt, error) {
	var receipt store.SubstituteReceipt
	for _, name := range names {
		s, _ := m.DeleteSubstituteByName(ctx, template, name)
		if s != nil {
			receipt.Updated = append(receipt.Updated, *s)
		} else {
			receipt.Ignored = append(receipt.Ignored, name)
		}
	}
	return receipt, nil
}

func (m *MemStore) CopySubstitutesFromTemplateToTemplate(ctx context.Context, src, dst string) (store.SubstituteReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	srcT := m.findTemplateByNameLocked(src)
	if srcT == nil {
		return store.SubstituteReceipt{}, fungerr.UserInput("source template %q does not exist", src)
	}
	dstT, err := m.readOrCreateTemplateLocked(dst)
	if err != nil {
		return store.SubstituteReceipt{}, err
	}
	var receipt store.SubstituteReceipt
	for _, s := range m.substitutes {
		if s.TemplateID != srcT.ID {
			continue
		}
		if m.findSubstituteLocked(dstT.ID, s.Name) != nil {
			receipt.Ignored = append(receipt.Ignored, s.Name)
			continue
		}
		cp := &store.Substitute{ID: m.allocID(), Name: s.Name, TemplateID: dstT.ID}
		m.substitutes[cp.ID] = cp
		receipt.Updated = append(receipt.Updated, *cp)
	}
	return receipt, nil
}

func (m *MemStore) ReadRandomSubstitutes(ctx context.Context, template string, limit int) ([]store.Substitute, error) {
	m.mu.Lock()
	t := m.findTemplateByNameLocked(template)
	if t == nil {
		m.mu.Unlock()
		return nil, nil
	}
	var all []store.Substitute
	for _, s := range m.substitutes {
		if s.TemplateID == t.ID {
			all = append(all, *s)
		}
	}
	m.mu.Unlock()

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func sortTemplates(ts []store.Template, order store.OrderBy) {
	less := orderLessTemplate(order)
	if less == nil {
		return
	}
	sort.SliceStable(ts, func(i, j int) bool { return less(ts[i], ts[j]) })
}

func orderLessTemplate(order store.OrderBy) func(a, b store.Template) bool {
	switch order.Kind() {
	case store.OrderKindID:
		if order.Order() == store.Descending {
			return func(a, b store.Template) bool { return a.ID > b.ID }
		}
		return func(a, b store.Template) bool { return a.ID < b.ID }
	case store.OrderKindName:
		if order.Order() == store.Descending {
			return func(a, b store.Template) bool { return a.Name > b.Name }
		}
		return func(a, b store.Template) bool { return a.Name < b.Name }
	case store.OrderKindNameIgnoreCase:
		if order.Order() == store.Descending {
			return func(a, b store.Template) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
		}
		return func(a, b store.Template) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case store.OrderKindRandom:
		return nil
	default:
		return func(a, b store.Template) bool { return a.ID < b.ID }
	}
}

func applyTemplateLimit(ts []store.Template, limit store.Limit) []store.Template {
	if limit.Unlimited() {
		return ts
	}
	n := limit.Count()
	if n < len(ts) {
		return ts[:n]
	}
	return ts
}

func sortSubstitutes(ss []store.Substitute, order store.OrderBy) {
	switch order.Kind() {
	case store.OrderKindID:
		sort.SliceStable(ss, func(i, j int) bool {
			if order.Order() == store.Descending {
				return ss[i].ID > ss[j].ID
			}
			return ss[i].ID < ss[j].ID
		})
	case store.OrderKindName:
		sort.SliceStable(ss, func(i, j int) bool {
			if order.Order() == store.Descending {
				return ss[i].Name > ss[j].Name
			}
			return ss[i].Name < ss[j].Name
		})
	case store.OrderKindNameIgnoreCase:
		sort.SliceStable(ss, func(i, j int) bool {
			if order.Order() == store.Descending {
				return strings.ToLower(ss[i].Name) > strings.ToLower(ss[j].Name)
			}
			return strings.ToLower(ss[i].Name) < strings.ToLower(ss[j].Name)
		})
	case store.OrderKindRandom:
		rand.Shuffle(len(ss), func(i, j int) { ss[i], ss[j] = ss[j], ss[i] })
	default:
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
	}
}

func applySubstituteLimit(ss []store.Substitute, limit store.Limit) []store.Substitute {
	if limit.Unlimited() {
		return ss
	}
	n := limit.Count()
	if n < len(ss) {
		return ss[:n]
	}
	return ss
}
