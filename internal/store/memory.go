package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/planforge/planforge/internal/draft"
	"github.com/planforge/planforge/internal/plan"
)

// Memory is an in-memory store implementing PlanService, CatalogService,
// and draft.Store. It backs unit tests that do not need the embedded NATS
// server.
type Memory struct {
	plans      map[int]plan.Payload
	addons     []plan.Addon
	slas       []plan.SupportSLA
	kv         map[string]string
	nextPlanID int
	nextAddon  int
	nextSLA    int

	// FailFetch forces Fetch to fail, for exercising retry paths.
	FailFetch error
	// FailCreateAddon forces CreateAddon to fail.
	FailCreateAddon error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		plans: make(map[int]plan.Payload),
		kv:    make(map[string]string),
	}
}

// Fetch implements PlanService.
func (m *Memory) Fetch(_ context.Context, id int) (plan.Payload, error) {
	if m.FailFetch != nil {
		return plan.Payload{}, m.FailFetch
	}
	p, ok := m.plans[id]
	if !ok {
		return plan.Payload{}, fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	if p.ID == 0 || p.Name == "" {
		return plan.Payload{}, fmt.Errorf("plan %d: incomplete record payload", id)
	}
	return p, nil
}

// Create implements PlanService.
func (m *Memory) Create(_ context.Context, p plan.Payload) (int, error) {
	m.nextPlanID++
	p.ID = m.nextPlanID
	m.plans[p.ID] = p
	return p.ID, nil
}

// Update implements PlanService.
func (m *Memory) Update(_ context.Context, id int, p plan.Payload) error {
	if _, ok := m.plans[id]; !ok {
		return fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	p.ID = id
	m.plans[id] = p
	return nil
}

// List implements PlanService.
func (m *Memory) List(_ context.Context) ([]plan.Payload, error) {
	out := make([]plan.Payload, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutPlan stores a payload verbatim, preserving its ID. Test seeding only.
func (m *Memory) PutPlan(p plan.Payload) {
	m.plans[p.ID] = p
	if p.ID > m.nextPlanID {
		m.nextPlanID = p.ID
	}
}

// ListAddons implements CatalogService.
func (m *Memory) ListAddons(_ context.Context) ([]plan.Addon, error) {
	return append([]plan.Addon(nil), m.addons...), nil
}

// CreateAddon implements CatalogService.
func (m *Memory) CreateAddon(_ context.Context, a plan.Addon) (plan.Addon, error) {
	if m.FailCreateAddon != nil {
		return plan.Addon{}, m.FailCreateAddon
	}
	m.nextAddon++
	a.ID = m.nextAddon
	m.addons = append(m.addons, a)
	return a, nil
}

// ListSLAs implements CatalogService.
func (m *Memory) ListSLAs(_ context.Context) ([]plan.SupportSLA, error) {
	return append([]plan.SupportSLA(nil), m.slas...), nil
}

// CreateSLA implements CatalogService.
func (m *Memory) CreateSLA(_ context.Context, s plan.SupportSLA) (plan.SupportSLA, error) {
	m.nextSLA++
	s.ID = m.nextSLA
	m.slas = append(m.slas, s)
	return s, nil
}

// Get implements draft.Store.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.kv[key]
	if !ok {
		return "", draft.ErrNotFound
	}
	return v, nil
}

// Put implements draft.Store.
func (m *Memory) Put(_ context.Context, key, value string) error {
	m.kv[key] = value
	return nil
}

// Delete implements draft.Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	delete(m.kv, key)
	return nil
}

// DraftValue returns the raw stored value for a draft key. Test helper.
func (m *Memory) DraftValue(key string) (string, bool) {
	v, ok := m.kv[key]
	return v, ok
}
