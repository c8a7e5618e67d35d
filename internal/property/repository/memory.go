package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/property"
)

// Repository is the listing store used by the service layer.
type Repository interface {
	Create(ctx context.Context, p *property.Property) (string, error)
	Get(ctx context.Context, id string) (*property.Property, error)
	List(ctx context.Context, f property.Filter) ([]*property.Property, error)
	Update(ctx context.Context, p *property.Property) error
	SoftDelete(ctx context.Context, id string) error
}

type memEntry struct {
	p   property.Property
	seq int
}

// MemoryRepo is an in-memory repository used when MongoDB is not configured
// and in unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*memEntry
	seq   int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*memEntry)}
}

func (m *MemoryRepo) Create(_ context.Context, p *property.Property) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.seq++
	m.store[p.ID] = &memEntry{p: *p, seq: m.seq}
	return p.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*property.Property, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[id]
	if !ok || e.p.IsDeleted {
		return nil, property.ErrNotFound
	}
	cp := e.p
	return &cp, nil
}

func (m *MemoryRepo) List(_ context.Context, f property.Filter) ([]*property.Property, error) {
	m.mu.RLock()
	matched := make([]*memEntry, 0, len(m.store))
	for _, e := range m.store {
		if f.Matches(&e.p) {
			matched = append(matched, e)
		}
	}
	m.mu.RUnlock()

	// newest first
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].p.CreatedAt.Equal(matched[j].p.CreatedAt) {
			return matched[i].p.CreatedAt.After(matched[j].p.CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[f.Offset:]
		}
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	out := make([]*property.Property, 0, len(matched))
	for _, e := range matched {
		cp := e.p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[p.ID]
	if !ok || e.p.IsDeleted {
		return property.ErrNotFound
	}
	p.CreatedAt = e.p.CreatedAt
	p.IsDeleted = false
	p.DeletedAt = nil
	p.UpdatedAt = time.Now().UTC()
	e.p = *p
	return nil
}

func (m *MemoryRepo) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.p.IsDeleted {
		return property.ErrNotFound
	}
	now := time.Now().UTC()
	e.p.IsDeleted = true
	e.p.DeletedAt = &now
	e.p.UpdatedAt = now
	return nil
}
