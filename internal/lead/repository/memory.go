package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/lead"
)

// Record is implemented by *lead.Lead and *lead.ContactLead.
type Record interface {
	GetID() string
	SetID(string)
	GetStatus() string
	SetStatus(string)
	Created() time.Time
	Stamp(time.Time)
	Touch(time.Time)
}

// recordPtr ties a record value type to its pointer methods.
type recordPtr[T any] interface {
	*T
	Record
}

// Repository stores one kind of lead.
type Repository[T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, status string) ([]*T, error)
	SetStatus(ctx context.Context, id, status string) (*T, error)
	Delete(ctx context.Context, id string) error
}

type memEntry[T any] struct {
	rec T
	seq int
}

// MemoryRepo is an in-memory repository used when MongoDB is not configured
// and in unit tests.
type MemoryRepo[T any, P recordPtr[T]] struct {
	mu    sync.RWMutex
	store map[string]*memEntry[T]
	seq   int
}

func NewMemoryRepo[T any, P recordPtr[T]]() *MemoryRepo[T, P] {
	return &MemoryRepo[T, P]{store: make(map[string]*memEntry[T])}
}

func (m *MemoryRepo[T, P]) Create(_ context.Context, rec *T) error {
	p := P(rec)
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.GetID() == "" {
		p.SetID(uuid.NewString())
	}
	if p.GetStatus() == "" {
		p.SetStatus(lead.StatusNew)
	}
	p.Stamp(time.Now().UTC())
	m.seq++
	m.store[p.GetID()] = &memEntry[T]{rec: *rec, seq: m.seq}
	return nil
}

func (m *MemoryRepo[T, P]) Get(_ context.Context, id string) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[id]
	if !ok {
		return nil, lead.ErrNotFound
	}
	cp := e.rec
	return &cp, nil
}

func (m *MemoryRepo[T, P]) List(_ context.Context, status string) ([]*T, error) {
	m.mu.RLock()
	matched := make([]*memEntry[T], 0, len(m.store))
	for _, e := range m.store {
		if status == "" || P(&e.rec).GetStatus() == status {
			matched = append(matched, e)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ci, cj := P(&matched[i].rec).Created(), P(&matched[j].rec).Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return matched[i].seq > matched[j].seq
	})
	out := make([]*T, 0, len(matched))
	for _, e := range matched {
		cp := e.rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo[T, P]) SetStatus(_ context.Context, id, status string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return nil, lead.ErrNotFound
	}
	p := P(&e.rec)
	p.SetStatus(status)
	p.Touch(time.Now().UTC())
	cp := e.rec
	return &cp, nil
}

func (m *MemoryRepo[T, P]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return lead.ErrNotFound
	}
	delete(m.store, id)
	return nil
}
