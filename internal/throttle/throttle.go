// Package throttle counts failed login attempts in fixed windows.
//
// A key (normally "ip:<client ip>") is blocked once it has accumulated
// MaxFailures failures inside the current window. The window starts at the
// first failure and is not extended by later ones. A successful login resets
// the key.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Throttle is the policy the login handler consults.
type Throttle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Disabled never blocks.
type Disabled struct{}

func (Disabled) Blocked(context.Context, string) (bool, error) { return false, nil }
func (Disabled) Fail(context.Context, string) error            { return nil }
func (Disabled) Reset(context.Context, string) error           { return nil }

type window struct {
	count   int
	expires time.Time
}

// Memory is an in-process fixed-window throttle for single-instance deployments.
type Memory struct {
	mu          sync.Mutex
	maxFailures int
	period      time.Duration
	now         func() time.Time
	entries     map[string]*window
}

// NewMemory returns a Memory throttle; now may be nil.
func NewMemory(maxFailures int, period time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{maxFailures: maxFailures, period: period, now: now, entries: map[string]*window{}}
}

func (m *Memory) current(key string) *window {
	w, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !m.now().Before(w.expires) {
		delete(m.entries, key)
		return nil
	}
	return w
}

func (m *Memory) Blocked(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.current(key)
	return w != nil && w.count >= m.maxFailures, nil
}

func (m *Memory) Fail(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.current(key)
	if w == nil {
		w = &window{expires: m.now().Add(m.period)}
		m.entries[key] = w
	}
	w.count++
	return nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
