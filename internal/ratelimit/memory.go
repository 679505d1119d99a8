package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int
	expiresAt time.Time
}

// Memory is a process-local Limiter.  It is used when redis is not
// configured and in tests; limits are per process, not per deployment.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemory returns an empty in-memory limiter.
func NewMemory() *Memory {
	return &Memory{windows: make(map[string]*window), now: time.Now}
}

// Consume implements Limiter.
func (m *Memory) Consume(_ context.Context, key string, rule Rule) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !w.expiresAt.After(now) {
		m.sweep(now)
		w = &window{count: 1, expiresAt: now.Add(rule.Window)}
		m.windows[key] = w
		return Result{Success: true, Remaining: rule.Limit - 1, ResetAt: w.expiresAt}, nil
	}
	if w.count >= rule.Limit {
		return Result{Success: false, Remaining: 0, ResetAt: w.expiresAt}, nil
	}
	w.count++
	return Result{Success: true, Remaining: max(0, rule.Limit-w.count), ResetAt: w.expiresAt}, nil
}

// sweep drops expired windows.  Called when a window is opened, so the map
// stays bounded by the number of keys active within one window.
func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if !w.expiresAt.After(now) {
			delete(m.windows, k)
		}
	}
}
