// Package progress aggregates fractional progress of concurrent operations.
// Each download run acquires its own Operation from a Manager, reports into it
// and disposes it when the run ends.
package progress

import (
	"sync"
)

// Operation is a per-run progress handle
type Operation interface {
	// Report records completion in [0, 1]. Values are clamped and never
	// decrease. Reports after Dispose are ignored.
	Report(fraction float64)
	// Progress returns the last recorded value
	Progress() float64
	// Dispose releases the handle. Calling it more than once is a no-op.
	Dispose()
}

// Manager hands out operations and exposes their average progress
type Manager struct {
	mu       sync.Mutex
	ops      map[*operation]struct{}
	onUpdate func(float64)
}

// NewManager creates an empty progress manager
func NewManager() *Manager {
	return &Manager{ops: make(map[*operation]struct{})}
}

// SetUpdateCallback sets a callback invoked with the aggregated progress
// whenever an operation reports, is created or is disposed
func (m *Manager) SetUpdateCallback(callback func(float64)) {
	m.mu.Lock()
	m.onUpdate = callback
	m.mu.Unlock()
}

// CreateOperation registers a fresh operation at 0 progress
func (m *Manager) CreateOperation() Operation {
	op := &operation{manager: m}
	m.mu.Lock()
	m.ops[op] = struct{}{}
	m.mu.Unlock()
	m.notify()
	return op
}

// Progress returns the mean progress of all live operations, 0 if none
func (m *Manager) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progressLocked()
}

// Operations returns the number of live operations
func (m *Manager) Operations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ops)
}

// IsActive reports whether any operation is live
func (m *Manager) IsActive() bool {
	return m.Operations() > 0
}

func (m *Manager) progressLocked() float64 {
	if len(m.ops) == 0 {
		return 0
	}
	var sum float64
	for op := range m.ops {
		sum += op.Progress()
	}
	return sum / float64(len(m.ops))
}

func (m *Manager) remove(op *operation) {
	m.mu.Lock()
	delete(m.ops, op)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	m.mu.Lock()
	callback := m.onUpdate
	value := m.progressLocked()
	m.mu.Unlock()

	if callback != nil {
		callback(value)
	}
}

type operation struct {
	manager *Manager

	mu       sync.Mutex
	value    float64
	disposed bool
}

func (o *operation) Report(fraction float64) {
	fraction = clamp(fraction)

	o.mu.Lock()
	if o.disposed || fraction <= o.value {
		o.mu.Unlock()
		return
	}
	o.value = fraction
	o.mu.Unlock()

	o.manager.notify()
}

func (o *operation) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *operation) Dispose() {
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	o.disposed = true
	o.mu.Unlock()

	o.manager.remove(o)
}

func clamp(v float64) float64 {
	// NaN compares false everywhere; treat it as no progress
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
