package progress

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_ReportIsMonotonicAndClamped(t *testing.T) {
	m := NewManager()
	op := m.CreateOperation()

	op.Report(0.4)
	op.Report(0.2)
	assert.InDelta(t, 0.4, op.Progress(), 1e-9, "progress must not go backwards")

	op.Report(3)
	assert.Equal(t, 1.0, op.Progress())

	other := m.CreateOperation()
	other.Report(-1)
	other.Report(math.NaN())
	assert.Equal(t, 0.0, other.Progress())
}

func TestManager_AggregatesLiveOperations(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0.0, m.Progress())
	assert.False(t, m.IsActive())

	a := m.CreateOperation()
	b := m.CreateOperation()
	a.Report(1)
	b.Report(0.5)

	assert.InDelta(t, 0.75, m.Progress(), 1e-9)
	assert.Equal(t, 2, m.Operations())

	a.Dispose()
	assert.InDelta(t, 0.5, m.Progress(), 1e-9)
	assert.Equal(t, 1, m.Operations())
}

func TestOperation_DisposeIsIdempotent(t *testing.T) {
	m := NewManager()
	op := m.CreateOperation()
	op.Report(0.3)

	op.Dispose()
	op.Dispose()
	assert.Equal(t, 0, m.Operations())

	op.Report(0.9)
	assert.InDelta(t, 0.3, op.Progress(), 1e-9, "disposed handle must ignore reports")

	// a disposed handle never affects operations created afterwards
	next := m.CreateOperation()
	next.Report(0.1)
	assert.InDelta(t, 0.1, m.Progress(), 1e-9)
}

func TestManager_UpdateCallback(t *testing.T) {
	m := NewManager()

	var mu sync.Mutex
	var values []float64
	m.SetUpdateCallback(func(v float64) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	})

	op := m.CreateOperation()
	op.Report(0.5)
	op.Report(0.5)
	op.Dispose()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, values, 3, "create, one effective report, dispose")
	assert.Equal(t, []float64{0, 0.5, 0}, values)
}
