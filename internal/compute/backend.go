package compute

import (
	"context"
	"sync"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Backend runs fn over [0, n) split into contiguous chunks. fn must only
// touch state owned by its own range.
type Backend interface {
	Name() string
	Workers() int
	ParallelRows(ctx context.Context, n int, fn func(start, end int)) error
	Cleanup()
}

var (
	mu            sync.RWMutex
	activeBackend Backend
)

func init() {
	activeBackend = AutoSelectBackend()
}

// SetBackend replaces the process-wide backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
	fractal.Logger().Debug("compute backend selected", "name", b.Name(), "workers", b.Workers())
}

// GetBackend returns the process-wide backend.
func GetBackend() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return activeBackend
}

// AutoSelectBackend picks the CPU pool, or the serial backend on a single core.
func AutoSelectBackend() Backend {
	cpu := NewCPUBackend(0)
	if cpu.Workers() <= 1 {
		return NewSerialBackend()
	}
	return cpu
}

// ByName returns a backend for "cpu", "serial" or "auto".
func ByName(name string, workers int) (Backend, error) {
	switch name {
	case "", "auto":
		if workers > 0 {
			return NewCPUBackend(workers), nil
		}
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(workers), nil
	case "serial":
		return NewSerialBackend(), nil
	}
	return nil, errUnknownBackend(name)
}
