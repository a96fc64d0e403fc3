package compute

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// minChunk keeps tiny frames on a single goroutine.
const minChunk = 4

type CPUBackend struct {
	workers int
}

// NewCPUBackend returns a pool of the given size; workers <= 0 uses NumCPU.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }
func (c *CPUBackend) Cleanup()     {}

// ParallelRows splits [0, n) into more chunks than workers so rows that
// iterate to the cap do not leave the rest of the pool idle.
func (c *CPUBackend) ParallelRows(ctx context.Context, n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if n <= minChunk || c.workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	chunks := c.workers * 4
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	chunkSize := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}

	return g.Wait()
}

// SerialBackend runs everything on the calling goroutine.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string { return "serial" }
func (s *SerialBackend) Workers() int { return 1 }
func (s *SerialBackend) Cleanup()     {}

func (s *SerialBackend) ParallelRows(ctx context.Context, n int, fn func(start, end int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n > 0 {
		fn(0, n)
	}
	return nil
}

func errUnknownBackend(name string) error {
	return fmt.Errorf("%w: unknown backend %q", fractal.ErrInvalidArgument, name)
}
