// Package render turns a camera state into a pixel buffer.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/fractal"
)

// Options are the per-frame rendering parameters.
type Options struct {
	Width         int
	Height        int
	MaxIterations int
	TimeOffset    float64
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", fractal.ErrInvalidArgument, o.Width, o.Height)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", fractal.ErrInvalidArgument, o.MaxIterations)
	}
	return nil
}

// Renderer rasterizes a view of type V.
type Renderer[V any] interface {
	Render(ctx context.Context, view V, opts Options) (*fractal.PixelBuffer, error)
}

// rasterize fills a new buffer by evaluating pixel for every coordinate.
// pixel must be a pure function of its inputs.
func rasterize(ctx context.Context, backend compute.Backend, opts Options, pixel func(x, y int) fractal.ColorRGB) (*fractal.PixelBuffer, error) {
	buf, err := fractal.NewPixelBuffer(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	if backend == nil {
		backend = compute.GetBackend()
	}

	start := time.Now()
	err = backend.ParallelRows(ctx, opts.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := buf.Row(y)
			for x := range row {
				row[x] = pixel(x, y)
			}
		}
	})
	if err != nil {
		return nil, err
	}

	fractal.Logger().Debug("frame rasterized",
		"width", opts.Width, "height", opts.Height,
		"max_iterations", opts.MaxIterations,
		"backend", backend.Name(), "elapsed", time.Since(start))
	return buf, nil
}
