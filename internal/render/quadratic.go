package render

import (
	"context"

	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/fractal"
)

// Quadratic renders the 2D Mandelbrot-family view.
type Quadratic struct {
	Kernel  fractal.Kernel2D
	Mapper  fractal.ColorMapper
	Backend compute.Backend
}

func NewQuadratic(kernel fractal.Kernel2D, mapper fractal.ColorMapper) *Quadratic {
	return &Quadratic{Kernel: kernel, Mapper: mapper}
}

func (q *Quadratic) Render(ctx context.Context, view fractal.ViewState2D, opts Options) (*fractal.PixelBuffer, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return rasterize(ctx, q.Backend, opts, func(x, y int) fractal.ColorRGB {
		cx, cy := view.ScreenToWorld(float64(x), float64(y), opts.Width, opts.Height)
		r := q.Kernel.Evaluate(cx, cy, opts.MaxIterations)
		return q.Mapper.Map(r, opts.MaxIterations, opts.TimeOffset)
	})
}

var _ Renderer[fractal.ViewState2D] = (*Quadratic)(nil)
