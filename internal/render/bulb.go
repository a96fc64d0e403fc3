package render

import (
	"context"

	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/fractal"
)

// Bulb renders the z = OffsetZ slice of the bulb.
type Bulb struct {
	Kernel  fractal.Kernel3D
	Mapper  fractal.ColorMapper
	Backend compute.Backend
}

func NewBulb(kernel fractal.Kernel3D, mapper fractal.ColorMapper) *Bulb {
	return &Bulb{Kernel: kernel, Mapper: mapper}
}

func (b *Bulb) Render(ctx context.Context, view fractal.ViewState3D, opts Options) (*fractal.PixelBuffer, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return rasterize(ctx, b.Backend, opts, func(x, y int) fractal.ColorRGB {
		sx, sy, sz := view.SampleAt(x, y, opts.Width, opts.Height)
		r := b.Kernel.Evaluate(sx, sy, sz, opts.MaxIterations, view.Power)
		return b.Mapper.Map(r, opts.MaxIterations, opts.TimeOffset)
	})
}

var _ Renderer[fractal.ViewState3D] = (*Bulb)(nil)
