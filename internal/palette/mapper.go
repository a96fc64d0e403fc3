package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/fraczoom/internal/fractal"
)

// Palette names accepted by New.
const (
	NameBands = "bands"
	NameBulb  = "bulb"
	NameHSV   = "hsv"
)

// Options configures a mapper.
//
// Clamp saturates channel values to [0, 255]. With Clamp off, negative
// sine/cosine terms wrap around 256 the way an unsigned byte
// cast does; keep it only for reproducing old footage.
type Options struct {
	Clamp   bool
	Bands   HueBands
	HSVRate float64
}

// DefaultOptions returns clamped channels with the classic bands.
func DefaultOptions() Options {
	return Options{
		Clamp:   true,
		Bands:   DefaultHueBands(),
		HSVRate: 0.02,
	}
}

// New returns the mapper registered under name.
func New(name string, opts Options) (fractal.ColorMapper, error) {
	switch name {
	case NameBands, "":
		return &Quadratic{Bands: opts.Bands, Clamp: opts.Clamp}, nil
	case NameBulb:
		return &Bulb{Clamp: opts.Clamp}, nil
	case NameHSV:
		rate := opts.HSVRate
		if rate <= 0 {
			rate = DefaultOptions().HSVRate
		}
		return &HSV{Rate: rate}, nil
	}
	return nil, fmt.Errorf("%w: unknown palette %q", fractal.ErrInvalidArgument, name)
}

// Names lists the registered palettes.
func Names() []string {
	return []string{NameBands, NameBulb, NameHSV}
}

// SmoothIterations returns the continuous escape estimate
// n + 1 - log2(log|z|). Non-finite estimates fall back to n, which only
// happens when |z| overflowed at extreme zoom-out.
func SmoothIterations(r fractal.EscapeResult) float64 {
	s := float64(r.Iterations) + 1 - math.Log(math.Log(math.Sqrt(r.MagnitudeSquared)))/math.Ln2
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return float64(r.Iterations)
	}
	return s
}

// Quadratic maps smooth iteration counts onto the three-band gradient.
type Quadratic struct {
	Bands HueBands
	Clamp bool
}

// Hue returns the wrapped palette position of r.
func (q *Quadratic) Hue(r fractal.EscapeResult, maxIterations int, timeOffset float64) float64 {
	return WrapHue(SmoothIterations(r)/float64(maxIterations) + timeOffset)
}

func (q *Quadratic) Map(r fractal.EscapeResult, maxIterations int, timeOffset float64) fractal.ColorRGB {
	if r.Bounded(maxIterations) {
		return fractal.Black
	}
	return q.Color(q.Hue(r, maxIterations, timeOffset))
}

// Color converts a hue in [0, 1) to a color.
func (q *Quadratic) Color(hue float64) fractal.ColorRGB {
	r, g, b := q.Bands.Channels(hue)
	return fractal.ColorRGB{R: channel(r, q.Clamp), G: channel(g, q.Clamp), B: channel(b, q.Clamp)}
}

// Bulb is the bulb palette: the smoothing term uses the sample coordinate
// carried in EscapeResult.Coordinate and the hue is fed to sin/cos as
// radians. Coordinates at or below 1 have no log-log term and fall back to
// n + 1.
type Bulb struct {
	Clamp bool
}

func (p *Bulb) Map(r fractal.EscapeResult, maxIterations int, timeOffset float64) fractal.ColorRGB {
	if r.Bounded(maxIterations) {
		return fractal.Black
	}
	smooth := float64(r.Iterations) + 1 - math.Log(math.Log(r.Coordinate))/math.Ln2
	if math.IsNaN(smooth) || math.IsInf(smooth, 0) {
		smooth = float64(r.Iterations) + 1
	}
	hue := 360*smooth/float64(maxIterations) + 2*math.Pi*WrapHue(timeOffset)

	return fractal.ColorRGB{
		R: channel(255*math.Sin(hue), p.Clamp),
		G: channel(255*math.Cos(hue), p.Clamp),
		B: channel(255*math.Sin(2*hue), p.Clamp),
	}
}

// HSV cycles the hue wheel at Rate turns per smooth iteration.
type HSV struct {
	Rate float64
}

func (p *HSV) Map(r fractal.EscapeResult, maxIterations int, timeOffset float64) fractal.ColorRGB {
	if r.Bounded(maxIterations) {
		return fractal.Black
	}
	hue := WrapHue(SmoothIterations(r)*p.Rate + timeOffset)
	cr, cg, cb := colorful.Hsv(hue*360, 1, 1).RGB255()
	return fractal.ColorRGB{R: cr, G: cg, B: cb}
}

var (
	_ fractal.ColorMapper = (*Quadratic)(nil)
	_ fractal.ColorMapper = (*Bulb)(nil)
	_ fractal.ColorMapper = (*HSV)(nil)
)
