package fractal

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// View is implemented by camera states that an animation can interpolate.
type View[V any] interface {
	Validate() error
	Interpolate(end V, t float64) V
}

// PixelCoordinate addresses one pixel in [0, width) x [0, height).
type PixelCoordinate struct {
	X, Y int
}

// EscapeResult is the outcome of iterating one sample point.
//
// MagnitudeSquared is |z|^2 at termination. Coordinate is the smoothing
// input used by mappers that do not rely on the orbit magnitude (the bulb
// variant stores the sample's x coordinate there).
type EscapeResult struct {
	Iterations       int
	MagnitudeSquared float64
	Coordinate       float64
}

// Bounded reports whether the orbit never escaped within maxIterations.
func (r EscapeResult) Bounded(maxIterations int) bool {
	return r.Iterations >= maxIterations
}

// ColorRGB is an opaque 8-bit color.
type ColorRGB struct {
	R, G, B uint8
}

// Black is the color of points inside the set.
var Black = ColorRGB{}

// RGBA implements color.Color.
func (c ColorRGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Kernel2D evaluates the quadratic escape-time recurrence for one point.
type Kernel2D interface {
	Evaluate(cx, cy float64, maxIterations int) EscapeResult
}

// Kernel3D evaluates the bulb power recurrence for one point.
type Kernel3D interface {
	Evaluate(x, y, z float32, maxIterations int, power float32) EscapeResult
}

// ColorMapper converts an escape result into a color. timeOffset shifts the
// palette for color cycling and is taken modulo 1.
type ColorMapper interface {
	Map(r EscapeResult, maxIterations int, timeOffset float64) ColorRGB
}

// FrameSink receives finished frames in strictly increasing index order.
type FrameSink interface {
	WriteFrame(index int, buf *PixelBuffer) error
}

// DisplaySink presents a frame. It must not block indefinitely.
type DisplaySink interface {
	Present(buf *PixelBuffer)
}

// PixelBuffer is a row-major width x height grid of colors. It implements
// image.Image so it can be encoded or scaled directly.
type PixelBuffer struct {
	Width, Height int
	Pix           []ColorRGB
}

// NewPixelBuffer allocates a black buffer. Zero-area buffers are rejected.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidArgument, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]ColorRGB, width*height),
	}, nil
}

// Set writes c at (x, y). Out-of-range coordinates are ignored.
func (b *PixelBuffer) Set(x, y int, c ColorRGB) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = c
}

// RGB returns the color at (x, y), or black outside the buffer.
func (b *PixelBuffer) RGB(x, y int) ColorRGB {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return Black
	}
	return b.Pix[y*b.Width+x]
}

// Row returns the slice backing row y.
func (b *PixelBuffer) Row(y int) []ColorRGB {
	return b.Pix[y*b.Width : (y+1)*b.Width]
}

func (b *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *PixelBuffer) At(x, y int) color.Color { return b.RGB(x, y) }

// RGBA copies the buffer into an *image.RGBA.
func (b *PixelBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(b.Bounds())
	for i, c := range b.Pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// Equal reports whether two buffers hold identical pixels.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	if other == nil || b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
