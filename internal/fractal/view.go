package fractal

import (
	"fmt"
	"math"
)

// AspectScale widens the horizontal parameter range of the quadratic
// camera so an 800x600 window shows [-1.5, 1.5] x [-1, 1] at zoom 1.
const AspectScale = 1.5

// ViewState2D is the quadratic camera. Zoom must be positive and finite.
type ViewState2D struct {
	CenterX float64 `yaml:"center_x" json:"center_x"`
	CenterY float64 `yaml:"center_y" json:"center_y"`
	Zoom    float64 `yaml:"zoom" json:"zoom"`
}

// NewViewState2D returns a validated camera.
func NewViewState2D(cx, cy, zoom float64) (ViewState2D, error) {
	v := ViewState2D{CenterX: cx, CenterY: cy, Zoom: zoom}
	return v, v.Validate()
}

func (v ViewState2D) Validate() error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("%w: zoom %g", ErrInvalidState, v.Zoom)
	}
	if !isFinite(v.CenterX) || !isFinite(v.CenterY) {
		return fmt.Errorf("%w: center (%g, %g)", ErrInvalidState, v.CenterX, v.CenterY)
	}
	return nil
}

// ScreenToWorld maps a pixel position to parameter space.
func (v ViewState2D) ScreenToWorld(px, py float64, width, height int) (float64, float64) {
	w, h := float64(width), float64(height)
	x := AspectScale*(px-w/2)/(0.5*v.Zoom*w) + v.CenterX
	y := (py-h/2)/(0.5*v.Zoom*h) + v.CenterY
	return x, y
}

// PanBy moves the center by a world-space delta divided by the zoom, so a
// fixed step covers the same fraction of the screen at any magnification.
func (v ViewState2D) PanBy(dx, dy float64) (ViewState2D, error) {
	next := v
	next.CenterX += dx / v.Zoom
	next.CenterY += dy / v.Zoom
	return next, next.Validate()
}

// ZoomByFactor multiplies the zoom. Factors above 1 magnify.
func (v ViewState2D) ZoomByFactor(factor float64) (ViewState2D, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v, fmt.Errorf("%w: zoom factor %g", ErrInvalidArgument, factor)
	}
	next := v
	next.Zoom *= factor
	return next, next.Validate()
}

// ZoomAtCursor changes the zoom while keeping the world point under the
// pixel (px, py) fixed on screen.
func (v ViewState2D) ZoomAtCursor(px, py float64, width, height int, factor float64) (ViewState2D, error) {
	if width <= 0 || height <= 0 {
		return v, fmt.Errorf("%w: resolution %dx%d", ErrInvalidArgument, width, height)
	}
	bx, by := v.ScreenToWorld(px, py, width, height)
	next, err := v.ZoomByFactor(factor)
	if err != nil {
		return v, err
	}
	ax, ay := next.ScreenToWorld(px, py, width, height)
	next.CenterX += bx - ax
	next.CenterY += by - ay
	return next, next.Validate()
}

// Interpolate moves the center linearly and the zoom linearly in log space.
func (v ViewState2D) Interpolate(end ViewState2D, t float64) ViewState2D {
	return ViewState2D{
		CenterX: lerp(v.CenterX, end.CenterX, t),
		CenterY: lerp(v.CenterY, end.CenterY, t),
		Zoom:    LogLerp(v.Zoom, end.Zoom, t),
	}
}

// BulbExtent is the side of the parameter cube visible at zoom factor 1.
const BulbExtent = 3.0

// ViewState3D is the bulb camera. The image is the z = OffsetZ slice.
type ViewState3D struct {
	OffsetX    float32 `yaml:"offset_x" json:"offset_x"`
	OffsetY    float32 `yaml:"offset_y" json:"offset_y"`
	OffsetZ    float32 `yaml:"offset_z" json:"offset_z"`
	ZoomFactor float32 `yaml:"zoom_factor" json:"zoom_factor"`
	Power      float32 `yaml:"power" json:"power"`
}

// DefaultViewState3D frames the whole bulb slightly pulled back on z.
func DefaultViewState3D() ViewState3D {
	return ViewState3D{OffsetZ: -2, ZoomFactor: 0.5, Power: 10}
}

func (v ViewState3D) Validate() error {
	z := float64(v.ZoomFactor)
	if !(z > 0) || math.IsInf(z, 0) {
		return fmt.Errorf("%w: zoom factor %g", ErrInvalidState, z)
	}
	for _, c := range []float32{v.OffsetX, v.OffsetY, v.OffsetZ, v.Power} {
		if !isFinite(float64(c)) {
			return fmt.Errorf("%w: offset (%g, %g, %g) power %g", ErrInvalidState, v.OffsetX, v.OffsetY, v.OffsetZ, v.Power)
		}
	}
	return nil
}

// SampleAt maps a pixel to the bulb sample point.
func (v ViewState3D) SampleAt(px, py, width, height int) (x, y, z float32) {
	span := float32(BulbExtent) / v.ZoomFactor
	minX := v.OffsetX - span/2
	minY := v.OffsetY - span/2
	x = minX + float32(px)*span/float32(width)
	y = minY + float32(py)*span/float32(height)
	return x, y, v.OffsetZ
}

// PanBy moves the camera by a delta divided by the zoom factor.
func (v ViewState3D) PanBy(dx, dy, dz float32) (ViewState3D, error) {
	next := v
	next.OffsetX += dx / v.ZoomFactor
	next.OffsetY += dy / v.ZoomFactor
	next.OffsetZ += dz / v.ZoomFactor
	return next, next.Validate()
}

// ZoomByFactor multiplies the zoom factor. Factors above 1 magnify.
func (v ViewState3D) ZoomByFactor(factor float32) (ViewState3D, error) {
	if !(factor > 0) {
		return v, fmt.Errorf("%w: zoom factor %g", ErrInvalidArgument, factor)
	}
	next := v
	next.ZoomFactor *= factor
	return next, next.Validate()
}

// Interpolate moves the offset and power linearly and the zoom factor
// linearly in log space.
func (v ViewState3D) Interpolate(end ViewState3D, t float64) ViewState3D {
	return ViewState3D{
		OffsetX:    float32(lerp(float64(v.OffsetX), float64(end.OffsetX), t)),
		OffsetY:    float32(lerp(float64(v.OffsetY), float64(end.OffsetY), t)),
		OffsetZ:    float32(lerp(float64(v.OffsetZ), float64(end.OffsetZ), t)),
		ZoomFactor: float32(LogLerp(float64(v.ZoomFactor), float64(end.ZoomFactor), t)),
		Power:      float32(lerp(float64(v.Power), float64(end.Power), t)),
	}
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LogLerp interpolates two positive values linearly in log space, giving a
// constant perceived zoom speed.
func LogLerp(a, b, t float64) float64 {
	la := math.Log(a)
	return math.Exp(la + t*(math.Log(b)-la))
}
