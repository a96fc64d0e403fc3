package viz

import (
	"fmt"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Navigator turns input events into camera moves for one kind of view.
// Key reports whether it consumed the key.
type Navigator[V fractal.View[V]] interface {
	Key(v V, key string) (V, bool, error)
	Wheel(v V, px, py float64, width, height int, zoomIn bool) (V, error)
	Overlay(v V) string
	Help() string
}

// QuadraticNav pans by PanStep/zoom per key press and zooms by ZoomStep.
type QuadraticNav struct {
	PanStep  float64
	ZoomStep float64
}

func (n QuadraticNav) Key(v fractal.ViewState2D, key string) (fractal.ViewState2D, bool, error) {
	var (
		next fractal.ViewState2D
		err  error
	)
	switch key {
	case "left", "h":
		next, err = v.PanBy(-n.PanStep, 0)
	case "right", "l":
		next, err = v.PanBy(n.PanStep, 0)
	case "up", "k":
		next, err = v.PanBy(0, -n.PanStep)
	case "down", "j":
		next, err = v.PanBy(0, n.PanStep)
	case "+", "=":
		next, err = v.ZoomByFactor(n.ZoomStep)
	case "-", "_":
		next, err = v.ZoomByFactor(1 / n.ZoomStep)
	default:
		return v, false, nil
	}
	if err != nil {
		return v, true, err
	}
	return next, true, nil
}

// Wheel zooms around the pixel under the cursor.
func (n QuadraticNav) Wheel(v fractal.ViewState2D, px, py float64, width, height int, zoomIn bool) (fractal.ViewState2D, error) {
	factor := n.ZoomStep
	if !zoomIn {
		factor = 1 / factor
	}
	next, err := v.ZoomAtCursor(px, py, width, height, factor)
	if err != nil {
		return v, err
	}
	return next, nil
}

func (n QuadraticNav) Overlay(v fractal.ViewState2D) string {
	return fmt.Sprintf("Center: (%.17g, %.17g)  Zoom: %g", v.CenterX, v.CenterY, v.Zoom)
}

func (n QuadraticNav) Help() string {
	return "←↓↑→/hjkl pan  +/- zoom  wheel zoom at cursor"
}

// BulbNav moves the slice camera by Move/zoom per key press.
type BulbNav struct {
	Move     float32
	ZoomStep float32
}

func (n BulbNav) Key(v fractal.ViewState3D, key string) (fractal.ViewState3D, bool, error) {
	var (
		next fractal.ViewState3D
		err  error
	)
	switch key {
	case "left":
		next, err = v.PanBy(-n.Move, 0, 0)
	case "right":
		next, err = v.PanBy(n.Move, 0, 0)
	case "up":
		next, err = v.PanBy(0, n.Move, 0)
	case "down":
		next, err = v.PanBy(0, -n.Move, 0)
	case "w":
		next, err = v.PanBy(0, 0, n.Move)
	case "s":
		next, err = v.PanBy(0, 0, -n.Move)
	case "z":
		next, err = v.ZoomByFactor(n.ZoomStep)
	case "x":
		next, err = v.ZoomByFactor(1 / n.ZoomStep)
	case "[", "]":
		next = v
		if key == "[" {
			next.Power--
		} else {
			next.Power++
		}
		err = next.Validate()
	default:
		return v, false, nil
	}
	if err != nil {
		return v, true, err
	}
	return next, true, nil
}

// Wheel zooms about the slice center; the bulb camera has no cursor
// anchored zoom.
func (n BulbNav) Wheel(v fractal.ViewState3D, _, _ float64, _, _ int, zoomIn bool) (fractal.ViewState3D, error) {
	factor := n.ZoomStep
	if !zoomIn {
		factor = 1 / factor
	}
	next, err := v.ZoomByFactor(factor)
	if err != nil {
		return v, err
	}
	return next, nil
}

func (n BulbNav) Overlay(v fractal.ViewState3D) string {
	return fmt.Sprintf("Offset: (%.7g, %.7g, %.7g)  Zoom: %g  Power: %g", v.OffsetX, v.OffsetY, v.OffsetZ, v.ZoomFactor, v.Power)
}

func (n BulbNav) Help() string {
	return "arrows pan  w/s depth  z/x zoom  [/] power"
}

var (
	_ Navigator[fractal.ViewState2D] = QuadraticNav{}
	_ Navigator[fractal.ViewState3D] = BulbNav{}
)
