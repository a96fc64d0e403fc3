package fractal

import (
	"errors"
	"math"
	"testing"
)

func TestNewViewState2D_InvalidZoom(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewViewState2D(0, 0, tt.zoom)
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

func TestScreenToWorld_CenterPixel(t *testing.T) {
	v, err := NewViewState2D(-0.75, -0.1071, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	x, y := v.ScreenToWorld(400, 300, 800, 600)
	if x != -0.75 || y != -0.1071 {
		t.Errorf("expected (-0.75, -0.1071), got (%v, %v)", x, y)
	}

	// left edge spans 1.5 units at zoom 1
	x, _ = v.ScreenToWorld(0, 300, 800, 600)
	if math.Abs(x-(-2.25)) > 1e-12 {
		t.Errorf("expected left edge -2.25, got %v", x)
	}
}

func TestPanBy_ScalesWithZoom(t *testing.T) {
	v := ViewState2D{Zoom: 100}
	next, err := v.PanBy(0.01, -0.01)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(next.CenterX-1e-4) > 1e-15 || math.Abs(next.CenterY+1e-4) > 1e-15 {
		t.Errorf("unexpected center (%v, %v)", next.CenterX, next.CenterY)
	}
	if v.CenterX != 0 {
		t.Error("PanBy must not mutate the receiver")
	}
}

func TestZoomByFactor(t *testing.T) {
	v := ViewState2D{Zoom: 2}

	in, err := v.ZoomByFactor(1.1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(in.Zoom-2.2) > 1e-12 {
		t.Errorf("expected zoom 2.2, got %v", in.Zoom)
	}

	if _, err := v.ZoomByFactor(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := v.ZoomByFactor(-1.1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestZoomAtCursor_KeepsPointFixed(t *testing.T) {
	v := ViewState2D{CenterX: -0.5, CenterY: 0.1, Zoom: 3}
	px, py := 123.0, 456.0

	bx, by := v.ScreenToWorld(px, py, 800, 600)
	for _, f := range []float64{1.1, 1 / 1.1, 4} {
		next, err := v.ZoomAtCursor(px, py, 800, 600, f)
		if err != nil {
			t.Fatal(err)
		}
		ax, ay := next.ScreenToWorld(px, py, 800, 600)
		if math.Abs(ax-bx) > 1e-12 || math.Abs(ay-by) > 1e-12 {
			t.Errorf("factor %v: point moved from (%v, %v) to (%v, %v)", f, bx, by, ax, ay)
		}
		if math.Abs(next.Zoom-v.Zoom*f) > 1e-12 {
			t.Errorf("factor %v: expected zoom %v, got %v", f, v.Zoom*f, next.Zoom)
		}
	}
}

func TestZoomAtCursor_ZeroArea(t *testing.T) {
	v := ViewState2D{Zoom: 1}
	if _, err := v.ZoomAtCursor(0, 0, 0, 600, 1.1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestInterpolate2D_LogZoom(t *testing.T) {
	start := ViewState2D{CenterX: -1, CenterY: 0, Zoom: 1}
	end := ViewState2D{CenterX: 1, CenterY: 2, Zoom: 1e6}

	mid := start.Interpolate(end, 0.5)
	if mid.CenterX != 0 || mid.CenterY != 1 {
		t.Errorf("expected center (0, 1), got (%v, %v)", mid.CenterX, mid.CenterY)
	}
	if math.Abs(mid.Zoom-1e3)/1e3 > 1e-12 {
		t.Errorf("expected zoom 1e3, got %v", mid.Zoom)
	}
}

func TestViewState3D(t *testing.T) {
	v := DefaultViewState3D()
	if err := v.Validate(); err != nil {
		t.Fatalf("default view invalid: %v", err)
	}

	x, y, z := v.SampleAt(0, 0, 1920, 1080)
	if x != -3 || y != -3 || z != -2 {
		t.Errorf("expected corner (-3, -3, -2), got (%v, %v, %v)", x, y, z)
	}

	x, y, _ = v.SampleAt(960, 540, 1920, 1080)
	if x != 0 || y != 0 {
		t.Errorf("expected center (0, 0), got (%v, %v)", x, y)
	}

	moved, err := v.PanBy(0.2, 0, -0.2)
	if err != nil {
		t.Fatal(err)
	}
	if moved.OffsetX != 0.4 || moved.OffsetZ != -2.4 {
		t.Errorf("unexpected offsets %+v", moved)
	}

	bad := v
	bad.ZoomFactor = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if _, err := v.ZoomByFactor(-2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
