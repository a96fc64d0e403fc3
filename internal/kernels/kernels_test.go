package kernels

import (
	"math"
	"testing"
)

func TestComplex_BoundedPoints(t *testing.T) {
	k := NewComplex()
	points := []struct {
		name   string
		cx, cy float64
	}{
		{"origin", 0, 0},
		{"period two", -1, 0},
		{"main cardioid", -0.1, 0.1},
		{"cardioid interior", 0.2, 0},
		{"period two bulb", -1.1, 0.1},
	}

	for _, p := range points {
		t.Run(p.name, func(t *testing.T) {
			r := k.Evaluate(p.cx, p.cy, 500)
			if r.Iterations != 500 {
				t.Errorf("expected 500 iterations, got %d", r.Iterations)
			}
			if r.MagnitudeSquared > EscapeRadiusSquared {
				t.Errorf("bounded orbit ended with |z|^2 = %v", r.MagnitudeSquared)
			}
		})
	}
}

func TestComplex_ImmediateEscape(t *testing.T) {
	k := NewComplex()
	points := [][2]float64{{2.5, 0}, {0, -2.01}, {1.5, 1.5}, {-3, 4}}

	for _, p := range points {
		r := k.Evaluate(p[0], p[1], 1000)
		if r.Iterations != 0 {
			t.Errorf("c=%v: expected 0 iterations, got %d", p, r.Iterations)
		}
		want := p[0]*p[0] + p[1]*p[1]
		if r.MagnitudeSquared != want {
			t.Errorf("c=%v: expected |z|^2 %v, got %v", p, want, r.MagnitudeSquared)
		}
	}
}

func TestComplex_EscapesNearTarget(t *testing.T) {
	k := NewComplex()
	r := k.Evaluate(-0.75, -0.1071, 1000)
	if r.Iterations >= 1000 {
		t.Fatalf("expected escape, got %d iterations", r.Iterations)
	}
	if r.MagnitudeSquared <= EscapeRadiusSquared {
		t.Errorf("escaped orbit should exceed radius, got %v", r.MagnitudeSquared)
	}
}

func TestComplex_Deterministic(t *testing.T) {
	k := NewComplex()
	a := k.Evaluate(-0.7448109501771761, -0.1071465558960558, 1000)
	b := k.Evaluate(-0.7448109501771761, -0.1071465558960558, 1000)
	if a != b {
		t.Errorf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestBulb(t *testing.T) {
	k := NewBulb()

	r := k.Evaluate(0, 0, 0, 100, 10)
	if r.Iterations != 100 {
		t.Errorf("origin: expected 100 iterations, got %d", r.Iterations)
	}

	r = k.Evaluate(3, 0, 0, 100, 10)
	if r.Iterations != 1 {
		t.Errorf("far point: expected escape after the first step, got %d", r.Iterations)
	}
	if r.Coordinate != 3 {
		t.Errorf("expected coordinate 3, got %v", r.Coordinate)
	}

	r = k.Evaluate(0.5, 0.5, -2, 100, 10)
	if r.Iterations >= 100 {
		t.Errorf("expected z=-2 slice point to escape, got %d", r.Iterations)
	}
	if math.IsNaN(r.MagnitudeSquared) {
		t.Error("magnitude is NaN")
	}
}

func BenchmarkComplex(b *testing.B) {
	k := NewComplex()
	for i := 0; i < b.N; i++ {
		k.Evaluate(-0.7448109501771761, -0.1071465558960558, 1000)
	}
}

func BenchmarkBulb(b *testing.B) {
	k := NewBulb()
	for i := 0; i < b.N; i++ {
		k.Evaluate(0.3, 0.2, -0.1, 1000, 10)
	}
}
