package kernels

import "github.com/san-kum/fraczoom/internal/fractal"

// EscapeRadiusSquared is the squared escape radius shared by both kernels.
const EscapeRadiusSquared = 4.0

// Complex iterates z' = z^2 + c starting from z = c.
type Complex struct{}

func NewComplex() *Complex {
	return &Complex{}
}

// Evaluate returns the number of updates applied before |z| exceeded 2 and
// the squared magnitude of the escaping z. Points with |c| > 2 report zero
// iterations.
func (k *Complex) Evaluate(cx, cy float64, maxIterations int) fractal.EscapeResult {
	zx, zy := cx, cy
	i := 0
	for ; i < maxIterations; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 > EscapeRadiusSquared {
			break
		}
		zy = 2*zx*zy + cy
		zx = zx2 - zy2 + cx
	}
	return fractal.EscapeResult{
		Iterations:       i,
		MagnitudeSquared: zx*zx + zy*zy,
		Coordinate:       cx,
	}
}

var _ fractal.Kernel2D = (*Complex)(nil)
