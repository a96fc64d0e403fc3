package kernels

import (
	"math"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Bulb iterates the spherical power map v' = v^n + c starting from v = 0.
// Arithmetic is float32.
type Bulb struct{}

func NewBulb() *Bulb {
	return &Bulb{}
}

// Evaluate stops when |v|^2 reaches 4 or the iteration cap is hit.
// Coordinate carries the sample's x, the smoothing input of the bulb palette.
func (k *Bulb) Evaluate(x, y, z float32, maxIterations int, power float32) fractal.EscapeResult {
	var vx, vy, vz float32
	i := 0
	for i < maxIterations && vx*vx+vy*vy+vz*vz < EscapeRadiusSquared {
		rxy2 := vx*vx + vy*vy
		r := sqrt32(rxy2 + vz*vz)
		theta := atan2_32(sqrt32(rxy2), vz)
		phi := atan2_32(vy, vx)

		rn := pow32(r, power)
		sinT, cosT := sincos32(power * theta)
		sinP, cosP := sincos32(power * phi)

		vx = rn*sinT*cosP + x
		vy = rn*sinT*sinP + y
		vz = rn*cosT + z
		i++
	}
	return fractal.EscapeResult{
		Iterations:       i,
		MagnitudeSquared: float64(vx*vx + vy*vy + vz*vz),
		Coordinate:       float64(x),
	}
}

var _ fractal.Kernel3D = (*Bulb)(nil)

func sqrt32(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func atan2_32(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func pow32(b, e float32) float32 { return float32(math.Pow(float64(b), float64(e))) }

func sincos32(v float32) (float32, float32) {
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}
