package palette

import "math"

// HueBands holds the trigonometric constants of the three-band gradient
// (red to green, green to blue, blue back to red). The defaults reproduce
// the classic zoom palette. The rates are detuned from pi, so band edges
// do not land exactly on zeros of the sine terms.
type HueBands struct {
	RedGreenRate  float64 `yaml:"red_green_rate"`
	RedGreenPhase float64 `yaml:"red_green_phase"`
	BlueRiseRate  float64 `yaml:"blue_rise_rate"`
	RedRiseRate   float64 `yaml:"red_rise_rate"`
	BlueFallRate  float64 `yaml:"blue_fall_rate"`
	RisePhase     float64 `yaml:"rise_phase"`
}

// DefaultHueBands returns the classic constants.
func DefaultHueBands() HueBands {
	return HueBands{
		RedGreenRate:  3.14159,
		RedGreenPhase: 6.094,
		BlueRiseRate:  5.14159,
		RedRiseRate:   4.14159,
		BlueFallRate:  2.14159,
		RisePhase:     2.094,
	}
}

// Channels returns unclamped 0-255 scale channel values for a hue in [0, 1).
func (b HueBands) Channels(hue float64) (r, g, bl float64) {
	const third = 1.0 / 3.0
	switch {
	case hue < third:
		r = math.Sin(hue*3*b.RedGreenRate) * 255
		g = sq(math.Sin(hue*3*b.RedGreenRate+b.RedGreenPhase)) * 255
	case hue < 2*third:
		d := hue - third
		g = math.Cos(d*3*b.RedGreenRate) * 255
		bl = sq(math.Sin(d*3*b.BlueRiseRate+b.RisePhase)) * 255
	default:
		d := hue - 2*third
		r = sq(math.Sin(d*3*b.RedRiseRate+b.RisePhase)) * 255
		bl = math.Cos(d*3*b.BlueFallRate) * 255
	}
	return r, g, bl
}

func sq(v float64) float64 { return v * v }

// WrapHue folds h into [0, 1) with modulo arithmetic.
func WrapHue(h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}

// channel converts a 0-255 scale value to a byte. Clamped mode saturates;
// legacy mode truncates through an integer, wrapping negatives around 256.
func channel(v float64, clamp bool) uint8 {
	if clamp {
		switch {
		case v <= 0:
			return 0
		case v >= 255:
			return 255
		}
		return uint8(v)
	}
	return uint8(int64(v))
}
