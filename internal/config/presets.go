package config

import (
	"math"
	"sort"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// region frames the rectangle [xmin, xmax] x [ymin, ymax] as a quadratic
// camera, keeping the whole rectangle visible.
func region(xmin, xmax, ymin, ymax float64) fractal.ViewState2D {
	halfW := (xmax - xmin) / 2
	halfH := (ymax - ymin) / 2
	return fractal.ViewState2D{
		CenterX: xmin + halfW,
		CenterY: ymin + halfH,
		Zoom:    math.Min(fractal.AspectScale/halfW, 1/halfH),
	}
}

func zoomInto(end fractal.ViewState2D, frames int) *Config {
	cfg := DefaultConfig()
	cfg.View = fractal.ViewState2D{CenterX: end.CenterX, CenterY: end.CenterY, Zoom: 1}
	cfg.Animation.EndView = end
	cfg.Animation.FrameCount = frames
	return cfg
}

func bulb(start, end fractal.ViewState3D, frames int) *Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeBulb
	cfg.Width, cfg.Height = 1920, 1080
	cfg.Palette.Name = "bulb"
	cfg.Bulb = start
	cfg.Animation.EndBulb = end
	cfg.Animation.FrameCount = frames
	return cfg
}

var Presets = map[string]map[string]*Config{
	ModeQuadratic: {
		"deep": zoomInto(fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: 1.264056845e15}, 900),
		"alternate": func() *Config {
			cfg := zoomInto(fractal.ViewState2D{CenterX: -0.7467745116055939, CenterY: -0.1071315080796475, Zoom: 1.264056845e15}, 1280)
			cfg.View = fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: 1}
			return cfg
		}(),
		"seahorse":    zoomInto(region(-0.8, -0.7, 0.05, 0.15), 300),
		"elephant":    zoomInto(region(-1.85, -1.75, -0.10, -0.02), 300),
		"spiral":      zoomInto(region(-0.7435, -0.7420, 0.1310, 0.1325), 450),
		"triple":      zoomInto(region(-0.7480, -0.7450, 0.0950, 0.0980), 450),
		"dragon":      zoomInto(region(-0.7400, -0.7350, 0.1800, 0.1850), 450),
		"mini_spiral": zoomInto(region(-1.7390, -1.7375, -0.0235, -0.0220), 450),
	},
	ModeBulb: {
		"default": bulb(fractal.DefaultViewState3D(), fractal.ViewState3D{OffsetZ: -0.5, ZoomFactor: 4, Power: 10}, 300),
		"classic": bulb(
			fractal.ViewState3D{OffsetZ: 0, ZoomFactor: 0.5, Power: 8},
			fractal.ViewState3D{OffsetX: 0.4, OffsetY: 0.2, OffsetZ: 0, ZoomFactor: 8, Power: 8},
			300),
		"sweep": bulb(
			fractal.ViewState3D{OffsetZ: -1.2, ZoomFactor: 0.5, Power: 10},
			fractal.ViewState3D{OffsetZ: 1.2, ZoomFactor: 0.5, Power: 10},
			600),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
