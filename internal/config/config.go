package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/palette"
)

const (
	ModeQuadratic = "quadratic"
	ModeBulb      = "bulb"
)

const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultMaxIterations = 1000
	DefaultFrameCount    = 900
	DefaultOutputDir     = "recorded_frames"
	DefaultPanStep       = 0.01
	DefaultZoomStep      = 1.1
	DefaultBulbMove      = 0.2
	DefaultBulbZoom      = 1.1
	DefaultCycleRate     = 0.05
)

type Config struct {
	Mode          string              `yaml:"mode"`
	Width         int                 `yaml:"width"`
	Height        int                 `yaml:"height"`
	MaxIterations int                 `yaml:"max_iterations"`
	Backend       string              `yaml:"backend"`
	Workers       int                 `yaml:"workers"`
	View          fractal.ViewState2D `yaml:"view"`
	Bulb          fractal.ViewState3D `yaml:"bulb"`
	Palette       PaletteConfig       `yaml:"palette"`
	Animation     AnimationConfig     `yaml:"animation"`
	Navigation    NavigationConfig    `yaml:"navigation"`
}

type PaletteConfig struct {
	Name          string           `yaml:"name"`
	ClampChannels bool             `yaml:"clamp_channels"`
	Bands         palette.HueBands `yaml:"bands"`
	HSVRate       float64          `yaml:"hsv_rate"`
}

type AnimationConfig struct {
	EndView     fractal.ViewState2D `yaml:"end_view"`
	EndBulb     fractal.ViewState3D `yaml:"end_bulb"`
	FrameCount  int                 `yaml:"frame_count"`
	RestoreView bool                `yaml:"restore_view"`
	TimeSource  string              `yaml:"time_source"`
	// CycleRate is the palette offset advanced per second when the
	// time source is the clock.
	CycleRate   float64 `yaml:"cycle_rate"`
	OutputDir   string  `yaml:"output_dir"`
	Supersample int     `yaml:"supersample"`
	Name        string  `yaml:"name"`
}

type NavigationConfig struct {
	PanStep      float64 `yaml:"pan_step"`
	ZoomStep     float64 `yaml:"zoom_step"`
	BulbMove     float32 `yaml:"bulb_move"`
	BulbZoomStep float32 `yaml:"bulb_zoom_step"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeQuadratic,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MaxIterations: DefaultMaxIterations,
		Backend:       "auto",
		View:          fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: 1},
		Bulb:          fractal.DefaultViewState3D(),
		Palette: PaletteConfig{
			Name:          palette.NameBands,
			ClampChannels: true,
			Bands:         palette.DefaultHueBands(),
			HSVRate:       palette.DefaultOptions().HSVRate,
		},
		Animation: AnimationConfig{
			EndView:     fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: 1.264056845e15},
			EndBulb:     fractal.ViewState3D{OffsetZ: -0.5, ZoomFactor: 4, Power: 10},
			FrameCount:  DefaultFrameCount,
			RestoreView: true,
			TimeSource:  animation.FrameIndex.String(),
			CycleRate:   DefaultCycleRate,
			OutputDir:   DefaultOutputDir,
			Supersample: 1,
		},
		Navigation: NavigationConfig{
			PanStep:      DefaultPanStep,
			ZoomStep:     DefaultZoomStep,
			BulbMove:     DefaultBulbMove,
			BulbZoomStep: DefaultBulbZoom,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings that would otherwise only fail once a
// render or recording is underway.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeQuadratic, ModeBulb:
	default:
		return fmt.Errorf("%w: mode %q", fractal.ErrInvalidArgument, c.Mode)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", fractal.ErrInvalidArgument, c.Width, c.Height)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations %d", fractal.ErrInvalidArgument, c.MaxIterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", fractal.ErrInvalidArgument, c.Workers)
	}
	if err := c.View.Validate(); err != nil {
		return fmt.Errorf("view: %w", err)
	}
	if err := c.Bulb.Validate(); err != nil {
		return fmt.Errorf("bulb: %w", err)
	}
	if err := c.Animation.EndView.Validate(); err != nil {
		return fmt.Errorf("animation.end_view: %w", err)
	}
	if err := c.Animation.EndBulb.Validate(); err != nil {
		return fmt.Errorf("animation.end_bulb: %w", err)
	}
	if c.Animation.FrameCount < 2 {
		return fmt.Errorf("%w: frame_count %d", fractal.ErrInvalidArgument, c.Animation.FrameCount)
	}
	if c.Animation.Supersample < 1 {
		return fmt.Errorf("%w: supersample %d", fractal.ErrInvalidArgument, c.Animation.Supersample)
	}
	if _, err := animation.ParseTimeSource(c.Animation.TimeSource); err != nil {
		return err
	}
	if _, err := palette.New(c.Palette.Name, c.PaletteOptions()); err != nil {
		return err
	}
	if !(c.Navigation.ZoomStep > 1) || !(c.Navigation.BulbZoomStep > 1) {
		return fmt.Errorf("%w: zoom steps must exceed 1", fractal.ErrInvalidArgument)
	}
	return nil
}

func (c *Config) PaletteOptions() palette.Options {
	return palette.Options{
		Clamp:   c.Palette.ClampChannels,
		Bands:   c.Palette.Bands,
		HSVRate: c.Palette.HSVRate,
	}
}

// Timing builds the animation time source. clock supplies seconds since
// some fixed start and is only consulted for the clock source.
func (c *Config) Timing(clock func() float64) (animation.Timing, error) {
	src, err := animation.ParseTimeSource(c.Animation.TimeSource)
	if err != nil {
		return animation.Timing{}, err
	}
	tm := animation.Timing{Source: src}
	if src == animation.Clock && clock != nil {
		rate := c.Animation.CycleRate
		tm.Clock = func() float64 { return clock() * rate }
	}
	return tm, nil
}
