// Package automation runs scripted sequences of recordings.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fraczoom/internal/config"
	"github.com/san-kum/fraczoom/internal/fractal"
)

// Scenario is an ordered list of recordings, e.g. a tour through several
// zoom targets.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overrides the base configuration for one recording. Unset fields
// keep the base value. A step without a start view continues from the
// previous step's end view when both run in the same mode.
type Step struct {
	Preset        string               `yaml:"preset"`
	Mode          string               `yaml:"mode"`
	Start         *fractal.ViewState2D `yaml:"start"`
	End           *fractal.ViewState2D `yaml:"end"`
	StartBulb     *fractal.ViewState3D `yaml:"start_bulb"`
	EndBulb       *fractal.ViewState3D `yaml:"end_bulb"`
	FrameCount    int                  `yaml:"frame_count"`
	MaxIterations int                  `yaml:"max_iterations"`
	Palette       string               `yaml:"palette"`
	SaveAs        string               `yaml:"save_as"`
}

// RunFunc records one fully resolved step.
type RunFunc func(ctx context.Context, cfg *config.Config) error

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", fractal.ErrInvalidArgument, scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the configuration of every step without running
// anything, so a broken scenario fails before the first frame.
func Resolve(scenario *Scenario, base *config.Config) ([]*config.Config, error) {
	configs := make([]*config.Config, 0, len(scenario.Steps))
	var prev *config.Config

	for i, step := range scenario.Steps {
		cfg, err := step.apply(base, prev)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if cfg.Animation.Name == "" && scenario.Name != "" {
			cfg.Animation.Name = fmt.Sprintf("%s_%02d", scenario.Name, i+1)
		}
		configs = append(configs, cfg)
		prev = cfg
	}
	return configs, nil
}

// RunScenario resolves and then runs every step in order. It stops at the
// first failing step.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, run RunFunc) (int, error) {
	configs, err := Resolve(scenario, base)
	if err != nil {
		return 0, err
	}

	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("%w: %w", fractal.ErrCanceled, err)
		}
		fractal.Logger().Info("scenario step", "scenario", scenario.Name, "step", i+1, "steps", len(configs), "mode", cfg.Mode)
		if err := run(ctx, cfg); err != nil {
			return i, fmt.Errorf("step %d run: %w", i+1, err)
		}
	}

	return len(configs), nil
}

func (s Step) apply(base, prev *config.Config) (*config.Config, error) {
	var cfg config.Config
	if s.Preset != "" {
		mode := s.Mode
		if mode == "" {
			mode = base.Mode
		}
		p := config.GetPreset(mode, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %s/%s", fractal.ErrInvalidArgument, mode, s.Preset)
		}
		cfg = *p
		cfg.Width, cfg.Height = base.Width, base.Height
		cfg.Backend, cfg.Workers = base.Backend, base.Workers
		cfg.Animation.OutputDir = base.Animation.OutputDir
		cfg.Animation.Supersample = base.Animation.Supersample
	} else {
		cfg = *base
	}
	cfg.Animation.Name = s.SaveAs

	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	continues := prev != nil && prev.Mode == cfg.Mode

	switch {
	case s.Start != nil:
		cfg.View = *s.Start
	case continues:
		cfg.View = prev.Animation.EndView
	}
	if s.End != nil {
		cfg.Animation.EndView = *s.End
	}

	switch {
	case s.StartBulb != nil:
		cfg.Bulb = *s.StartBulb
	case continues:
		cfg.Bulb = prev.Animation.EndBulb
	}
	if s.EndBulb != nil {
		cfg.Animation.EndBulb = *s.EndBulb
	}

	if s.FrameCount != 0 {
		cfg.Animation.FrameCount = s.FrameCount
	}
	if s.MaxIterations != 0 {
		cfg.MaxIterations = s.MaxIterations
	}
	if s.Palette != "" {
		cfg.Palette.Name = s.Palette
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
