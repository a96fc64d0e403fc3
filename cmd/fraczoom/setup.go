package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/config"
	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/kernels"
	"github.com/san-kum/fraczoom/internal/palette"
	"github.com/san-kum/fraczoom/internal/render"
	"github.com/san-kum/fraczoom/internal/storage"
)

func setupLogging() {
	if verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

// findPreset looks the name up under mode, or under every mode when mode
// is empty.
func findPreset(mode, name string) (*config.Config, error) {
	if mode != "" {
		if cfg := config.GetPreset(mode, name); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(mode))
	}
	modes := make([]string, 0, len(config.Presets))
	for m := range config.Presets {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		if cfg := config.GetPreset(m, name); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.DefaultConfig()

	if preset != "" {
		m := ""
		if flags.Changed("mode") {
			m = mode
		}
		p, err := findPreset(m, preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("mode") {
		cfg.Mode = mode
		if mode == config.ModeBulb && !flags.Changed("palette") && cfg.Palette.Name == palette.NameBands {
			cfg.Palette.Name = palette.NameBulb
		}
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("iter") {
		cfg.MaxIterations = maxIterations
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("palette") {
		cfg.Palette.Name = paletteName
	}
	if flags.Changed("legacy-channels") {
		cfg.Palette.ClampChannels = !legacyChannels
	}
	if flags.Changed("cx") {
		cfg.View.CenterX = centerX
	}
	if flags.Changed("cy") {
		cfg.View.CenterY = centerY
	}
	if flags.Changed("zoom") {
		cfg.View.Zoom = zoom
	}
	if flags.Changed("end-cx") {
		cfg.Animation.EndView.CenterX = endX
	}
	if flags.Changed("end-cy") {
		cfg.Animation.EndView.CenterY = endY
	}
	if flags.Changed("end-zoom") {
		cfg.Animation.EndView.Zoom = endZoom
	}
	if flags.Changed("power") {
		cfg.Bulb.Power = float32(power)
		cfg.Animation.EndBulb.Power = float32(power)
	}
	if flags.Changed("frames") {
		cfg.Animation.FrameCount = frames
	}
	if flags.Changed("time-source") {
		cfg.Animation.TimeSource = timeSource
	}
	if flags.Changed("supersample") {
		cfg.Animation.Supersample = supersample
	}
	if flags.Changed("out") {
		cfg.Animation.OutputDir = outputDir
	}
	if flags.Changed("name") {
		cfg.Animation.Name = recordingName
	}
	if flags.Changed("no-restore") {
		cfg.Animation.RestoreView = !noRestore
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func selectBackend(cfg *config.Config) error {
	b, err := compute.ByName(cfg.Backend, cfg.Workers)
	if err != nil {
		return err
	}
	compute.SetBackend(b)
	return nil
}

func newQuadratic(cfg *config.Config) (*render.Quadratic, error) {
	mapper, err := palette.New(cfg.Palette.Name, cfg.PaletteOptions())
	if err != nil {
		return nil, err
	}
	return render.NewQuadratic(kernels.NewComplex(), mapper), nil
}

func newBulb(cfg *config.Config) (*render.Bulb, error) {
	mapper, err := palette.New(cfg.Palette.Name, cfg.PaletteOptions())
	if err != nil {
		return nil, err
	}
	return render.NewBulb(kernels.NewBulb(), mapper), nil
}

func startClock() func() float64 {
	start := time.Now()
	return func() float64 { return time.Since(start).Seconds() }
}

// recorder binds a renderer and session to a frame sequence on disk.
type recorder[V fractal.View[V]] struct {
	cfg      *config.Config
	renderer render.Renderer[V]
	session  *animation.Session[V]
	end      V
}

func (r recorder[V]) metadata(start V) storage.RecordingMetadata {
	return storage.RecordingMetadata{
		ID:            r.cfg.Animation.Name,
		Mode:          r.cfg.Mode,
		Width:         r.cfg.Width,
		Height:        r.cfg.Height,
		Supersample:   r.cfg.Animation.Supersample,
		FrameCount:    r.cfg.Animation.FrameCount,
		MaxIterations: r.cfg.MaxIterations,
		TimeSource:    r.cfg.Animation.TimeSource,
		Palette:       r.cfg.Palette.Name,
		StartView:     start,
		EndView:       r.end,
	}
}

// Record exports the path from the session's current view to the
// configured end view.
func (r recorder[V]) Record(ctx context.Context, progress func(done, total int)) (animation.Result, *storage.Recording, error) {
	timing, err := r.cfg.Timing(startClock())
	if err != nil {
		return animation.Result{}, nil, err
	}

	start := r.session.View()
	ss := r.cfg.Animation.Supersample
	rec := storage.New(r.cfg.Animation.OutputDir).NewRecording(r.metadata(start))

	driver := animation.NewDriver(r.renderer, r.session, animation.Options{
		Width:       r.cfg.Width * ss,
		Height:      r.cfg.Height * ss,
		RestoreView: r.cfg.Animation.RestoreView,
		Timing:      timing,
		Progress:    progress,
	})
	spec := animation.Spec[V]{
		Start:         start,
		End:           r.end,
		FrameCount:    r.cfg.Animation.FrameCount,
		MaxIterations: r.cfg.MaxIterations,
	}
	res, err := driver.Run(ctx, spec, rec)
	return res, rec, err
}
