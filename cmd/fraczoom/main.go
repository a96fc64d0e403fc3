package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/automation"
	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/config"
	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/render"
	"github.com/san-kum/fraczoom/internal/storage"
	"github.com/san-kum/fraczoom/internal/viz"
)

var (
	configFile     string
	preset         string
	verbose        bool
	mode           string
	width          int
	height         int
	maxIterations  int
	backendName    string
	workers        int
	paletteName    string
	legacyChannels bool
	centerX        float64
	centerY        float64
	zoom           float64
	endX           float64
	endY           float64
	endZoom        float64
	power          float64
	frames         int
	timeSource     string
	supersample    int
	outputDir      string
	recordingName  string
	noRestore      bool
	pathRows       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fraczoom",
		Short:         "escape-time fractal explorer and zoom recorder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: runExplore,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	pf.StringVar(&mode, "mode", config.ModeQuadratic, "fractal: quadratic or bulb")
	pf.IntVar(&width, "width", config.DefaultWidth, "output width in pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "output height in pixels")
	pf.IntVar(&maxIterations, "iter", config.DefaultMaxIterations, "iteration cap")
	pf.StringVar(&backendName, "backend", "auto", "compute backend: auto, cpu or serial")
	pf.IntVar(&workers, "workers", 0, "worker count (0 = all cores)")
	pf.StringVar(&paletteName, "palette", "bands", "palette: bands, bulb or hsv")
	pf.BoolVar(&legacyChannels, "legacy-channels", false, "wrap out of range channels instead of clamping")
	pf.Float64Var(&centerX, "cx", 0, "start center x")
	pf.Float64Var(&centerY, "cy", 0, "start center y")
	pf.Float64Var(&zoom, "zoom", 1, "start zoom")
	pf.Float64Var(&power, "power", 10, "bulb power")

	recordFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.Float64Var(&endX, "end-cx", 0, "end center x")
		f.Float64Var(&endY, "end-cy", 0, "end center y")
		f.Float64Var(&endZoom, "end-zoom", 0, "end zoom")
		f.IntVar(&frames, "frames", config.DefaultFrameCount, "frame count (>= 2)")
		f.StringVar(&timeSource, "time-source", "frame", "color cycling source: frame or clock")
	}

	renderCmd := &cobra.Command{
		Use:   "render [output.png]",
		Short: "render the start view to a png",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderImage,
	}
	renderCmd.Flags().IntVar(&supersample, "supersample", 1, "render at n times the resolution and downscale")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a zoom animation as a png sequence",
		RunE:  recordAnimation,
	}
	recordFlags(recordCmd)
	recordCmd.Flags().IntVar(&supersample, "supersample", 1, "render at n times the resolution and downscale")
	recordCmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "recordings directory")
	recordCmd.Flags().StringVar(&recordingName, "name", "", "recording directory name")
	recordCmd.Flags().BoolVar(&noRestore, "no-restore", false, "leave the camera on the end view")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "plot the interpolated camera path without rendering",
		RunE:  plotPath,
	}
	recordFlags(pathCmd)
	pathCmd.Flags().IntVar(&pathRows, "rows", 5, "sample rows to print")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}
	listCmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "recordings directory")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame rendering",
		RunE:  benchRender,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	recordFlags(configCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive terminal explorer",
		RunE:  runExplore,
	}
	recordFlags(exploreCmd)
	exploreCmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "recordings directory")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "record every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&supersample, "supersample", 1, "render at n times the resolution and downscale")
	scenarioCmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "recordings directory")

	rootCmd.AddCommand(exploreCmd, renderCmd, recordCmd, pathCmd, listCmd, presetsCmd, benchCmd, configCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := selectBackend(cfg); err != nil {
		return err
	}

	if cfg.Mode == config.ModeBulb {
		r, err := newBulb(cfg)
		if err != nil {
			return err
		}
		session, err := animation.NewSession(cfg.Bulb)
		if err != nil {
			return err
		}
		nav := viz.BulbNav{Move: cfg.Navigation.BulbMove, ZoomStep: cfg.Navigation.BulbZoomStep}
		rec := recorder[fractal.ViewState3D]{cfg: cfg, renderer: r, session: session, end: cfg.Animation.EndBulb}
		return explore[fractal.ViewState3D](cfg, r, session, nav, rec)
	}

	r, err := newQuadratic(cfg)
	if err != nil {
		return err
	}
	session, err := animation.NewSession(cfg.View)
	if err != nil {
		return err
	}
	nav := viz.QuadraticNav{PanStep: cfg.Navigation.PanStep, ZoomStep: cfg.Navigation.ZoomStep}
	rec := recorder[fractal.ViewState2D]{cfg: cfg, renderer: r, session: session, end: cfg.Animation.EndView}
	return explore[fractal.ViewState2D](cfg, r, session, nav, rec)
}

func explore[V fractal.View[V]](cfg *config.Config, r render.Renderer[V], session *animation.Session[V], nav viz.Navigator[V], rec recorder[V]) error {
	m := viz.NewExplorer(viz.Options[V]{
		Renderer:      r,
		Session:       session,
		Navigator:     nav,
		MaxIterations: cfg.MaxIterations,
		CycleRate:     cfg.Animation.CycleRate,
		Record: func(ctx context.Context, progress func(done, total int)) (animation.Result, error) {
			res, _, err := rec.Record(ctx, progress)
			return res, err
		},
	})
	return m.Run()
}

func renderImage(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := selectBackend(cfg); err != nil {
		return err
	}
	ss := cfg.Animation.Supersample

	out := fmt.Sprintf("%s_%d.png", cfg.Mode, time.Now().Unix())
	if len(args) > 0 {
		out = args[0]
	}

	opts := render.Options{
		Width:         cfg.Width * ss,
		Height:        cfg.Height * ss,
		MaxIterations: cfg.MaxIterations,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	var buf *fractal.PixelBuffer
	if cfg.Mode == config.ModeBulb {
		r, err := newBulb(cfg)
		if err != nil {
			return err
		}
		buf, err = r.Render(ctx, cfg.Bulb, opts)
		if err != nil {
			return err
		}
	} else {
		r, err := newQuadratic(cfg)
		if err != nil {
			return err
		}
		buf, err = r.Render(ctx, cfg.View, opts)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	if ss > 1 {
		err = storage.SavePNG(out, storage.Downscale(buf, cfg.Width, cfg.Height))
	} else {
		err = storage.SavePNG(out, buf)
	}
	if err != nil {
		return err
	}

	fmt.Printf("rendered %dx%d in %v\n", cfg.Width, cfg.Height, elapsed.Round(time.Millisecond))
	fmt.Printf("saved %s\n", out)
	return nil
}

func recordAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := selectBackend(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := func(done, total int) {
		fmt.Printf("\rframe %d/%d", done, total)
	}

	res, rec, err := runRecording(ctx, cfg, progress)
	fmt.Println()

	if rec != nil {
		fmt.Printf("recording: %s\n", rec.Dir())
	}
	if err != nil {
		if errors.Is(err, fractal.ErrCanceled) {
			fmt.Printf("canceled after %d frames (marked incomplete)\n", res.Frames)
			return nil
		}
		return err
	}

	fps := float64(res.Frames) / res.Elapsed.Seconds()
	fmt.Printf("completed %d frames in %v (%.2f frames/sec)\n", res.Frames, res.Elapsed.Round(time.Millisecond), fps)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := selectBackend(base); err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	start := time.Now()
	done, err := automation.RunScenario(ctx, sc, base, func(ctx context.Context, cfg *config.Config) error {
		res, rec, err := runRecording(ctx, cfg, func(d, total int) {
			fmt.Printf("\r%s: frame %d/%d", cfg.Animation.Name, d, total)
		})
		fmt.Println()
		if rec != nil {
			fmt.Printf("  %s (%d frames)\n", rec.Dir(), res.Frames)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("scenario stopped after %d steps: %w", done, err)
	}
	fmt.Printf("completed %d steps in %v\n", done, time.Since(start).Round(time.Millisecond))
	return nil
}

func runRecording(ctx context.Context, cfg *config.Config, progress func(done, total int)) (animation.Result, *storage.Recording, error) {
	if cfg.Mode == config.ModeBulb {
		r, err := newBulb(cfg)
		if err != nil {
			return animation.Result{}, nil, err
		}
		session, err := animation.NewSession(cfg.Bulb)
		if err != nil {
			return animation.Result{}, nil, err
		}
		return recorder[fractal.ViewState3D]{cfg: cfg, renderer: r, session: session, end: cfg.Animation.EndBulb}.Record(ctx, progress)
	}

	r, err := newQuadratic(cfg)
	if err != nil {
		return animation.Result{}, nil, err
	}
	session, err := animation.NewSession(cfg.View)
	if err != nil {
		return animation.Result{}, nil, err
	}
	return recorder[fractal.ViewState2D]{cfg: cfg, renderer: r, session: session, end: cfg.Animation.EndView}.Record(ctx, progress)
}

func plotPath(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	timing, err := cfg.Timing(nil)
	if err != nil {
		return err
	}

	if cfg.Mode == config.ModeBulb {
		spec := animation.Spec[fractal.ViewState3D]{Start: cfg.Bulb, End: cfg.Animation.EndBulb, FrameCount: cfg.Animation.FrameCount, MaxIterations: cfg.MaxIterations}
		return printPath(spec, timing, func(v fractal.ViewState3D) (float64, float64, float64) {
			return float64(v.ZoomFactor), float64(v.OffsetX), float64(v.OffsetZ)
		}, [3]string{"log10(zoom factor)", "offset x", "offset z"})
	}

	spec := animation.Spec[fractal.ViewState2D]{Start: cfg.View, End: cfg.Animation.EndView, FrameCount: cfg.Animation.FrameCount, MaxIterations: cfg.MaxIterations}
	return printPath(spec, timing, func(v fractal.ViewState2D) (float64, float64, float64) {
		return v.Zoom, v.CenterX, v.CenterY
	}, [3]string{"log10(zoom)", "center x", "center y"})
}

func printPath[V fractal.View[V]](spec animation.Spec[V], timing animation.Timing, fields func(V) (float64, float64, float64), captions [3]string) error {
	seq, err := animation.Interpolate(spec, timing)
	if err != nil {
		return err
	}

	series := [3][]float64{}
	every := max(1, spec.FrameCount/max(1, pathRows-1))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tT\tOFFSET\tVIEW")
	for f := range seq {
		z, a, b := fields(f.View)
		series[0] = append(series[0], math.Log10(z))
		series[1] = append(series[1], a)
		series[2] = append(series[2], b)
		if f.Index%every == 0 || f.Index == spec.FrameCount-1 {
			fmt.Fprintf(w, "%d\t%.6f\t%.4f\t%+v\n", f.Index, f.T, f.TimeOffset, f.View)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	for i, data := range series {
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[i]),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	st := storage.New(outputDir)
	recs, err := st.List()
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tSIZE\tFRAMES\tITER\tSTATUS")
	for _, r := range recs {
		status := "complete"
		if !r.Complete {
			status = "incomplete"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d/%d\t%d\t%s\n",
			r.ID,
			r.Mode,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Width, r.Height,
			r.FramesWritten, r.FrameCount,
			r.MaxIterations,
			status,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	modes := []string{config.ModeQuadratic, config.ModeBulb}
	if len(args) > 0 {
		modes = args[:1]
	}
	for _, m := range modes {
		names := config.ListPresets(m)
		if len(names) == 0 {
			fmt.Printf("no presets for mode: %s\n", m)
			continue
		}
		fmt.Printf("presets for %s:\n", m)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			p := config.GetPreset(m, name)
			if m == config.ModeBulb {
				fmt.Fprintf(w, "  %s\t%+v\t%d frames\n", name, p.Animation.EndBulb, p.Animation.FrameCount)
			} else {
				fmt.Fprintf(w, "  %s\t(%.17g, %.17g)\tzoom %g\t%d frames\n", name,
					p.Animation.EndView.CenterX, p.Animation.EndView.CenterY, p.Animation.EndView.Zoom, p.Animation.FrameCount)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func benchRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sizes := [][2]int{{200, 150}, {400, 300}, {800, 600}}
	backends := []compute.Backend{compute.NewSerialBackend(), compute.NewCPUBackend(cfg.Workers)}

	fmt.Printf("benchmarking %s (%d iterations)\n\n", cfg.Mode, cfg.MaxIterations)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tBACKEND\tWORKERS\tTIME\tMPIX/SEC")

	for _, size := range sizes {
		opts := render.Options{Width: size[0], Height: size[1], MaxIterations: cfg.MaxIterations}
		for _, b := range backends {
			start := time.Now()
			if cfg.Mode == config.ModeBulb {
				r, err := newBulb(cfg)
				if err != nil {
					return err
				}
				r.Backend = b
				_, err = r.Render(context.Background(), cfg.Bulb, opts)
				if err != nil {
					return err
				}
			} else {
				r, err := newQuadratic(cfg)
				if err != nil {
					return err
				}
				r.Backend = b
				_, err = r.Render(context.Background(), cfg.View, opts)
				if err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			mpix := float64(size[0]*size[1]) / 1e6 / elapsed.Seconds()
			fmt.Fprintf(w, "%dx%d\t%s\t%d\t%v\t%.2f\n", size[0], size[1], b.Name(), b.Workers(), elapsed.Round(time.Microsecond), mpix)
		}
	}
	return w.Flush()
}
