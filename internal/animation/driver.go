package animation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/render"
)

// Finisher is implemented by sinks that record whether a sequence
// completed. Finish is called exactly once per Run.
type Finisher interface {
	Finish(complete bool) error
}

// Options configures a Driver.
type Options struct {
	Width  int
	Height int

	// RestoreView puts the session camera back where it was when the run
	// started. Otherwise a successful run leaves it on the end view.
	RestoreView bool

	Timing Timing

	// Progress, if set, is called after each frame reaches the sink.
	Progress func(done, total int)
}

// Result summarizes a run.
type Result struct {
	Frames   int
	Complete bool
	Elapsed  time.Duration
}

// Driver renders interpolated paths into a frame sink.
type Driver[V fractal.View[V]] struct {
	renderer render.Renderer[V]
	session  *Session[V]
	opts     Options
}

func NewDriver[V fractal.View[V]](renderer render.Renderer[V], session *Session[V], opts Options) *Driver[V] {
	return &Driver[V]{renderer: renderer, session: session, opts: opts}
}

// Run renders every frame of spec and hands each to sink with a
// contiguous index starting at zero. Frame j+1 is not started before frame
// j was accepted. Cancellation is checked between frames. Any failure
// aborts the run, the sink is finished as incomplete and the session
// camera is restored.
func (d *Driver[V]) Run(ctx context.Context, spec Spec[V], sink fractal.FrameSink) (Result, error) {
	frames, err := Interpolate(spec, d.opts.Timing)
	if err != nil {
		return Result{}, err
	}
	if d.opts.Width <= 0 || d.opts.Height <= 0 {
		return Result{}, fmt.Errorf("%w: resolution %dx%d", fractal.ErrInvalidArgument, d.opts.Width, d.opts.Height)
	}

	log := fractal.Logger()
	snapshot := d.session.View()
	start := time.Now()
	res := Result{}

	log.Info("animation started", "frames", spec.FrameCount, "width", d.opts.Width, "height", d.opts.Height,
		"max_iterations", spec.MaxIterations, "time_source", d.opts.Timing.Source.String())

	runErr := func() error {
		for f := range frames {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", fractal.ErrCanceled, err)
			}
			if err := d.session.Set(f.View); err != nil {
				return &fractal.FrameError{Index: f.Index, Wrapped: err}
			}

			buf, err := d.renderer.Render(ctx, f.View, render.Options{
				Width:         d.opts.Width,
				Height:        d.opts.Height,
				MaxIterations: spec.MaxIterations,
				TimeOffset:    f.TimeOffset,
			})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					err = fmt.Errorf("%w: %w", fractal.ErrCanceled, err)
				}
				return &fractal.FrameError{Index: f.Index, Wrapped: err}
			}

			if err := sink.WriteFrame(f.Index, buf); err != nil {
				return &fractal.FrameError{Index: f.Index, Wrapped: fmt.Errorf("%w: %w", fractal.ErrSinkFailed, err)}
			}

			res.Frames++
			log.Debug("frame written", "index", f.Index, "t", f.T, "time_offset", f.TimeOffset)
			if d.opts.Progress != nil {
				d.opts.Progress(res.Frames, spec.FrameCount)
			}
		}
		return nil
	}()

	res.Complete = runErr == nil
	res.Elapsed = time.Since(start)

	if f, ok := sink.(Finisher); ok {
		if err := f.Finish(res.Complete); err != nil && runErr == nil {
			runErr = fmt.Errorf("%w: %w", fractal.ErrSinkFailed, err)
			res.Complete = false
		}
	}

	if runErr != nil || d.opts.RestoreView {
		if err := d.session.Set(snapshot); err != nil {
			return res, errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		log.Warn("animation aborted", "frames_written", res.Frames, "frames", spec.FrameCount, "error", runErr)
		return res, runErr
	}
	log.Info("animation finished", "frames", res.Frames, "elapsed", res.Elapsed)
	return res, nil
}
