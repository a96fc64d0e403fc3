package animation_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/compute"
	"github.com/san-kum/fraczoom/internal/fractal"
	"github.com/san-kum/fraczoom/internal/kernels"
	"github.com/san-kum/fraczoom/internal/palette"
	"github.com/san-kum/fraczoom/internal/render"
)

// recordingRenderer remembers every view and offset it was asked for.
type recordingRenderer struct {
	mu      sync.Mutex
	views   []fractal.ViewState2D
	offsets []float64
}

func (r *recordingRenderer) Render(ctx context.Context, view fractal.ViewState2D, opts render.Options) (*fractal.PixelBuffer, error) {
	r.mu.Lock()
	r.views = append(r.views, view)
	r.offsets = append(r.offsets, opts.TimeOffset)
	r.mu.Unlock()
	return fractal.NewPixelBuffer(opts.Width, opts.Height)
}

type memorySink struct {
	indices  []int
	failAt   int
	onWrite  func(index int)
	finished []bool
}

func (s *memorySink) WriteFrame(index int, buf *fractal.PixelBuffer) error {
	if s.failAt >= 0 && index == s.failAt {
		return errors.New("disk full")
	}
	s.indices = append(s.indices, index)
	if s.onWrite != nil {
		s.onWrite(index)
	}
	return nil
}

func (s *memorySink) Finish(complete bool) error {
	s.finished = append(s.finished, complete)
	return nil
}

var _ = Describe("Driver", func() {
	var (
		start, end fractal.ViewState2D
		session    *animation.Session[fractal.ViewState2D]
		renderer   *recordingRenderer
		sink       *memorySink
		spec       animation.Spec[fractal.ViewState2D]
	)

	BeforeEach(func() {
		start = fractal.ViewState2D{CenterX: -0.5, CenterY: 0, Zoom: 1}
		end = fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: 1e6}

		var err error
		session, err = animation.NewSession(start)
		Expect(err).NotTo(HaveOccurred())

		renderer = &recordingRenderer{}
		sink = &memorySink{failAt: -1}
		spec = animation.Spec[fractal.ViewState2D]{Start: start, End: end, FrameCount: 12, MaxIterations: 50}
	})

	It("writes a contiguous sequence and restores the camera", func() {
		var progress []int
		d := animation.NewDriver[fractal.ViewState2D](renderer, session, animation.Options{
			Width: 8, Height: 6, RestoreView: true,
			Progress: func(done, total int) {
				Expect(total).To(Equal(12))
				progress = append(progress, done)
			},
		})

		res, err := d.Run(context.Background(), spec, sink)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Complete).To(BeTrue())
		Expect(res.Frames).To(Equal(12))
		Expect(sink.indices).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
		Expect(sink.finished).To(Equal([]bool{true}))
		Expect(progress).To(HaveLen(12))
		Expect(session.View()).To(Equal(start))

		Expect(renderer.views[0]).To(Equal(start))
		Expect(renderer.views[11]).To(Equal(end))
		for j, off := range renderer.offsets {
			Expect(off).To(Equal(float64(j) / 12))
		}
	})

	It("leaves the camera on the end view when not restoring", func() {
		d := animation.NewDriver[fractal.ViewState2D](renderer, session, animation.Options{Width: 8, Height: 6})
		_, err := d.Run(context.Background(), spec, sink)
		Expect(err).NotTo(HaveOccurred())
		Expect(session.View()).To(Equal(end))
	})

	It("aborts on sink failure and marks the sequence incomplete", func() {
		sink.failAt = 5
		d := animation.NewDriver[fractal.ViewState2D](renderer, session, animation.Options{Width: 8, Height: 6})

		res, err := d.Run(context.Background(), spec, sink)
		Expect(err).To(MatchError(fractal.ErrSinkFailed))

		var fe *fractal.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Index).To(Equal(5))

		Expect(res.Complete).To(BeFalse())
		Expect(res.Frames).To(Equal(5))
		Expect(sink.indices).To(Equal([]int{0, 1, 2, 3, 4}))
		Expect(renderer.views).To(HaveLen(6))
		Expect(sink.finished).To(Equal([]bool{false}))
		Expect(session.View()).To(Equal(start))
	})

	It("stops between frames when canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sink.onWrite = func(index int) {
			if index == 2 {
				cancel()
			}
		}
		d := animation.NewDriver[fractal.ViewState2D](renderer, session, animation.Options{Width: 8, Height: 6})

		res, err := d.Run(ctx, spec, sink)
		Expect(err).To(MatchError(fractal.ErrCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Frames).To(Equal(3))
		Expect(sink.indices).To(Equal([]int{0, 1, 2}))
		Expect(sink.finished).To(Equal([]bool{false}))
		Expect(session.View()).To(Equal(start))
	})

	It("rejects a zero-area output before rendering", func() {
		d := animation.NewDriver[fractal.ViewState2D](renderer, session, animation.Options{Width: 0, Height: 6})
		_, err := d.Run(context.Background(), spec, sink)
		Expect(err).To(MatchError(fractal.ErrInvalidArgument))
		Expect(renderer.views).To(BeEmpty())
	})

	It("renders identical frames on repeated runs", func() {
		mapper, err := palette.New(palette.NameBands, palette.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		q := render.NewQuadratic(kernels.NewComplex(), mapper)
		q.Backend = compute.NewCPUBackend(2)

		capture := func() []*fractal.PixelBuffer {
			var bufs []*fractal.PixelBuffer
			s := &bufferSink{collect: func(b *fractal.PixelBuffer) { bufs = append(bufs, b) }}
			d := animation.NewDriver[fractal.ViewState2D](q, session, animation.Options{Width: 24, Height: 16, RestoreView: true})
			spec.FrameCount = 4
			_, err := d.Run(context.Background(), spec, s)
			Expect(err).NotTo(HaveOccurred())
			return bufs
		}

		a, b := capture(), capture()
		Expect(a).To(HaveLen(4))
		for i := range a {
			Expect(a[i].Equal(b[i])).To(BeTrue())
		}
	})
})

var _ = Describe("Session", func() {
	It("rejects invalid cameras", func() {
		_, err := animation.NewSession(fractal.ViewState2D{Zoom: 0})
		Expect(err).To(MatchError(fractal.ErrInvalidState))

		s, err := animation.NewSession(fractal.ViewState2D{Zoom: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Set(fractal.ViewState2D{Zoom: -1})).To(MatchError(fractal.ErrInvalidState))
		Expect(s.View().Zoom).To(Equal(1.0))
	})

	It("applies navigation operations", func() {
		s, err := animation.NewSession(fractal.ViewState2D{Zoom: 2})
		Expect(err).NotTo(HaveOccurred())

		v, err := s.Apply(func(v fractal.ViewState2D) (fractal.ViewState2D, error) { return v.ZoomByFactor(1.5) })
		Expect(err).NotTo(HaveOccurred())
		Expect(v.Zoom).To(Equal(3.0))

		_, err = s.Apply(func(v fractal.ViewState2D) (fractal.ViewState2D, error) { return v.ZoomByFactor(0) })
		Expect(err).To(MatchError(fractal.ErrInvalidArgument))
		Expect(s.View().Zoom).To(Equal(3.0))
	})
})

type bufferSink struct {
	collect func(*fractal.PixelBuffer)
}

func (s *bufferSink) WriteFrame(index int, buf *fractal.PixelBuffer) error {
	s.collect(buf)
	return nil
}
