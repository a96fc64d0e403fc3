package animation_test

import (
	"iter"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fraczoom/internal/animation"
	"github.com/san-kum/fraczoom/internal/fractal"
)

const deepZoom = 1.264056845e15

func collect[V any](seq iter.Seq[animation.Frame[V]]) []animation.Frame[V] {
	var out []animation.Frame[V]
	for f := range seq {
		out = append(out, f)
	}
	return out
}

var _ = Describe("Interpolate", func() {
	var spec animation.Spec[fractal.ViewState2D]

	BeforeEach(func() {
		spec = animation.Spec[fractal.ViewState2D]{
			Start:         fractal.ViewState2D{CenterX: -0.7467745116055939, CenterY: -0.1071315080796475, Zoom: 1.0},
			End:           fractal.ViewState2D{CenterX: -0.7448109501771761, CenterY: -0.1071465558960558, Zoom: deepZoom},
			FrameCount:    900,
			MaxIterations: 1000,
		}
	})

	It("lands exactly on the start and end views", func() {
		seq, err := animation.Interpolate(spec, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())

		frames := collect(seq)
		Expect(frames).To(HaveLen(900))
		Expect(frames[0].View).To(Equal(spec.Start))
		Expect(frames[0].T).To(Equal(0.0))
		Expect(frames[899].View).To(Equal(spec.End))
		Expect(frames[899].T).To(Equal(1.0))
		Expect(frames[899].View.Zoom).To(Equal(deepZoom))
	})

	It("interpolates zoom linearly in log space", func() {
		seq, err := animation.Interpolate(spec, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())
		frames := collect(seq)

		// least squares fit of log(zoom) against t
		var st, sy, stt, sty float64
		n := float64(len(frames))
		for _, f := range frames {
			y := math.Log(f.View.Zoom)
			st += f.T
			sy += y
			stt += f.T * f.T
			sty += f.T * y
		}
		slope := (n*sty - st*sy) / (n*stt - st*st)
		intercept := (sy - slope*st) / n

		Expect(slope).To(BeNumerically("~", math.Log(deepZoom), 1e-9))
		Expect(intercept).To(BeNumerically("~", 0, 1e-9))
		for _, f := range frames {
			Expect(math.Log(f.View.Zoom)).To(BeNumerically("~", intercept+slope*f.T, 1e-9))
		}

		mid := frames[450]
		want := math.Exp(450.0 / 899.0 * math.Log(deepZoom))
		Expect(mid.View.Zoom / want).To(BeNumerically("~", 1, 1e-12))
	})

	It("puts the log-space midpoint on the middle frame of an odd-length path", func() {
		spec.FrameCount = 901
		seq, err := animation.Interpolate(spec, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())

		frames := collect(seq)
		want := math.Exp((math.Log(1.0) + math.Log(deepZoom)) / 2)
		Expect(frames[450].T).To(Equal(0.5))
		Expect(frames[450].View.Zoom / want).To(BeNumerically("~", 1, 1e-12))
		Expect(frames[450].View.Zoom).To(BeNumerically("<", (1.0+deepZoom)/1000))
	})

	It("moves the center linearly", func() {
		seq, err := animation.Interpolate(spec, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())
		for f := range seq {
			want := spec.Start.CenterX + f.T*(spec.End.CenterX-spec.Start.CenterX)
			Expect(f.View.CenterX).To(BeNumerically("~", want, 1e-15))
		}
	})

	It("is restartable and lazy", func() {
		seq, err := animation.Interpolate(spec, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())

		Expect(collect(seq)).To(Equal(collect(seq)))

		seen := 0
		for range seq {
			seen++
			if seen == 3 {
				break
			}
		}
		Expect(seen).To(Equal(3))
	})

	It("derives the color offset from the frame index", func() {
		seq, err := animation.Interpolate(spec, animation.Timing{Source: animation.FrameIndex})
		Expect(err).NotTo(HaveOccurred())
		for f := range seq {
			Expect(f.TimeOffset).To(Equal(float64(f.Index) / 900))
		}
	})

	It("reads the color offset from the clock when asked", func() {
		calls := 0
		clock := func() float64 { calls++; return 0.25 }
		seq, err := animation.Interpolate(spec, animation.Timing{Source: animation.Clock, Clock: clock})
		Expect(err).NotTo(HaveOccurred())
		for f := range seq {
			Expect(f.TimeOffset).To(Equal(0.25))
		}
		Expect(calls).To(Equal(900))
	})

	It("interpolates the bulb camera", func() {
		bulb := animation.Spec[fractal.ViewState3D]{
			Start:         fractal.DefaultViewState3D(),
			End:           fractal.ViewState3D{OffsetX: 1, OffsetZ: 0, ZoomFactor: 50, Power: 10},
			FrameCount:    3,
			MaxIterations: 100,
		}
		seq, err := animation.Interpolate(bulb, animation.Timing{})
		Expect(err).NotTo(HaveOccurred())
		frames := collect(seq)
		Expect(frames[0].View).To(Equal(bulb.Start))
		Expect(frames[2].View).To(Equal(bulb.End))
		Expect(float64(frames[1].View.ZoomFactor)).To(BeNumerically("~", 5, 1e-5))
		Expect(frames[1].View.OffsetZ).To(BeNumerically("~", -1, 1e-6))
	})

	DescribeTable("rejects invalid specs",
		func(mutate func(*animation.Spec[fractal.ViewState2D]), target error) {
			mutate(&spec)
			_, err := animation.Interpolate(spec, animation.Timing{})
			Expect(err).To(MatchError(target))
		},
		Entry("single frame", func(s *animation.Spec[fractal.ViewState2D]) { s.FrameCount = 1 }, fractal.ErrInvalidArgument),
		Entry("no iterations", func(s *animation.Spec[fractal.ViewState2D]) { s.MaxIterations = 0 }, fractal.ErrInvalidArgument),
		Entry("zero start zoom", func(s *animation.Spec[fractal.ViewState2D]) { s.Start.Zoom = 0 }, fractal.ErrInvalidState),
		Entry("negative end zoom", func(s *animation.Spec[fractal.ViewState2D]) { s.End.Zoom = -3 }, fractal.ErrInvalidState),
	)
})

var _ = Describe("ParseTimeSource", func() {
	It("parses known names", func() {
		Expect(animation.ParseTimeSource("frame")).To(Equal(animation.FrameIndex))
		Expect(animation.ParseTimeSource("clock")).To(Equal(animation.Clock))
		Expect(animation.Clock.String()).To(Equal("clock"))
	})

	It("rejects unknown names", func() {
		_, err := animation.ParseTimeSource("sundial")
		Expect(err).To(MatchError(fractal.ErrInvalidArgument))
	})
})
