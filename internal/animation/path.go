package animation

import (
	"fmt"
	"iter"
	"strings"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Spec describes one recording: FrameCount frames from Start to End.
type Spec[V any] struct {
	Start         V
	End           V
	FrameCount    int
	MaxIterations int
}

func validateSpec[V fractal.View[V]](s Spec[V]) error {
	if s.FrameCount < 2 {
		return fmt.Errorf("%w: frame count %d (need at least 2)", fractal.ErrInvalidArgument, s.FrameCount)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d", fractal.ErrInvalidArgument, s.MaxIterations)
	}
	if err := s.Start.Validate(); err != nil {
		return fmt.Errorf("start view: %w", err)
	}
	if err := s.End.Validate(); err != nil {
		return fmt.Errorf("end view: %w", err)
	}
	return nil
}

// TimeSource selects how the color-cycling offset advances.
type TimeSource int

const (
	// FrameIndex sets the offset of frame j to j/FrameCount, so a
	// recording cycles the palette exactly once.
	FrameIndex TimeSource = iota
	// Clock reads the offset from Timing.Clock, as the live display does.
	Clock
)

func (s TimeSource) String() string {
	switch s {
	case FrameIndex:
		return "frame"
	case Clock:
		return "clock"
	}
	return fmt.Sprintf("TimeSource(%d)", int(s))
}

// ParseTimeSource accepts "frame" or "clock".
func ParseTimeSource(s string) (TimeSource, error) {
	switch strings.ToLower(s) {
	case "", "frame", "frame_index":
		return FrameIndex, nil
	case "clock":
		return Clock, nil
	}
	return FrameIndex, fmt.Errorf("%w: unknown time source %q", fractal.ErrInvalidArgument, s)
}

// Timing computes per-frame color offsets. A nil Clock yields zero.
type Timing struct {
	Source TimeSource
	Clock  func() float64
}

// Offset returns the color offset for frame j of n.
func (tm Timing) Offset(j, n int) float64 {
	switch tm.Source {
	case Clock:
		if tm.Clock == nil {
			return 0
		}
		return tm.Clock()
	default:
		return float64(j) / float64(n)
	}
}

// Frame is one element of an interpolated path. T runs from exactly 0 on
// the first frame to exactly 1 on the last.
type Frame[V any] struct {
	Index      int
	T          float64
	View       V
	TimeOffset float64
}

// Interpolate validates spec and returns its frames as a lazy sequence.
// The sequence can be ranged over any number of times.
func Interpolate[V fractal.View[V]](spec Spec[V], timing Timing) (iter.Seq[Frame[V]], error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	n := spec.FrameCount
	return func(yield func(Frame[V]) bool) {
		for j := 0; j < n; j++ {
			if !yield(frameAt(spec, timing, j)) {
				return
			}
		}
	}, nil
}

func frameAt[V fractal.View[V]](spec Spec[V], timing Timing, j int) Frame[V] {
	n := spec.FrameCount
	t := float64(j) / float64(n-1)

	var view V
	switch j {
	case 0:
		view = spec.Start
	case n - 1:
		view = spec.End
	default:
		view = spec.Start.Interpolate(spec.End, t)
	}

	return Frame[V]{
		Index:      j,
		T:          t,
		View:       view,
		TimeOffset: timing.Offset(j, n),
	}
}
