package fractal

import (
	"errors"
	"fmt"
)

// Domain errors for rendering and export operations.
var (
	// ErrInvalidState indicates a camera with a non-positive or non-finite zoom.
	ErrInvalidState = errors.New("fractal: invalid view state")

	// ErrInvalidArgument indicates a bad resolution, frame count or iteration cap.
	ErrInvalidArgument = errors.New("fractal: invalid argument")

	// ErrSinkFailed indicates a frame sink rejected a frame.
	ErrSinkFailed = errors.New("fractal: frame sink failed")

	// ErrCanceled indicates an animation run was interrupted between frames.
	ErrCanceled = errors.New("fractal: animation canceled")

	// ErrOutOfOrder indicates a frame index that breaks the contiguous sequence.
	ErrOutOfOrder = errors.New("fractal: frame out of order")
)

// FrameError wraps an error with the index of the frame that produced it.
type FrameError struct {
	Index   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
