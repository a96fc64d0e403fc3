package animation

import (
	"sync"

	"github.com/san-kum/fraczoom/internal/fractal"
)

// Session owns the live camera. Navigation replaces the view between frames
// and a Driver takes it over for the length of a recording.
type Session[V fractal.View[V]] struct {
	mu   sync.RWMutex
	view V
}

func NewSession[V fractal.View[V]](view V) (*Session[V], error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	return &Session[V]{view: view}, nil
}

// View returns a copy of the current camera.
func (s *Session[V]) View() V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Set replaces the camera. Invalid views are rejected and leave it unchanged.
func (s *Session[V]) Set(view V) error {
	if err := view.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return nil
}

// Apply runs a navigation operation against the current camera.
func (s *Session[V]) Apply(op func(V) (V, error)) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := op(s.view)
	if err != nil {
		return s.view, err
	}
	if err := next.Validate(); err != nil {
		return s.view, err
	}
	s.view = next
	return next, nil
}
