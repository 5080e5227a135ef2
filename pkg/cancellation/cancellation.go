// Package cancellation provides a shared one-way cancellation flag used to
// stop self-rescheduling loops and to mark whether such a loop is running.
package cancellation

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrCanceled is returned by Err once the source has been canceled.
var ErrCanceled = errors.New("operation canceled")

// Source is a cancellation flag that can be shared between goroutines.
// Once canceled it never returns to the running state.
type Source struct {
	canceled atomic.Bool

	doneOnce sync.Once
	done     chan struct{}
}

// New creates a source in the running (not canceled) state.
func New() *Source {
	return &Source{done: make(chan struct{})}
}

// NewCanceled creates a source that is already canceled. It serves as the
// sentinel for "nothing is running".
func NewCanceled() *Source {
	s := New()
	s.Cancel()
	return s
}

// Cancel marks the source as canceled. It is safe to call any number of
// times from any goroutine. It reports whether this call performed the
// transition, so exactly one caller observes true.
func (s *Source) Cancel() bool {
	if !s.canceled.CompareAndSwap(false, true) {
		return false
	}
	s.doneOnce.Do(func() { close(s.done) })
	return true
}

// IsCanceled reports whether Cancel has been called.
func (s *Source) IsCanceled() bool {
	return s.canceled.Load()
}

// Err returns ErrCanceled if the source is canceled and nil otherwise.
func (s *Source) Err() error {
	if s.IsCanceled() {
		return ErrCanceled
	}
	return nil
}

// Done returns a channel that is closed when the source is canceled.
func (s *Source) Done() <-chan struct{} {
	return s.done
}
