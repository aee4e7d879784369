package mpsc

import (
	"errors"
	"fmt"
	"runtime"
)

// errGoexit is recorded as the poison value when a goroutine called
// runtime.Goexit while holding the channel lock.
var errGoexit = errors.New("mpsc: goroutine exited while holding the channel lock")

// PoisonError reports that a goroutine terminated abnormally while holding
// the channel lock. The queue and producer count may be inconsistent, so
// once a channel is poisoned every operation on any of its handles panics
// with the same *PoisonError.
type PoisonError struct {
	// Value is the value the critical section panicked with, or an error
	// describing a runtime.Goexit.
	Value any

	// Stack is the stack trace of the goroutine that poisoned the channel.
	Stack string
}

// Error returns the original panic value and the stack that caused it.
func (e *PoisonError) Error() string {
	return fmt.Sprintf("mpsc: channel poisoned: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns the original panic value if it was an error.
func (e *PoisonError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPoisonError(v any) *PoisonError {
	// 8 KiB is enough for most stack traces. runtime.Stack truncates
	// gracefully if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PoisonError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// locked runs fn while holding the channel lock.
//
// If fn panics or calls runtime.Goexit, the channel is poisoned: the lock
// is released, the consumer is woken so it can observe the poison, and the
// panic continues as a *PoisonError. If the channel is already poisoned,
// locked panics without running fn.
func (s *state[T]) locked(fn func()) {
	s.mu.Lock()
	if p := s.poison; p != nil {
		s.mu.Unlock()
		panic(p)
	}

	done := false
	defer func() {
		if done {
			return
		}
		r := recover()
		if s.poison == nil {
			switch v := r.(type) {
			case nil:
				s.poison = newPoisonError(errGoexit)
			case *PoisonError:
				s.poison = v
			default:
				s.poison = newPoisonError(v)
			}
		}
		p := s.poison
		s.mu.Unlock()
		s.cond.Broadcast()
		if r != nil {
			panic(p)
		}
	}()

	fn()
	done = true
	s.mu.Unlock()
}

// checkPoison panics with the channel's *PoisonError, if any. Handles call
// it on paths that otherwise return without taking the lock.
func (s *state[T]) checkPoison() {
	s.locked(func() {})
}
