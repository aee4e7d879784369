package mpsc

import (
	"errors"
	"iter"
	"runtime"
	"sync/atomic"
)

var (
	// ErrEmpty is returned by [Receiver.TryRecv] when nothing is queued but
	// at least one Sender is still live.
	ErrEmpty = errors.New("mpsc: channel is empty")

	// ErrClosed is returned by [Receiver.TryRecv] once every Sender has been
	// released and everything sent has been received, or after
	// [Receiver.Close].
	ErrClosed = errors.New("mpsc: channel is closed")
)

// Receiver is the consumer handle. It must be used by one goroutine at a
// time; overlapping calls panic.
//
// Receiver keeps a private buffer: when it takes the channel lock and finds
// several queued values it moves all of them into the buffer in one step,
// and later calls are served from the buffer without locking.
type Receiver[T any] struct {
	s       *state[T]
	local   fifo[T]
	busy    atomic.Bool
	closed  bool
	cleanup runtime.Cleanup
}

func newReceiver[T any](s *state[T]) *Receiver[T] {
	rx := &Receiver[T]{
		s:     s,
		local: newFIFO[T](s.cfg.capacityHint),
	}
	rx.cleanup = runtime.AddCleanup(rx, (*state[T]).closeUnreachable, s)
	return rx
}

func (rx *Receiver[T]) enter() {
	if !rx.busy.CompareAndSwap(false, true) {
		panic("mpsc: concurrent use of Receiver")
	}
}

func (rx *Receiver[T]) leave() {
	rx.busy.Store(false)
}

// Recv returns the next value, blocking until one is available. It returns
// ok == false once every Sender has been released and everything sent has
// been received; from then on every call returns ok == false.
//
// Recv panics with a [*PoisonError] if the channel is poisoned.
func (rx *Receiver[T]) Recv() (v T, ok bool) {
	rx.enter()
	defer rx.leave()

	if rx.closed {
		rx.s.checkPoison()
		return v, false
	}
	if rx.local.len() > 0 {
		rx.s.received.Add(1)
		return rx.local.pop(), true
	}

	s := rx.s
	s.locked(func() {
		for {
			if s.queue.len() > 0 {
				v, ok = rx.take(), true
				return
			}
			if s.producers == 0 {
				return
			}
			s.cond.Wait()
			if s.poison != nil {
				panic(s.poison)
			}
		}
	})
	return v, ok
}

// TryRecv is Recv without waiting. It returns [ErrEmpty] when nothing is
// queued yet and [ErrClosed] at end-of-stream.
func (rx *Receiver[T]) TryRecv() (v T, err error) {
	rx.enter()
	defer rx.leave()

	if rx.closed {
		rx.s.checkPoison()
		return v, ErrClosed
	}
	if rx.local.len() > 0 {
		rx.s.received.Add(1)
		return rx.local.pop(), nil
	}

	s := rx.s
	s.locked(func() {
		switch {
		case s.queue.len() > 0:
			v = rx.take()
		case s.producers == 0:
			err = ErrClosed
		default:
			err = ErrEmpty
		}
	})
	return v, err
}

// take pops the front of the shared queue and, with batching on, moves the
// rest into the local buffer. Must be called with the lock held and the
// local buffer empty.
func (rx *Receiver[T]) take() T {
	s := rx.s
	v := s.queue.pop()
	if s.cfg.batching && s.queue.len() > 0 {
		rx.local, s.queue = s.queue, rx.local
	}
	s.received.Add(1)
	return v
}

// All returns an iterator over received values. Iteration ends at
// end-of-stream, or when the loop body breaks; a later All or Recv picks up
// where it stopped.
//
//	for msg := range rx.All() {
//	    handle(msg)
//	}
func (rx *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := rx.Recv()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Close disposes of the receiver. Values still queued or buffered are
// dropped and every later send is discarded; senders are not affected and
// need not know. Close is idempotent.
func (rx *Receiver[T]) Close() {
	rx.enter()
	defer rx.leave()

	if rx.closed {
		rx.s.checkPoison()
		return
	}
	rx.closed = true
	rx.cleanup.Stop()
	rx.s.closeReceiver(&rx.local)
}

// Stats returns a snapshot of the channel rx belongs to.
func (rx *Receiver[T]) Stats() Stats {
	return rx.s.Stats()
}
