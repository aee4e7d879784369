package mpsc

import (
	"runtime"
	"sync/atomic"
)

// Sender is a producer handle. Any number of goroutines may send on the
// same Sender concurrently; give a goroutine its own handle with
// [Sender.Clone] when it should independently keep the channel open.
//
// The channel closes when every Sender has been released with
// [Sender.Close]. A Sender that is dropped without Close is released once
// the garbage collector finds it unreachable, but closure then depends on
// GC timing; `defer tx.Close()` is the reliable form.
type Sender[T any] struct {
	s        *state[T]
	released atomic.Bool
	cleanup  runtime.Cleanup
}

func newSender[T any](s *state[T]) *Sender[T] {
	tx := &Sender[T]{s: s}
	tx.cleanup = runtime.AddCleanup(tx, (*state[T]).releaseUnreachable, s)
	return tx
}

func (tx *Sender[T]) mustBeLive() {
	if tx.released.Load() {
		tx.s.checkPoison()
		panic("mpsc: use of released Sender")
	}
}

// Send appends v to the channel and wakes the receiver. It never blocks on
// capacity. If the receiver has been closed, v is discarded.
//
// Send panics if tx has been released, or with a [*PoisonError] if the
// channel is poisoned.
func (tx *Sender[T]) Send(v T) {
	tx.mustBeLive()

	s := tx.s
	s.locked(func() {
		s.sent++
		if s.rxClosed {
			s.dropped++
			return
		}
		s.queue.push(v)
	})
	s.cond.Signal()
	runtime.KeepAlive(tx)
}

// SendAll appends vs in order under a single lock acquisition, so no other
// producer's value lands between them.
func (tx *Sender[T]) SendAll(vs ...T) {
	tx.mustBeLive()
	if len(vs) == 0 {
		return
	}

	s := tx.s
	s.locked(func() {
		s.sent += uint64(len(vs))
		if s.rxClosed {
			s.dropped += uint64(len(vs))
			return
		}
		s.queue.pushAll(vs)
	})
	s.cond.Signal()
	runtime.KeepAlive(tx)
}

// Clone registers a new producer and returns its handle. The channel stays
// open until the clone is released too.
//
// Clone panics if tx has been released: a released handle cannot reopen a
// channel.
func (tx *Sender[T]) Clone() *Sender[T] {
	tx.mustBeLive()

	s := tx.s
	var live int
	s.locked(func() {
		if s.producers == 0 {
			return
		}
		s.producers++
		live = s.producers
	})
	runtime.KeepAlive(tx)
	if live == 0 {
		// tx was released concurrently with this call.
		panic("mpsc: use of released Sender")
	}

	// The cleanup must be registered before the hook runs: if the hook
	// panics, the unreturned handle still releases the increment.
	clone := newSender(s)
	s.emit(EventClone, live, 0)
	return clone
}

// Close releases tx. When it is the last live Sender the channel closes
// and a receiver blocked in Recv wakes up to observe end-of-stream.
// Close is idempotent, except that it panics with the [*PoisonError] of a
// poisoned channel on every call.
func (tx *Sender[T]) Close() {
	if tx.released.Swap(true) {
		tx.s.checkPoison()
		return
	}
	tx.cleanup.Stop()
	tx.s.release()
}

// Stats returns a snapshot of the channel tx belongs to.
func (tx *Sender[T]) Stats() Stats {
	return tx.s.Stats()
}
