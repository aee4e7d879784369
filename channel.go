package mpsc

import (
	"sync"
	"sync/atomic"
)

// state is shared by every handle of one channel. queue, producers, sent,
// dropped, rxClosed and poison are only touched under mu.
type state[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue     fifo[T]
	producers int
	sent      uint64
	dropped   uint64
	rxClosed  bool
	poison    *PoisonError

	// received is also bumped by the receiver's lock-free fast path.
	received atomic.Uint64

	cfg config
}

// New creates a channel and returns its only Receiver and a first Sender.
// Call [Sender.Clone] for every additional producer and [Sender.Close] on
// each of them when it is done; once every Sender is closed the Receiver
// reports end-of-stream after draining what was sent.
//
// Example:
//
//	tx, rx := mpsc.New[string]()
//	go func() {
//	    defer tx.Close()
//	    tx.Send("hello")
//	}()
//	for msg := range rx.All() {
//	    fmt.Println(msg)
//	}
func New[T any](opts ...Option) (*Sender[T], *Receiver[T]) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &state[T]{
		queue:     newFIFO[T](cfg.capacityHint),
		producers: 1,
		cfg:       cfg,
	}
	s.cond = sync.NewCond(&s.mu)

	return newSender(s), newReceiver(s)
}

// emit calls the onEvent hook if registered. It must not be called with
// the lock held.
func (s *state[T]) emit(kind EventKind, producers, dropped int) {
	if s.cfg.onEvent == nil {
		return
	}
	s.cfg.onEvent(Event{
		Kind:      kind,
		Channel:   s.cfg.name,
		Producers: producers,
		Dropped:   dropped,
	})
}

// release deregisters one producer and wakes the consumer when it was the
// last one.
func (s *state[T]) release() {
	var left int
	s.locked(func() {
		s.producers--
		left = s.producers
	})
	if left == 0 {
		s.cond.Signal()
	}

	s.emit(EventRelease, left, 0)
	if left == 0 {
		s.emit(EventClosed, 0, 0)
	}
}

// releaseUnreachable is the GC cleanup for a Sender that was never closed.
// A poisoned channel is left as is: there is no caller to report it to.
func (s *state[T]) releaseUnreachable() {
	defer ignorePoison()
	s.release()
}

// closeUnreachable is the GC cleanup for a Receiver that was never closed.
func (s *state[T]) closeUnreachable() {
	defer ignorePoison()
	s.closeReceiver(nil)
}

func ignorePoison() {
	if r := recover(); r != nil {
		if _, ok := r.(*PoisonError); !ok {
			panic(r)
		}
	}
}

// closeReceiver drops everything queued and makes later sends no-ops.
// It reports false if the receiver was already closed.
func (s *state[T]) closeReceiver(local *fifo[T]) bool {
	var (
		dropped   int
		producers int
		first     bool
	)
	s.locked(func() {
		if s.rxClosed {
			return
		}
		first = true
		producers = s.producers
		s.rxClosed = true
		dropped = s.queue.clear()
		if local != nil {
			dropped += local.clear()
		}
		s.dropped += uint64(dropped)
	})
	if !first {
		return false
	}

	s.emit(EventReceiverClosed, producers, dropped)
	return true
}
