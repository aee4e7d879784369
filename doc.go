// Package mpsc provides an unbounded multi-producer, single-consumer
// channel.
//
// Unlike a native Go channel, an mpsc channel never blocks its senders and
// closes itself: the receiver sees end-of-stream once every producer handle
// has been released, so no goroutine has to own the close.
//
// # Creating a Channel
//
// [New] returns one [Sender] and the [Receiver]:
//
//	tx, rx := mpsc.New[int]()
//
//	for i := range 4 {
//	    w := tx.Clone()
//	    go func() {
//	        defer w.Close()
//	        w.Send(i)
//	    }()
//	}
//	tx.Close()
//
//	for v := range rx.All() {
//	    fmt.Println(v)
//	}
//
// # Producers
//
// [Sender.Send] appends a value and wakes the receiver. [Sender.SendAll]
// appends several values under one lock acquisition. [Sender.Clone]
// registers another producer; [Sender.Close] releases one. When the last
// producer is released the channel is closed for good: a released handle
// cannot be cloned, so nothing can reopen it.
//
// A Sender that is never closed is released when the garbage collector
// finds it unreachable. Do not rely on that for prompt shutdown; use
// `defer tx.Close()`.
//
// # The Consumer
//
// [Receiver.Recv] blocks until a value arrives or the channel is closed
// and drained, in which case it returns ok == false, now and on every
// later call. [Receiver.TryRecv] never waits. [Receiver.All] adapts the
// receiver to a range-over-func loop.
//
// Each time the receiver takes the lock it moves everything queued into a
// private buffer, so a burst of N values costs one lock acquisition on the
// consumer side. [WithBatching] turns this off.
//
// [Receiver.Close] disposes of the receiver. Later sends are discarded
// without error.
//
// # Ordering
//
// Values from one Sender arrive in the order they were sent. Values from
// different Senders arrive in the order their sends took the channel lock.
//
// # Poisoning
//
// If a goroutine panics or calls runtime.Goexit while holding the channel
// lock, the channel is poisoned and every later operation panics with a
// [*PoisonError]. End-of-stream is never reported as an error.
//
// # Observability
//
// [WithOnEvent] registers a hook for clone, release, close and receiver
// close events. [Sender.Stats] and [Receiver.Stats] return counter
// snapshots. The [github.com/baxromumarov/mpsc/mpsczap],
// [github.com/baxromumarov/mpsc/mpscprom] and
// [github.com/baxromumarov/mpsc/mpscotel] subpackages connect these to
// zap, Prometheus and OpenTelemetry.
package mpsc
