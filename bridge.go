package mpsc

import "context"

// Forward sends every value received from in to tx until in is closed or
// ctx is cancelled. Forward takes ownership of tx and releases it before
// returning, so the channel can close once all forwarders are done.
//
// It returns nil when in was closed, or the context error.
func Forward[T any](ctx context.Context, in <-chan T, tx *Sender[T]) error {
	defer tx.Close()

	for {
		select {
		case v, ok := <-in:
			if !ok {
				return nil
			}
			tx.Send(v)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Drain receives and discards values until end-of-stream and returns how
// many it discarded. Unlike [Receiver.Close] it waits for the senders to
// finish.
func Drain[T any](rx *Receiver[T]) int {
	var n int
	for range rx.All() {
		n++
	}
	return n
}
