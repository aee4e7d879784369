package mpsc

// Stats is a point-in-time snapshot of a channel. Counters are cumulative
// since [New]. The snapshot may be stale by the time it is read when other
// goroutines keep using the channel.
type Stats struct {
	Producers int    // live senders
	Sent      uint64 // values accepted by Send/SendAll, including dropped ones
	Received  uint64 // values handed to the consumer
	Dropped   uint64 // values discarded because the receiver was closed
	Pending   uint64 // values sent but not yet received (shared queue + local buffer)
	Queued    int    // values in the shared queue only

	Closed         bool // every sender has been released
	ReceiverClosed bool // the receiver has been disposed
}

// Stats returns a snapshot of the channel. Safe to call concurrently.
func (s *state[T]) Stats() Stats {
	var st Stats
	s.locked(func() {
		st = Stats{
			Producers:      s.producers,
			Sent:           s.sent,
			Received:       s.received.Load(),
			Dropped:        s.dropped,
			Queued:         s.queue.len(),
			Closed:         s.producers == 0,
			ReceiverClosed: s.rxClosed,
		}
	})
	if done := st.Received + st.Dropped; done < st.Sent {
		st.Pending = st.Sent - done
	}
	return st
}
