package mpsc

type config struct {
	name         string
	batching     bool
	capacityHint int
	onEvent      func(Event)
}

// Option configures a channel created by [New].
type Option func(*config)

func defaultConfig() config {
	return config{
		batching: true,
	}
}

// WithName labels the channel. The name is carried in every [Event] and
// used by the metrics adapters to tell channels apart.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithBatching controls whether the receiver moves the whole shared queue
// into its private buffer each time it takes the lock. Batching is on by
// default. Turning it off makes every Recv on an empty local buffer take
// the lock, which only changes performance, never delivery order.
func WithBatching(enabled bool) Option {
	return func(c *config) {
		c.batching = enabled
	}
}

// WithCapacityHint preallocates room for n queued values in the shared
// queue and in the receiver's local buffer. It is not a bound: the channel
// stays unbounded.
// WithCapacityHint panics if n is negative.
func WithCapacityHint(n int) Option {
	if n < 0 {
		panic("mpsc: WithCapacityHint requires n >= 0")
	}
	return func(c *config) {
		c.capacityHint = n
	}
}

// WithOnEvent registers a hook invoked for every handle lifecycle change
// (see [EventKind]). The hook runs on the goroutine that caused the event,
// after the channel lock has been released, so it may call back into the
// channel. Hooks from different goroutines may run concurrently.
// WithOnEvent panics if fn is nil.
func WithOnEvent(fn func(Event)) Option {
	if fn == nil {
		panic("mpsc: WithOnEvent requires non-nil callback")
	}
	return func(c *config) {
		c.onEvent = fn
	}
}
