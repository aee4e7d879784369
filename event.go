package mpsc

import "fmt"

// EventKind identifies a handle lifecycle change.
type EventKind int

const (
	// EventClone means a Sender was cloned; Producers includes the new handle.
	EventClone EventKind = iota
	// EventRelease means a Sender was released, explicitly or by the GC.
	EventRelease
	// EventClosed means the last Sender was released. The channel is closed
	// for good; the receiver still drains what is left.
	EventClosed
	// EventReceiverClosed means the Receiver was disposed. Later sends are
	// discarded.
	EventReceiverClosed
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventClone:
		return "clone"
	case EventRelease:
		return "release"
	case EventClosed:
		return "closed"
	case EventReceiverClosed:
		return "receiver_closed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is passed to the hook registered with [WithOnEvent].
type Event struct {
	Kind EventKind

	// Channel is the name given with [WithName], or "".
	Channel string

	// Producers is the number of live senders right after the change.
	Producers int

	// Dropped is the number of values discarded by the change. Only set for
	// EventReceiverClosed.
	Dropped int
}
