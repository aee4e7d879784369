package mpsc

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poison panics inside a critical section of s and returns the resulting
// *PoisonError.
func poison[T any](t *testing.T, s *state[T], v any) (pe *PoisonError) {
	t.Helper()
	defer func() {
		r := recover()
		var ok bool
		pe, ok = r.(*PoisonError)
		require.True(t, ok, "expected *PoisonError, got %T", r)
	}()
	s.locked(func() { panic(v) })
	return nil
}

func TestPanicUnderLockPoisons(t *testing.T) {
	tx, rx := New[int]()
	tx.Send(1)

	pe := poison(t, tx.s, "boom")
	assert.Equal(t, "boom", pe.Value)
	assert.Contains(t, pe.Stack, "goroutine")
	assert.Contains(t, pe.Error(), "mpsc: channel poisoned: boom")

	// Every later operation surfaces the same poison.
	ops := []struct {
		name string
		op   func()
	}{
		{"Send", func() { tx.Send(2) }},
		{"SendAll", func() { tx.SendAll(2, 3) }},
		{"Clone", func() { tx.Clone() }},
		{"Recv", func() { rx.Recv() }},
		{"TryRecv", func() { rx.TryRecv() }},
		{"Stats", func() { rx.Stats() }},
		{"Close", func() { tx.Close() }},
	}
	for _, tc := range ops {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				assert.Same(t, pe, recover())
			}()
			tc.op()
		})
	}
}

func TestPoisonOutlivesClose(t *testing.T) {
	tx, rx := New[int]()
	tx.Send(1)
	pe := poison(t, tx.s, "boom")

	// Closing a handle must not turn the poison into end-of-stream or
	// into a released-handle panic.
	ops := []struct {
		name string
		op   func()
	}{
		{"ReceiverClose", rx.Close},
		{"RecvAfterClose", func() { rx.Recv() }},
		{"TryRecvAfterClose", func() { rx.TryRecv() }},
		{"ReceiverCloseAgain", rx.Close},
		{"SenderClose", tx.Close},
		{"SendAfterClose", func() { tx.Send(2) }},
		{"CloneAfterClose", func() { tx.Clone() }},
		{"SenderCloseAgain", tx.Close},
	}
	for _, tc := range ops {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				assert.Same(t, pe, recover())
			}()
			tc.op()
		})
	}
}

func TestPoisonUnwrapsErrorValue(t *testing.T) {
	tx, _ := New[int]()
	cause := errors.New("invariant broken")

	pe := poison(t, tx.s, cause)
	assert.ErrorIs(t, pe, cause)

	other := poison(t, tx.s, "ignored")
	assert.Same(t, pe, other, "the first poison is kept")
}

func TestPoisonWakesBlockedReceiver(t *testing.T) {
	tx, rx := New[int]()

	got := make(chan any, 1)
	go func() {
		defer func() { got <- recover() }()
		rx.Recv()
	}()

	// Give the receiver time to block in Wait.
	time.Sleep(20 * time.Millisecond)
	pe := poison(t, tx.s, "boom")

	select {
	case r := <-got:
		assert.Same(t, pe, r)
	case <-time.After(time.Second):
		t.Fatal("blocked receiver did not observe the poison")
	}
}

func TestGoexitUnderLockPoisons(t *testing.T) {
	tx, _ := New[int]()

	done := make(chan struct{})
	go func() {
		defer close(done)
		tx.s.locked(func() { runtime.Goexit() })
	}()
	<-done

	defer func() {
		pe, ok := recover().(*PoisonError)
		require.True(t, ok)
		assert.ErrorIs(t, pe, errGoexit)
	}()
	tx.Send(1)
}

func TestPoisonedChannelCleanupDoesNotPanic(t *testing.T) {
	tx, _ := New[int]()
	poison(t, tx.s, "boom")

	assert.NotPanics(t, tx.s.releaseUnreachable)
	assert.NotPanics(t, tx.s.closeUnreachable)
}
