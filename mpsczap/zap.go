// Package mpsczap logs mpsc channel lifecycle events with zap.
package mpsczap

import (
	"go.uber.org/zap"

	"github.com/baxromumarov/mpsc"
)

// Hook returns an event hook for [mpsc.WithOnEvent] that writes every event
// to logger. Clone and release events are logged at debug level; channel
// close and receiver close at info level. A nil logger discards events.
func Hook(logger *zap.Logger) func(mpsc.Event) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(e mpsc.Event) {
		fields := []zap.Field{
			zap.String("channel", e.Channel),
			zap.Stringer("event", e.Kind),
			zap.Int("producers", e.Producers),
		}

		switch e.Kind {
		case mpsc.EventClosed:
			logger.Info("mpsc channel closed", fields...)
		case mpsc.EventReceiverClosed:
			logger.Info("mpsc receiver closed", append(fields, zap.Int("dropped", e.Dropped))...)
		default:
			logger.Debug("mpsc sender "+e.Kind.String(), fields...)
		}
	}
}

// WithLogger is shorthand for mpsc.WithOnEvent(Hook(logger)).
func WithLogger(logger *zap.Logger) mpsc.Option {
	return mpsc.WithOnEvent(Hook(logger))
}

// LogStats writes a stats snapshot to logger at info level.
func LogStats(logger *zap.Logger, name string, st mpsc.Stats) {
	logger.Info("mpsc channel stats",
		zap.String("channel", name),
		zap.Int("producers", st.Producers),
		zap.Uint64("sent", st.Sent),
		zap.Uint64("received", st.Received),
		zap.Uint64("dropped", st.Dropped),
		zap.Uint64("pending", st.Pending),
		zap.Bool("closed", st.Closed),
	)
}
