// Package mpscotel reports mpsc channel statistics through OpenTelemetry
// observable instruments.
package mpscotel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/baxromumarov/mpsc"
)

// StatsSource is satisfied by *mpsc.Sender and *mpsc.Receiver.
type StatsSource interface {
	Stats() mpsc.Stats
}

// Register creates the mpsc instruments on meter and a callback that
// observes src on every collection, tagged with channel=name. Unregister
// the returned registration when the channel is gone. A poisoned channel
// makes the callback return its *mpsc.PoisonError.
func Register(meter metric.Meter, name string, src StatsSource) (metric.Registration, error) {
	producers, err := meter.Int64ObservableGauge(
		"mpsc.producers",
		metric.WithDescription("Number of live senders"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating producers gauge: %w", err)
	}

	pending, err := meter.Int64ObservableGauge(
		"mpsc.pending",
		metric.WithDescription("Values sent but not yet received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pending gauge: %w", err)
	}

	sent, err := meter.Int64ObservableCounter(
		"mpsc.sent",
		metric.WithDescription("Values accepted by senders"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sent counter: %w", err)
	}

	received, err := meter.Int64ObservableCounter(
		"mpsc.received",
		metric.WithDescription("Values handed to the receiver"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating received counter: %w", err)
	}

	dropped, err := meter.Int64ObservableCounter(
		"mpsc.dropped",
		metric.WithDescription("Values discarded after the receiver was closed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("channel", name))
	reg, err := meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			st, err := snapshot(src)
			if err != nil {
				return err
			}
			o.ObserveInt64(producers, int64(st.Producers), attrs)
			o.ObserveInt64(pending, int64(st.Pending), attrs)
			o.ObserveInt64(sent, int64(st.Sent), attrs)
			o.ObserveInt64(received, int64(st.Received), attrs)
			o.ObserveInt64(dropped, int64(st.Dropped), attrs)
			return nil
		},
		producers, pending, sent, received, dropped,
	)
	if err != nil {
		return nil, fmt.Errorf("registering stats callback: %w", err)
	}
	return reg, nil
}

// snapshot turns the *mpsc.PoisonError panic of a poisoned channel into an
// error for the collection.
func snapshot(src StatsSource) (st mpsc.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*mpsc.PoisonError)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()
	return src.Stats(), nil
}
