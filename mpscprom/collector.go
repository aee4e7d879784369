// Package mpscprom exports mpsc channel statistics to Prometheus.
package mpscprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/baxromumarov/mpsc"
)

// StatsSource is satisfied by *mpsc.Sender and *mpsc.Receiver.
type StatsSource interface {
	Stats() mpsc.Stats
}

type collector struct {
	src StatsSource

	producers *prometheus.Desc
	pending   *prometheus.Desc
	queued    *prometheus.Desc
	closed    *prometheus.Desc
	sent      *prometheus.Desc
	received  *prometheus.Desc
	dropped   *prometheus.Desc
}

// NewCollector returns a collector that snapshots src on every scrape. All
// series carry a constant "channel" label set to name.
func NewCollector(name string, src StatsSource) prometheus.Collector {
	labels := prometheus.Labels{"channel": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("mpsc", "", metric), help, nil, labels)
	}

	return &collector{
		src:       src,
		producers: desc("producers", "Number of live senders."),
		pending:   desc("pending", "Values sent but not yet received."),
		queued:    desc("queued", "Values in the shared queue."),
		closed:    desc("closed", "1 once every sender has been released."),
		sent:      desc("sent_total", "Values accepted by senders."),
		received:  desc("received_total", "Values handed to the receiver."),
		dropped:   desc("dropped_total", "Values discarded after the receiver was closed."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.producers
	ch <- c.pending
	ch <- c.queued
	ch <- c.closed
	ch <- c.sent
	ch <- c.received
	ch <- c.dropped
}

// Collect reports a poisoned channel as an invalid metric, so the scrape
// fails for this channel instead of crashing the process.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	st, err := snapshot(c.src)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.producers, err)
		return
	}

	var closed float64
	if st.Closed {
		closed = 1
	}

	ch <- prometheus.MustNewConstMetric(c.producers, prometheus.GaugeValue, float64(st.Producers))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending))
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(st.Queued))
	ch <- prometheus.MustNewConstMetric(c.closed, prometheus.GaugeValue, closed)
	ch <- prometheus.MustNewConstMetric(c.sent, prometheus.CounterValue, float64(st.Sent))
	ch <- prometheus.MustNewConstMetric(c.received, prometheus.CounterValue, float64(st.Received))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(st.Dropped))
}

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
