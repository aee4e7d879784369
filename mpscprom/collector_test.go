package mpscprom

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/mpsc"
)

func TestCollectorExportsStats(t *testing.T) {
	tx, rx := mpsc.New[int]()
	sc := tx.Clone()
	tx.SendAll(1, 2, 3, 4)
	rx.Recv()

	c := NewCollector("jobs", rx)

	expected := `
# HELP mpsc_dropped_total Values discarded after the receiver was closed.
# TYPE mpsc_dropped_total counter
mpsc_dropped_total{channel="jobs"} 0
# HELP mpsc_pending Values sent but not yet received.
# TYPE mpsc_pending gauge
mpsc_pending{channel="jobs"} 3
# HELP mpsc_producers Number of live senders.
# TYPE mpsc_producers gauge
mpsc_producers{channel="jobs"} 2
# HELP mpsc_received_total Values handed to the receiver.
# TYPE mpsc_received_total counter
mpsc_received_total{channel="jobs"} 1
# HELP mpsc_sent_total Values accepted by senders.
# TYPE mpsc_sent_total counter
mpsc_sent_total{channel="jobs"} 4
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mpsc_dropped_total", "mpsc_pending", "mpsc_producers",
		"mpsc_received_total", "mpsc_sent_total",
	)
	require.NoError(t, err)

	tx.Close()
	sc.Close()
	rx.Close()

	expected = `
# HELP mpsc_closed 1 once every sender has been released.
# TYPE mpsc_closed gauge
mpsc_closed{channel="jobs"} 1
# HELP mpsc_dropped_total Values discarded after the receiver was closed.
# TYPE mpsc_dropped_total counter
mpsc_dropped_total{channel="jobs"} 3
`
	err = testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mpsc_closed", "mpsc_dropped_total",
	)
	require.NoError(t, err)
}

func TestCollectorRegisters(t *testing.T) {
	tx, rx := mpsc.New[string]()
	defer tx.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector("a", rx)))
	require.NoError(t, reg.Register(NewCollector("b", tx)), "distinct channel labels must not collide")

	assert.Equal(t, 14, testutil.CollectAndCount(reg))
}

type poisonedSource struct{}

func (poisonedSource) Stats() mpsc.Stats {
	panic(&mpsc.PoisonError{Value: "boom"})
}

func TestCollectorReportsPoisonAsError(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector("jobs", poisonedSource{})))

	var families int
	assert.NotPanics(t, func() {
		mfs, err := reg.Gather()
		assert.ErrorContains(t, err, "mpsc: channel poisoned: boom")
		families = len(mfs)
	})
	assert.Zero(t, families)
}
