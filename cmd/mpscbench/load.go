package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/mpsc"
	"github.com/baxromumarov/mpsc/mpscprom"
	"github.com/baxromumarov/mpsc/mpsczap"
)

// cancelCheckEvery is how many sends a producer makes between context checks.
const cancelCheckEvery = 1024

type message struct {
	producer int
	seq      int
}

// Result summarizes one load run.
type Result struct {
	Received uint64
	Elapsed  time.Duration
}

// Rate returns received values per second.
func (r Result) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Received) / r.Elapsed.Seconds()
}

// errOutOfOrder is returned when a producer's values arrive out of order.
var errOutOfOrder = errors.New("per-producer order violated")

func runLoad(ctx context.Context, cfg Config, logger *zap.Logger) (Result, error) {
	tx, rx := mpsc.New[message](
		mpsc.WithName("mpscbench"),
		mpsc.WithBatching(cfg.Batching),
		mpsczap.WithLogger(logger),
	)

	if cfg.MetricsAddr != "" {
		shutdown, err := serveMetrics(cfg.MetricsAddr, rx, logger)
		if err != nil {
			tx.Close()
			return Result{}, err
		}
		defer shutdown()
	}

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		w := tx.Clone()
		g.Go(func() error {
			defer w.Close()
			for seq := range cfg.Messages {
				if seq%cancelCheckEvery == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				w.Send(message{producer: p, seq: seq})
			}
			return nil
		})
	}
	tx.Close()

	next := make([]int, cfg.Producers)
	var received uint64
	var orderErr error
	for m := range rx.All() {
		received++
		if m.seq != next[m.producer] && orderErr == nil {
			orderErr = fmt.Errorf("%w: producer %d sent %d, expected %d",
				errOutOfOrder, m.producer, m.seq, next[m.producer])
		}
		next[m.producer] = m.seq + 1
	}

	res := Result{Received: received, Elapsed: time.Since(start)}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("producer: %w", err)
	}
	mpsczap.LogStats(logger, "mpscbench", rx.Stats())
	return res, orderErr
}

func serveMetrics(addr string, src mpscprom.StatsSource, logger *zap.Logger) (func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(mpscprom.NewCollector("mpscbench", src))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
