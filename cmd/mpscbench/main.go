// Command mpscbench pushes values through an mpsc channel from several
// producers, checks per-producer ordering on the consumer side and reports
// throughput.
//
// Usage:
//
//	mpscbench                              # defaults
//	mpscbench -producers 8 -messages 1000000 # flags override the file
//	mpscbench -config bench.yaml -metrics-addr :9090
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mpscbench: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mpscbench", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	producers := fs.Int("producers", 0, "Number of concurrent producers")
	messages := fs.Int("messages", 0, "Values sent by each producer")
	batching := fs.Bool("batching", true, "Enable receiver batch transfer")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	logFormat := fs.String("log-format", "", "json or console")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "producers":
			cfg.Producers = *producers
		case "messages":
			cfg.Messages = *messages
		case "batching":
			cfg.Batching = *batching
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runLoad(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("run finished",
		zap.Int("producers", cfg.Producers),
		zap.Bool("batching", cfg.Batching),
		zap.Uint64("received", res.Received),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("msgs_per_sec", res.Rate()),
	)
	return nil
}

func newLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapConfig.Build()
}
