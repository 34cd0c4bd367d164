package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/ternary-kernel/internal/alert"
	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/config"
	"github.com/danielpatrickdp/ternary-kernel/internal/engine"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/tally"
)

// #region main
func main() {
	cfg, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ternaryd: %v\n", err)
		os.Exit(1)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ternaryd: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("ternaryd stopped", zap.Error(err))
	}
}

// #endregion main

// #region run
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	for _, w := range cfg.Warnings() {
		logger.Warn("config", zap.String("warning", w))
	}

	store, err := ledger.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := tally.NewRecorder(reg)
	if err != nil {
		return err
	}

	alerts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ternary_alerts_total",
		Help: "Uncertainty spike alerts raised, by severity.",
	}, []string{"severity"})
	reg.MustRegister(alerts)

	monitor := alert.NewMonitor(cfg.AlertConfig(), logger)
	monitor.OnAlert(func(a alert.Alert) {
		alerts.WithLabelValues(string(a.Severity)).Inc()
	})

	var src resolve.Source
	if cfg.Seed != 0 {
		src = resolve.NewSeededSource(cfg.Seed)
	}

	eng, err := engine.New(engine.Options{
		Delta:    cfg.Delta,
		Source:   src,
		Recorder: recorder,
		Monitor:  monitor,
		Ledger:   store,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("new engine: %w", err)
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	codec.RegisterCodecServiceServer(grpcServer, codec.NewServer(eng, logger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("ternaryd ready",
		zap.String("grpc", cfg.GRPCAddr),
		zap.String("metrics", cfg.MetricsAddr),
		zap.String("db", cfg.DBPath),
		zap.Float64("delta", cfg.Delta),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		grpcServer.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	stats := recorder.Statistics()
	logger.Info("final tally",
		zap.Int("total", stats.Total),
		zap.Float64("success_rate", stats.SuccessRate),
		zap.Float64("uncertain_rate", stats.UncertainRate),
		zap.Int("alerts", monitor.Statistics().TotalAlerts),
	)
	return nil
}

// #endregion run
