package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/plainvanilla/portal/internal/activity"
	"github.com/plainvanilla/portal/internal/config"
	"github.com/plainvanilla/portal/internal/db"
	"github.com/plainvanilla/portal/internal/graph"
	"github.com/plainvanilla/portal/internal/logging"
	"github.com/plainvanilla/portal/internal/metrics"
	"github.com/plainvanilla/portal/internal/provision"
	"github.com/plainvanilla/portal/internal/workflow"
)

const taskQueue = "portal-tasks"

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg, "worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(pool)

	tc, err := temporalclient.Dial(temporalclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	gc := graph.NewClient(ctx, cfg)
	orch := provision.New(gc, provision.Config{
		GroupWait:   cfg.GroupWait,
		StepTimeout: 2 * time.Minute,
	}, logger)

	w := worker.New(tc, taskQueue, worker.Options{})

	// Register activities
	w.RegisterActivity(activity.NewCoreDB(pool))
	w.RegisterActivity(activity.NewM365(orch))

	// Register workflows
	w.RegisterWorkflow(workflow.ProvisionM365Workflow)

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", taskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}
