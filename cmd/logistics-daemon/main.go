package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/logging"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/metrics"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/persistence"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/setup"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/database"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	configFlag := flag.String("config", "", "Path to config file (default: search ./, ./configs, /etc/overmind-logistics)")
	worldFlag := flag.String("world", "", "World file to simulate (overrides simulation.world_file)")
	flag.Parse()

	fmt.Println("Overmind Logistics Daemon v0.1.0")
	fmt.Println("================================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)
	if *worldFlag != "" {
		cfg.Simulation.WorldFile = *worldFlag
	}
	if cfg.Simulation.WorldFile == "" {
		log.Fatal("No world file configured: set simulation.world_file or pass --world")
	}

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Logging
	logger, closer, err := logging.NewLogrusLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithLogger(ctx, logger)

	// 2. Database
	fmt.Printf("Connecting to %s...\n", cfg.Database.Describe())
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 3. Repositories (nil clock = RealClock in production)
	// A database outage pauses downtime persistence instead of failing every tick
	memory, err := persistence.NewGuardedColonyMemory(
		persistence.NewGormColonyMemory(db, nil),
		persistence.NewCircuitBreaker(5, 30*time.Second, nil),
	)
	if err != nil {
		return err
	}
	spawnQueue := persistence.NewGormSpawnQueue(db, nil)
	reports := persistence.NewGormTickReportRepository(db)

	// 4. World
	fmt.Printf("Loading world %s...\n", cfg.Simulation.WorldFile)
	world, err := simulation.LoadWorld(cfg.Simulation.WorldFile)
	if err != nil {
		return err
	}
	fmt.Printf("World loaded: %v\n", world.ColonyNames())

	// 5. Metrics
	telemetry := logging.FanoutTelemetry{logging.NewLogTelemetry(logger)}
	var requestMetrics *metrics.RequestMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		transportMetrics := metrics.NewTransportMetricsCollector()
		if err := transportMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register transport metrics: %w", err)
		}
		metrics.SetGlobalTransportCollector(transportMetrics)

		gauge := metrics.NewTelemetryGauge()
		if err := gauge.Register(); err != nil {
			return fmt.Errorf("failed to register telemetry gauge: %w", err)
		}
		telemetry = append(telemetry, gauge)

		requestMetrics = metrics.NewRequestMetricsCollector()
		if err := requestMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register request metrics: %w", err)
		}
		fmt.Println("Metrics enabled")
	}

	// 6. Mediator and handlers
	med := mediator.NewMediator()
	if requestMetrics != nil {
		med.Use(metrics.PrometheusMiddleware(requestMetrics))
	}

	coordinator, sizer := setup.NewTransport(cfg.Logistics, world.Oracle(), telemetry, memory)
	registry := setup.NewHandlerRegistry(world, coordinator, sizer, spawnQueue, reports, nil)
	if err := registry.RegisterTransportHandlers(med); err != nil {
		return err
	}
	fmt.Println("Handlers registered")

	// 7. Tick loop and control plane
	runner := grpc.NewTickRunner(med, world, spawnQueue, grpc.TickRunnerConfig{
		Colonies:       cfg.Daemon.Colonies,
		Interval:       cfg.Daemon.TickInterval,
		FleetPlanEvery: cfg.Daemon.FleetPlanEvery,
		StepTimeout:    cfg.Simulation.StepTimeout,
	}, nil)

	daemonServer, err := grpc.NewDaemonServer(med, runner, cfg.Daemon.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error { return daemonServer.Serve(gctx) })
	if cfg.Metrics.Enabled {
		g.Go(func() error { return serveMetrics(gctx, cfg) })
	}

	fmt.Printf("Daemon running on %s (Ctrl+C to stop)\n", cfg.Daemon.SocketPath)
	return g.Wait()
}

func serveMetrics(ctx context.Context, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    cfg.Metrics.Address(),
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
