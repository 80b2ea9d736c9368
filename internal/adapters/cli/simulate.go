package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/logging"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/persistence"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/setup"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

// offlineStack is the daemon wiring without database, socket or metrics
type offlineStack struct {
	world  *simulation.World
	client *grpc.DaemonClientLocal
	logger common.ContainerLogger
}

func newOfflineStack(cfg *config.Config, worldFile string) (*offlineStack, error) {
	world, err := simulation.LoadWorld(worldFile)
	if err != nil {
		return nil, err
	}

	logger, _, err := logging.NewLogrusLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	spawns := persistence.NewMemorySpawnQueue()
	coordinator, sizer := setup.NewTransport(cfg.Logistics, world.Oracle(), logging.NewLogTelemetry(logger), nil)

	med := mediator.NewMediator()
	registry := setup.NewHandlerRegistry(world, coordinator, sizer, spawns, nil, nil)
	if err := registry.RegisterTransportHandlers(med); err != nil {
		return nil, err
	}

	runner := grpc.NewTickRunner(med, world, spawns, grpc.TickRunnerConfig{
		Colonies:       cfg.Daemon.Colonies,
		FleetPlanEvery: cfg.Daemon.FleetPlanEvery,
		StepTimeout:    cfg.Simulation.StepTimeout,
	}, nil)

	return &offlineStack{
		world:  world,
		client: grpc.NewDaemonClientLocal(med, runner),
		logger: logger,
	}, nil
}

// NewSimulateCommand creates the offline simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		worldFile string
		ticks     int
		tickRate  float64
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scheduler against a world file without a daemon",
		Long: `Load a world file and run the scheduler and the world simulator in
process for a number of ticks. Nothing is persisted.

Examples:
  overmind-logistics simulate --world worlds/example.yaml --ticks 50
  overmind-logistics simulate --world worlds/example.yaml --ticks 500 --rate 20 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(configPath)
			if worldFile == "" {
				worldFile = cfg.Simulation.WorldFile
			}
			if worldFile == "" {
				return fmt.Errorf("no world file: pass --world or set simulation.world_file")
			}
			if ticks <= 0 {
				ticks = cfg.Simulation.MaxTicks
			}
			if tickRate < 0 {
				tickRate = cfg.Simulation.TickRate
			}
			cfg.Logging.Level = logLevel
			cfg.Logging.Output = "stderr"

			stack, err := newOfflineStack(cfg, worldFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			ctx = common.WithLogger(ctx, stack.logger)

			return runSimulation(ctx, stack, ticks, tickRate)
		},
	}

	cmd.Flags().StringVarP(&worldFile, "world", "w", "", "World file (defaults to simulation.world_file)")
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "Ticks to run (defaults to simulation.max_ticks)")
	cmd.Flags().Float64Var(&tickRate, "rate", -1, "Ticks per second, 0 = unlimited (defaults to simulation.tick_rate)")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level of the scheduler: debug, info, warn, error")
	return cmd
}

func runSimulation(ctx context.Context, stack *offlineStack, ticks int, tickRate float64) error {
	limit := rate.Inf
	if tickRate > 0 {
		limit = rate.Limit(tickRate)
	}
	limiter := rate.NewLimiter(limit, 1)
	formatter := NewTreeFormatter(true, false)

	for i := 0; i < ticks; i++ {
		if err := limiter.Wait(ctx); err != nil {
			fmt.Println("Interrupted")
			break
		}
		reply, err := stack.client.Step(ctx)
		if err != nil {
			return err
		}
		printStep(reply, formatter)
	}

	fmt.Println()
	for _, name := range stack.world.ColonyNames() {
		status, err := stack.client.Status(ctx, name)
		if err != nil {
			return err
		}
		printStatus(status, formatter)
		fmt.Println()
	}
	return nil
}
