package grpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	transportCmd "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/commands"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// World is the simulated game the runner drives
type World interface {
	ColonyNames() []string
	Step(ctx context.Context) error
	FulfillSpawns(ctx context.Context, source simulation.SpawnSource) (int, error)
}

// TickRunnerConfig tunes the tick loop
type TickRunnerConfig struct {
	// Colonies to run (empty = every colony of the world)
	Colonies []string
	// Interval between ticks (0 = as fast as possible)
	Interval time.Duration
	// FleetPlanEvery runs fleet sizing every n ticks (0 = never)
	FleetPlanEvery int
	// MaxTicks completes the run after that many ticks (0 = unbounded)
	MaxTicks int
	// StepTimeout bounds one tick (0 = no bound)
	StepTimeout time.Duration
}

// RunnerStatus is a snapshot of the tick loop
type RunnerStatus struct {
	Status    shared.LifecycleStatus
	Ticks     int
	Uptime    time.Duration
	LastError error
	Colonies  []string
}

// TickRunner drives the world: each tick it runs the transport pass of every
// colony through the mediator, sizes fleets periodically, hands pending spawn
// requests to the world and advances the simulation.
type TickRunner struct {
	mediator mediator.Mediator
	world    World
	spawns   simulation.SpawnSource
	cfg      TickRunnerConfig
	limiter  *rate.Limiter

	// stepMu serialises ticks from the loop and from manual steps
	stepMu sync.Mutex

	mu        sync.RWMutex
	lifecycle *shared.Lifecycle
	ticks     int
	last      []*transport.TickResult
	resumed   chan struct{}
}

// NewTickRunner creates a tick runner. spawns may be nil.
func NewTickRunner(
	m mediator.Mediator,
	world World,
	spawns simulation.SpawnSource,
	cfg TickRunnerConfig,
	clock shared.Clock,
) *TickRunner {
	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &TickRunner{
		mediator:  m,
		world:     world,
		spawns:    spawns,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, 1),
		lifecycle: shared.NewLifecycle(clock),
	}
}

// Run loops until ctx is cancelled, MaxTicks is reached or a tick fails
func (r *TickRunner) Run(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)

	r.mu.Lock()
	err := r.lifecycle.Start()
	r.mu.Unlock()
	if err != nil {
		return err
	}
	logger.Log(common.LevelInfo, "Tick loop started", map[string]interface{}{
		"colonies": r.colonies(),
		"interval": r.cfg.Interval.String(),
	})

	for {
		if resumed := r.pausedChan(); resumed != nil {
			select {
			case <-ctx.Done():
				r.complete(logger)
				return nil
			case <-resumed:
			}
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			r.complete(logger)
			return nil
		}

		if _, err := r.Step(ctx); err != nil {
			if ctx.Err() != nil {
				r.complete(logger)
				return nil
			}
			r.mu.Lock()
			_ = r.lifecycle.Fail(err)
			r.mu.Unlock()
			logger.Log(common.LevelError, "Tick loop failed", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		if r.cfg.MaxTicks > 0 && r.Ticks() >= r.cfg.MaxTicks {
			r.complete(logger)
			return nil
		}
	}
}

// Step runs one tick now. Transport failures of one colony are logged and do
// not stop the others; only a failing world step is returned.
func (r *TickRunner) Step(ctx context.Context) ([]*transport.TickResult, error) {
	r.stepMu.Lock()
	defer r.stepMu.Unlock()

	if r.cfg.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.StepTimeout)
		defer cancel()
	}
	logger := common.LoggerFromContext(ctx)
	tick := r.Ticks()

	var results []*transport.TickResult
	for _, name := range r.colonies() {
		resp, err := r.mediator.Send(ctx, &transportCmd.RunTransportTickCommand{Colony: name})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Log(common.LevelError, "Transport pass failed", map[string]interface{}{
				"colony": name,
				"error":  err.Error(),
			})
			continue
		}
		results = append(results, resp.(*transportCmd.RunTransportTickResponse).Result)
	}

	if r.cfg.FleetPlanEvery > 0 && tick%r.cfg.FleetPlanEvery == 0 {
		for _, name := range r.colonies() {
			if _, err := r.mediator.Send(ctx, &transportCmd.PlanFleetCommand{Colony: name}); err != nil {
				logger.Log(common.LevelWarning, "Fleet planning failed", map[string]interface{}{
					"colony": name,
					"error":  err.Error(),
				})
			}
		}
	}

	if r.spawns != nil {
		if _, err := r.world.FulfillSpawns(ctx, r.spawns); err != nil {
			logger.Log(common.LevelWarning, "Spawning failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if err := r.world.Step(ctx); err != nil {
		return nil, fmt.Errorf("world step failed at tick %d: %w", tick, err)
	}

	r.mu.Lock()
	r.ticks++
	r.last = results
	r.mu.Unlock()
	return results, nil
}

// Pause holds the loop before its next tick
func (r *TickRunner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lifecycle.Pause(); err != nil {
		return err
	}
	r.resumed = make(chan struct{})
	return nil
}

// Resume releases a paused loop
func (r *TickRunner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.lifecycle.Start(); err != nil {
		return err
	}
	if r.resumed != nil {
		close(r.resumed)
		r.resumed = nil
	}
	return nil
}

// Ticks returns how many ticks completed
func (r *TickRunner) Ticks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ticks
}

// LastResults returns the transport results of the latest tick
func (r *TickRunner) LastResults() []*transport.TickResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Status returns a snapshot of the loop
func (r *TickRunner) Status() RunnerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RunnerStatus{
		Status:    r.lifecycle.Status(),
		Ticks:     r.ticks,
		Uptime:    r.lifecycle.Uptime(),
		LastError: r.lifecycle.LastError(),
		Colonies:  r.colonies(),
	}
}

func (r *TickRunner) colonies() []string {
	if len(r.cfg.Colonies) > 0 {
		return r.cfg.Colonies
	}
	return r.world.ColonyNames()
}

func (r *TickRunner) pausedChan() chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resumed
}

func (r *TickRunner) complete(logger common.ContainerLogger) {
	r.mu.Lock()
	_ = r.lifecycle.Complete()
	ticks := r.ticks
	uptime := r.lifecycle.Uptime()
	r.mu.Unlock()

	logger.Log(common.LevelInfo, "Tick loop stopped", map[string]interface{}{
		"ticks":  ticks,
		"uptime": uptime.String(),
	})
}
