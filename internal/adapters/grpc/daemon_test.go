package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/persistence"
	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/setup"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

const daemonWorld = `
colonies:
  - name: W1N1
    anchor: {x: 25, y: 25}
    energy_capacity: 550
    structures:
      - id: spawn-1
        kind: spawn
        role: consumer
        resource: energy
        pos: {x: 10, y: 10}
        capacity: 300
        contents: {energy: 100}
      - id: storage
        kind: storage
        role: hub
        pos: {x: 20, y: 20}
        capacity: 1000
        contents: {energy: 800}
    agents:
      - name: t1
        seq: 1
        pos: {x: 15, y: 15}
        capacity: 100
`

type daemonFixture struct {
	world  *simulation.World
	runner *TickRunner
	med    mediator.Mediator
	queue  *persistence.MemorySpawnQueue
}

func newDaemonFixture(t *testing.T, cfg TickRunnerConfig) *daemonFixture {
	t.Helper()
	wf, err := simulation.ParseWorldFile([]byte(daemonWorld))
	require.NoError(t, err)
	world, err := simulation.NewWorld(wf)
	require.NoError(t, err)

	coordinator := transport.NewCoordinator(transport.DefaultConfig(), world.Oracle(), nil, nil, nil)
	sizer := fleet.NewSizer(fleet.DefaultSizerConfig(), world.Oracle())
	queue := persistence.NewMemorySpawnQueue()

	med := mediator.NewMediator()
	registry := setup.NewHandlerRegistry(world, coordinator, sizer, queue, nil, shared.NewMockClock(time.Unix(0, 0)))
	require.NoError(t, registry.RegisterTransportHandlers(med))

	runner := NewTickRunner(med, world, queue, cfg, nil)
	return &daemonFixture{world: world, runner: runner, med: med, queue: queue}
}

func dialBufconn(t *testing.T, f *daemonFixture) *DaemonClientGRPC {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	server := NewDaemonServerOn(lis, f.med, f.runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client, err := DialDaemon("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEncodeDecode_KeepsTypedFields(t *testing.T) {
	in := &ColonyRequest{Colony: "W1N1", DryRun: true, Limit: 7}

	msg, err := encode(in)
	require.NoError(t, err)
	assert.Equal(t, "W1N1", msg.GetFields()["colony"].GetStringValue())

	var out ColonyRequest
	require.NoError(t, decode(msg, &out))
	assert.Equal(t, *in, out)
}

func TestDaemon_RoundTrip(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{})
	client := dialBufconn(t, f)
	ctx := context.Background()

	require.Eventually(t, func() bool {
		status, err := client.HealthCheck(ctx)
		return err == nil && status == "SERVING"
	}, 2*time.Second, 10*time.Millisecond)

	step, err := client.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Ticks)
	require.Len(t, step.Results, 1)
	require.Len(t, step.Results[0].Assignments, 1)
	assert.Equal(t, "t1", step.Results[0].Assignments[0].Agent)
	assert.Contains(t,
		[]string{string(transport.OutcomeMatched), string(transport.OutcomeFallback)},
		step.Results[0].Assignments[0].Outcome)

	status, err := client.Status(ctx, "W1N1")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Tick)
	assert.Equal(t, 1, status.Fleet.Total)
	require.Len(t, status.Agents, 1)
	assert.NotEmpty(t, status.Agents[0].Task)

	plan, err := client.PlanFleet(ctx, "W1N1", true)
	require.NoError(t, err)
	assert.Equal(t, "W1N1", plan.Colony)
	assert.False(t, plan.Submitted)

	runner, err := client.Runner(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(shared.LifecycleStatusPending), runner.Status)
	assert.Equal(t, []string{"W1N1"}, runner.Colonies)
}

func TestDaemon_ErrorsCrossTheWire(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{})
	client := dialBufconn(t, f)
	ctx := context.Background()

	_, err := client.Status(ctx, "")
	assert.Error(t, err, "colony is required")

	_, err = client.Status(ctx, "E9N9")
	assert.Error(t, err)

	// no report repository, so no history handler
	_, err = client.History(ctx, "W1N1", 5)
	assert.Error(t, err)

	_, err = client.Pause(ctx)
	assert.Error(t, err, "cannot pause a loop that never started")
}

func TestTickRunner_RunStopsAtMaxTicks(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{MaxTicks: 3, FleetPlanEvery: 2})

	err := f.runner.Run(context.Background())

	require.NoError(t, err)
	status := f.runner.Status()
	assert.Equal(t, shared.LifecycleStatusCompleted, status.Status)
	assert.Equal(t, 3, status.Ticks)
	assert.Len(t, f.runner.LastResults(), 1)
}

func TestTickRunner_CancelCompletes(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.runner.Run(ctx) }()
	require.Eventually(t, func() bool { return f.runner.Ticks() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, shared.LifecycleStatusCompleted, f.runner.Status().Status)
}

func TestTickRunner_PauseAndResume(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{Interval: 5 * time.Millisecond, MaxTicks: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- f.runner.Run(ctx) }()
	require.Eventually(t, func() bool { return f.runner.Ticks() >= 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, f.runner.Pause())
	assert.Equal(t, shared.LifecycleStatusPaused, f.runner.Status().Status)
	held := f.runner.Ticks()
	time.Sleep(30 * time.Millisecond)
	// at most the tick that was in flight when pausing
	assert.LessOrEqual(t, f.runner.Ticks(), held+1)

	require.NoError(t, f.runner.Resume())
	require.Eventually(t, func() bool { return f.runner.Ticks() > held+1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestDaemonClientLocal_MatchesService(t *testing.T) {
	f := newDaemonFixture(t, TickRunnerConfig{})
	client := NewDaemonClientLocal(f.med, f.runner)

	step, err := client.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, step.Ticks)

	retarget, err := client.Retarget(context.Background(), "W1N1")
	require.NoError(t, err)
	assert.Equal(t, "W1N1", retarget.Colony)
	require.Len(t, retarget.Assignments, 1)
}
