package transport

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

func newTestCoordinator(memory *memoryStub, telemetry *telemetryStub) *Coordinator {
	cfg := DefaultConfig()
	cfg.DowntimeWindow = 10
	var sink common.TelemetrySink
	if telemetry != nil {
		sink = telemetry
	}
	var store common.ColonyMemory
	if memory != nil {
		store = memory
	}
	return NewCoordinator(cfg, nil, nil, sink, store)
}

func TestRun_DirectDelivery(t *testing.T) {
	// Arrange: demand of 500 at the spawn, one loaded transporter 5 tiles away
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 800, 300)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(15, 10), 50, energy(50))
	addAgents(t, c, agent)
	co := newTestCoordinator(nil, nil)

	// Act
	result, err := co.Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	a := result.Assignments[0]
	assert.Equal(t, OutcomeMatched, a.Outcome)
	assert.Equal(t, "spawn-1:energy", a.Request)
	assert.Equal(t, "spawn-1", a.Via)
	assert.Equal(t, 50, a.Quantity)
	assert.Equal(t, "transfer(spawn-1 energy x50)", agent.Task().String())
	assert.Equal(t, 1, result.Requests)
}

func TestRun_SharedDemandIsNotOvercommitted(t *testing.T) {
	// Arrange: demand of 80, three transporters carrying 50 each
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 220)
	c := newColony(t, spawn)
	t1 := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	t2 := newAgent(t, "t2", 2, pos(13, 10), 50, energy(50))
	t3 := newAgent(t, "t3", 3, pos(14, 10), 50, energy(50))
	addAgents(t, c, t1, t2, t3)
	co := newTestCoordinator(nil, nil)

	// Act
	result, err := co.Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, result.Assignments[0].Outcome)
	assert.Equal(t, 50, result.Assignments[0].Quantity)
	assert.Equal(t, OutcomeMatched, result.Assignments[1].Outcome)
	assert.Equal(t, 30, result.Assignments[1].Quantity)
	assert.Equal(t, "transfer(spawn-1 energy x30)", t2.Task().String())
	assert.NotEqual(t, OutcomeMatched, result.Assignments[2].Outcome)
}

func TestRun_InFlightPlansReduceDemand(t *testing.T) {
	// Arrange: t1 is already delivering 50 of the 80 missing
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 220)
	c := newColony(t, spawn)
	t1 := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	t1.SetTask(task.Transfer("spawn-1", spawn.Pos(), shared.ResourceEnergy, 50))
	t2 := newAgent(t, "t2", 2, pos(13, 10), 50, energy(50))
	addAgents(t, c, t1, t2)
	co := newTestCoordinator(nil, nil)

	// Act
	result, err := co.Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, OutcomeBusy, result.Assignments[0].Outcome)
	assert.Equal(t, OutcomeMatched, result.Assignments[1].Outcome)
	assert.Equal(t, 30, result.Assignments[1].Quantity)
}

func TestRun_SpawningAgentsAreSkipped(t *testing.T) {
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 0)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	agent.SetSpawning(true)
	addAgents(t, c, agent)

	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, result.Assignments[0].Outcome)
	assert.Nil(t, agent.Task())
}

func TestRun_FallbackPicksCheapestDropoff(t *testing.T) {
	// Arrange: no requests; the relay is closer but congested
	storage := newStorage(t, pos(18, 10), 1000, nil)
	relay := newStructure(t, colony.StructureSpec{
		ID: "link-1", Kind: "link", Role: colony.RoleRelay, Pos: pos(12, 10),
	}, 800, nil)
	relay.SetDropoffAvailability(10)
	c := newColony(t, storage, relay)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, energy(40))
	addAgents(t, c, agent)

	// Act
	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	a := result.Assignments[0]
	assert.Equal(t, OutcomeFallback, a.Outcome)
	assert.Equal(t, "storage", a.Via)
	assert.Equal(t, "transfer(storage energy x40)", agent.Task().String())
}

func TestRun_FallbackTransferFitsNearlyFullStorage(t *testing.T) {
	storage := newStorage(t, pos(18, 10), 100, energy(95))
	c := newColony(t, storage)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, energy(20))
	addAgents(t, c, agent)

	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	require.NoError(t, err)
	a := result.Assignments[0]
	assert.Equal(t, OutcomeFallback, a.Outcome)
	assert.Equal(t, 5, a.Quantity)
	assert.Equal(t, "transfer(storage energy x5)", agent.Task().String())
}

func TestRun_FallbackSendsNonPrimaryCargoToTerminal(t *testing.T) {
	storage := newStorage(t, pos(18, 10), 1000, nil)
	terminal := newStructure(t, colony.StructureSpec{
		ID: "terminal", Kind: colony.KindTerminal, Role: colony.RoleHub, Pos: pos(30, 30),
	}, 1000, nil)
	c := newColony(t, storage, terminal)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, map[shared.ResourceType]int{shared.ResourcePower: 20})
	addAgents(t, c, agent)

	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, OutcomeFallback, result.Assignments[0].Outcome)
	assert.Equal(t, "transferAll(terminal all)", agent.Task().String())
}

func TestRun_EmptyAgentParks(t *testing.T) {
	c := newColony(t)
	planned := pos(30, 30)
	c.SetPlannedStorage(&planned)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, nil)
	addAgents(t, c, agent)

	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, OutcomeParked, result.Assignments[0].Outcome)
	assert.Equal(t, "planned storage", result.Assignments[0].Via)
	assert.Equal(t, task.KindPark, agent.Task().Kind())
	assert.Equal(t, planned, agent.Task().Pos())
}

func TestRun_NoSinkParksLoadedAgent(t *testing.T) {
	c := newColony(t)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, energy(50))
	addAgents(t, c, agent)

	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, OutcomeParked, result.Assignments[0].Outcome)
	assert.Equal(t, pos(10, 10), agent.Task().Pos())
}

func TestRun_ParkedAgentIsRematched(t *testing.T) {
	// Arrange: parked last tick, demand shows up now
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 250)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	agent.SetTask(task.Park(pos(12, 10)))
	addAgents(t, c, agent)

	// Act
	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, result.Assignments[0].Outcome)
}

func TestRun_ThreatenedAgentDropsAndFlees(t *testing.T) {
	// Arrange
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 0)
	storage := newStorage(t, pos(20, 20), 1000, nil)
	c := newColony(t, spawn, storage)
	agent := newAgent(t, "t1", 1, pos(12, 10), 50, energy(30))
	agent.SetThreat(true, nil)
	addAgents(t, c, agent)
	co := newTestCoordinator(nil, nil)

	// Act
	result, err := co.Run(context.Background(), c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, OutcomeEvading, result.Assignments[0].Outcome)
	steps := agent.Task().Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, task.KindDrop, steps[0].Kind())
	assert.Equal(t, 30, steps[0].Amount())
	assert.Equal(t, task.KindFlee, steps[1].Kind())
	assert.Equal(t, storage.Pos(), steps[1].Pos())
	assert.Equal(t, 5, agent.EvadeUntil())
}

func TestRun_EvasionOutlastsThreat(t *testing.T) {
	// Arrange
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 0)
	c := newColony(t, spawn)
	retreat := pos(40, 40)
	agent := newAgent(t, "t1", 1, pos(12, 10), 50, energy(30))
	agent.SetThreat(true, &retreat)
	addAgents(t, c, agent)
	co := NewCoordinator(Config{DangerTimer: 5, DropOnDanger: false}, nil, nil, nil, nil)

	// Act + Assert: still evading while the timer runs
	_, err := co.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "flee(W1N1(40,40))", agent.Task().String())

	agent.SetThreat(false, nil)
	c.SetTick(3)
	result, err := co.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, OutcomeEvading, result.Assignments[0].Outcome)
	assert.Equal(t, pos(25, 25), agent.Task().Final().Pos())

	// Act + Assert: back to work once the timer expires
	c.SetTick(5)
	result, err = co.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, result.Assignments[0].Outcome)
	assert.Equal(t, "transfer(spawn-1 energy x30)", agent.Task().String())
}

func TestRetarget_IsIdempotent(t *testing.T) {
	// Arrange
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 220)
	container := newProvider(t, "container-1", pos(30, 10), 2000, 600)
	storage := newStorage(t, pos(20, 20), 1000, energy(100))
	c := newColony(t, spawn, container, storage)
	addAgents(t, c,
		newAgent(t, "t1", 1, pos(12, 10), 50, energy(50)),
		newAgent(t, "t2", 2, pos(28, 10), 50, nil),
		newAgent(t, "t3", 3, pos(20, 18), 50, map[shared.ResourceType]int{shared.ResourcePower: 10}),
	)
	memory := newMemoryStub()
	co := newTestCoordinator(memory, nil)

	// Act
	first, err := co.Retarget(context.Background(), c)
	require.NoError(t, err)
	second, err := co.Retarget(context.Background(), c)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Empty(t, memory.values, "retarget must not touch statistics")
}

func TestRun_DowntimeMovingAverage(t *testing.T) {
	// Arrange: one idle transporter with nothing to do
	c := newColony(t)
	addAgents(t, c, newAgent(t, "t1", 1, pos(10, 10), 50, nil))
	memory := newMemoryStub()
	telemetry := &telemetryStub{}
	co := newTestCoordinator(memory, telemetry)

	// Act
	first, err := co.Run(context.Background(), c)
	require.NoError(t, err)
	second, err := co.Run(context.Background(), c)
	require.NoError(t, err)

	// Assert
	assert.InDelta(t, 0.1, first.Downtime, 1e-9)
	assert.InDelta(t, 0.19, second.Downtime, 1e-9)
	stored, err := strconv.ParseFloat(memory.values["W1N1/"+DowntimeMemoryKey], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.19, stored, 1e-9)
	assert.Equal(t, []string{"W1N1.transportNetwork.downtime", "W1N1.transportNetwork.downtime"}, telemetry.records)
	assert.InDelta(t, 0.19, telemetry.last, 1e-9)
}

func TestRun_UnreadableDowntimeStillEmits(t *testing.T) {
	// Arrange: colony memory is down for both reads and writes
	c := newColony(t)
	addAgents(t, c, newAgent(t, "t1", 1, pos(10, 10), 50, nil))
	memory := newMemoryStub()
	memory.err = errors.New("memory segment unavailable")
	telemetry := &telemetryStub{}

	// Act
	result, err := newTestCoordinator(memory, telemetry).Run(context.Background(), c)

	// Assert: the average restarts from zero and still reaches telemetry
	require.NoError(t, err)
	assert.InDelta(t, 0.1, result.Downtime, 1e-9)
	assert.Equal(t, []string{"W1N1.transportNetwork.downtime"}, telemetry.records)
	assert.InDelta(t, 0.1, telemetry.last, 1e-9)
}

func TestRun_EmptyFleetKeepsDowntime(t *testing.T) {
	c := newColony(t)
	memory := newMemoryStub()
	memory.values["W1N1/"+DowntimeMemoryKey] = "0.5"
	telemetry := &telemetryStub{}

	result, err := newTestCoordinator(memory, telemetry).Run(context.Background(), c)

	require.NoError(t, err)
	assert.Empty(t, result.Assignments)
	assert.Equal(t, 0.5, result.Downtime)
	assert.Equal(t, "0.5", memory.values["W1N1/"+DowntimeMemoryKey])
	assert.Empty(t, telemetry.records)
}

func TestRun_CancelledContext(t *testing.T) {
	c := newColony(t)
	addAgents(t, c, newAgent(t, "t1", 1, pos(10, 10), 50, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCoordinator(nil, nil).Run(ctx, c)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestEMA(t *testing.T) {
	assert.Equal(t, 0.7, EMA(0.7, 0.2, 1))
	assert.InDelta(t, 0.25, EMA(1, 0, 4), 1e-12)
	assert.Equal(t, 0.0, EMA(0, 1e-12, 2))
}
