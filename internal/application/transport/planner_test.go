package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

func TestPlanTask_InputViaBufferOffloadsFirst(t *testing.T) {
	// Arrange: agent carries power, must offload before refilling energy
	tower := newConsumer(t, "tower-1", pos(10, 10), 1000, 0)
	storage := newStorage(t, pos(20, 10), 1000, energy(500))
	c := newColony(t, tower, storage)
	agent := newAgent(t, "t1", 1, pos(21, 10), 50, map[shared.ResourceType]int{shared.ResourcePower: 10})
	r, err := logistics.NewRequest(logistics.RequestSpec{Target: tower, Resource: shared.ResourceEnergy, Amount: 1000})
	require.NoError(t, err)
	co := newTestCoordinator(nil, nil)

	// Act
	planned, err := co.planTask(c, agent, &logistics.Choice{Request: r, Buffer: storage, DQ: 30}, 1000)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "transferAll(storage all) -> withdraw(storage energy x30) -> transfer(tower-1 energy x30)", planned.String())
}

func TestPlanTask_InputViaBufferTopsUpHeldEnergy(t *testing.T) {
	tower := newConsumer(t, "tower-1", pos(10, 10), 1000, 0)
	storage := newStorage(t, pos(20, 10), 1000, energy(500))
	c := newColony(t, tower, storage)
	agent := newAgent(t, "t1", 1, pos(21, 10), 50, energy(20))
	r, err := logistics.NewRequest(logistics.RequestSpec{Target: tower, Resource: shared.ResourceEnergy, Amount: 1000})
	require.NoError(t, err)

	planned, err := newTestCoordinator(nil, nil).planTask(c, agent, &logistics.Choice{Request: r, Buffer: storage, DQ: 50}, 1000)

	require.NoError(t, err)
	assert.Equal(t, "withdraw(storage energy x30) -> transfer(tower-1 energy x50)", planned.String())
}

func TestPlanTask_OutputKinds(t *testing.T) {
	storage := newStorage(t, pos(20, 10), 1000, nil)
	container := newProvider(t, "container-1", pos(5, 5), 2000, 600)
	pile, err := colony.NewPile("pile-1", pos(8, 8), shared.ResourceEnergy, 120, 1)
	require.NoError(t, err)
	ruin, err := colony.NewRemains("ruin-1", colony.ClassRuin, pos(9, 9), shared.MustNewStore(500, energy(70)), 100)
	require.NoError(t, err)
	c := newColony(t, storage, container)

	tests := []struct {
		name     string
		target   colony.Target
		resource shared.ResourceType
		buffer   *colony.Structure
		carry    map[shared.ResourceType]int
		want     string
	}{
		{"withdraw", container, shared.ResourceEnergy, nil, nil, "withdraw(container-1 energy x40)"},
		{"pickup", pile, shared.ResourceEnergy, nil, nil, "pickup(pile-1 energy x40)"},
		{"withdraw all", ruin, shared.ResourceAll, nil, nil, "withdrawAll(ruin-1 all x40)"},
		{"via buffer", container, shared.ResourceEnergy, storage, energy(10), "transferAll(storage all) -> withdraw(container-1 energy x40)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := logistics.NewRequest(logistics.RequestSpec{Target: tt.target, Resource: tt.resource, Amount: -100})
			require.NoError(t, err)
			agent := newAgent(t, "t1", 1, pos(6, 6), 50, tt.carry)

			planned, err := newTestCoordinator(nil, nil).planTask(c, agent, &logistics.Choice{Request: r, Buffer: tt.buffer, DQ: 40}, -100)

			require.NoError(t, err)
			assert.Equal(t, tt.want, planned.String())
		})
	}
}

func TestPlanTask_NothingLeftOnArrivalParks(t *testing.T) {
	storage := newStorage(t, pos(20, 10), 1000, nil)
	c := newColony(t, storage)
	pile, err := colony.NewPile("pile-1", pos(8, 8), shared.ResourceEnergy, 10, 5)
	require.NoError(t, err)
	r, err := logistics.NewRequest(logistics.RequestSpec{Target: pile, Resource: shared.ResourceEnergy, Amount: -10})
	require.NoError(t, err)
	agent := newAgent(t, "t1", 1, pos(40, 40), 50, nil)

	planned, err := newTestCoordinator(nil, nil).planTask(c, agent, &logistics.Choice{Request: r, DQ: 10}, 0)

	require.NoError(t, err)
	assert.Equal(t, "park(W1N1(20,10))", planned.String())
}

func TestPlanTask_WildcardPileIsConfigurationError(t *testing.T) {
	c := newColony(t)
	pile, err := colony.NewPile("pile-1", pos(8, 8), shared.ResourceAll, 100, 0)
	require.NoError(t, err)
	r, err := logistics.NewRequest(logistics.RequestSpec{Target: pile, Resource: shared.ResourceAll, Amount: -100})
	require.NoError(t, err)
	agent := newAgent(t, "t1", 1, pos(9, 8), 50, nil)

	_, err = newTestCoordinator(nil, nil).planTask(c, agent, &logistics.Choice{Request: r, DQ: 50}, -100)

	require.Error(t, err)
	assert.True(t, errors.Is(err, logistics.ErrWildcardWithdraw))
	var cfgErr *shared.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunAgent_ErrorDoesNotBlockOtherAgents(t *testing.T) {
	// Arrange: the first agent's best match is unresolvable
	spawn := newConsumer(t, "spawn-1", pos(30, 30), 300, 0)
	c := newColony(t, spawn)
	pile, err := colony.NewPile("pile-1", pos(8, 8), shared.ResourceAll, 100, 0)
	require.NoError(t, err)
	bad, err := logistics.NewRequest(logistics.RequestSpec{Target: pile, Resource: shared.ResourceAll, Amount: -100})
	require.NoError(t, err)
	good, err := logistics.NewRequest(logistics.RequestSpec{Target: spawn, Resource: shared.ResourceEnergy, Amount: 300})
	require.NoError(t, err)
	n := logistics.NewNetwork([]*logistics.Request{bad, good}, nil, nil, nil, logistics.NetworkConfig{})

	empty := newAgent(t, "t1", 1, pos(9, 8), 50, nil)
	loaded := newAgent(t, "t2", 2, pos(29, 30), 50, energy(50))
	addAgents(t, c, empty, loaded)
	co := newTestCoordinator(nil, nil)

	// Act
	first := co.runAgent(context.Background(), c, n, empty)
	second := co.runAgent(context.Background(), c, n, loaded)

	// Assert
	assert.Equal(t, OutcomeError, first.Outcome)
	assert.Equal(t, "pile-1:all", first.Request)
	assert.Contains(t, first.Error, "wildcard")
	assert.Nil(t, empty.Task())
	assert.True(t, bad.Discarded())
	assert.Equal(t, OutcomeMatched, second.Outcome)
	assert.Equal(t, "spawn-1:energy", second.Request)
}

func TestRun_MisconfiguredRequestDoesNotStallLaterAgents(t *testing.T) {
	// Arrange: a wildcard pile sits right next to both empty agents and a
	// valid energy pile is further away
	spawn := newConsumer(t, "spawn-1", pos(30, 30), 300, 0)
	c := newColony(t, spawn)
	wildcard, err := colony.NewPile("pile-1", pos(8, 8), shared.ResourceAll, 100, 0)
	require.NoError(t, err)
	c.AddPile(wildcard)
	loose, err := colony.NewPile("pile-2", pos(14, 8), shared.ResourceEnergy, 100, 0)
	require.NoError(t, err)
	c.AddPile(loose)
	first := newAgent(t, "t1", 1, pos(9, 8), 50, nil)
	second := newAgent(t, "t2", 2, pos(9, 9), 50, nil)
	addAgents(t, c, first, second)

	// Act
	result, err := newTestCoordinator(nil, nil).Run(context.Background(), c)

	// Assert: t1 stays idle on the bad request, t2 goes on to the valid pile
	require.NoError(t, err)
	require.Len(t, result.Assignments, 2)
	idle, matched := result.Assignments[0], result.Assignments[1]
	assert.Equal(t, OutcomeError, idle.Outcome)
	assert.Equal(t, "pile-1:all", idle.Request)
	assert.Nil(t, first.Task())
	assert.Equal(t, OutcomeMatched, matched.Outcome)
	assert.Equal(t, "pile-2:energy", matched.Request)
	assert.Equal(t, 50, matched.Quantity)
	assert.Empty(t, matched.Error)
	assert.Equal(t, task.KindPickup, second.Task().Kind())
	assert.Equal(t, []string{"pile-1:all"}, result.Discarded)
	assert.Equal(t, 1, result.Count(OutcomeError))
}
