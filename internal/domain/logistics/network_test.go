package logistics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

func buildNetwork(c *colony.Colony) *logistics.Network {
	return logistics.BuildNetwork(c, logistics.NewRegistry(), nil, nil, logistics.NetworkConfig{})
}

func TestBestMatch_DirectTransferClampedByCarry(t *testing.T) {
	// Arrange: demand of 500, no buffers, agent 5 tiles away carrying 50
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 800, 300)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(15, 10), 50, energy(50))
	n := buildNetwork(c)

	// Act
	choice, ok := n.BestMatch(agent)

	// Assert
	require.True(t, ok)
	assert.True(t, choice.Direct())
	assert.Equal(t, 50, choice.DQ)
	assert.Equal(t, 5.0, choice.DT)
	assert.InDelta(t, 10.0, choice.Score, 1e-9)
}

func TestBestMatch_ExpiringPile(t *testing.T) {
	// Arrange
	pile, err := colony.NewPile("pile-1", pos(10, 10), shared.ResourceEnergy, 300, 0)
	require.NoError(t, err)
	r, err := logistics.NewRequest(logistics.RequestSpec{
		Target: pile, Resource: shared.ResourceEnergy, Amount: -300, ExpiresIn: 5,
	})
	require.NoError(t, err)

	near := newAgent(t, "near", 1, pos(12, 10), 300, nil)
	far := newAgent(t, "far", 2, pos(20, 10), 300, nil)
	n := logistics.NewNetwork([]*logistics.Request{r}, nil, nil, nil, logistics.NetworkConfig{})

	// Act
	choice, ok := n.BestMatch(near)
	_, farOK := n.BestMatch(far)

	// Assert
	require.True(t, ok)
	assert.Equal(t, 300, choice.DQ)
	assert.Equal(t, -300, n.PredictedAmount(near, r))
	assert.Equal(t, 0, n.PredictedAmount(far, r))
	assert.False(t, farOK)
}

func TestInvalidate_NoDoubleCommit(t *testing.T) {
	// Arrange: +80 demand, two agents carrying 50 each
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 220)
	c := newColony(t, spawn)
	first := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	second := newAgent(t, "t2", 2, pos(13, 10), 50, energy(50))
	n := buildNetwork(c)

	// Act
	c1, ok1 := n.BestMatch(first)
	require.True(t, ok1)
	claimed1 := n.Invalidate(first, c1.Request, c1.DQ)

	c2, ok2 := n.BestMatch(second)
	require.True(t, ok2)
	claimed2 := n.Invalidate(second, c2.Request, c2.DQ)

	_, ok3 := n.BestMatch(newAgent(t, "t3", 3, pos(12, 10), 50, energy(50)))

	// Assert
	assert.Equal(t, 50, claimed1)
	assert.Equal(t, 30, claimed2)
	assert.LessOrEqual(t, claimed1+claimed2, c1.Request.Original())
	assert.True(t, c1.Request.IsVoid())
	assert.False(t, ok3)
	assert.Equal(t, map[string]int{"t1": 50, "t2": 30}, n.Commits())
}

func TestDiscard_NextBestRequestWins(t *testing.T) {
	// Arrange: the nearer consumer is dropped, the farther one must be picked
	near := newConsumer(t, "ext-a", pos(10, 11), 50, 0)
	far := newConsumer(t, "ext-b", pos(10, 20), 50, 0)
	c := newColony(t, near, far)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, energy(50))
	n := buildNetwork(c)

	first, ok := n.BestMatch(agent)
	require.True(t, ok)
	require.Equal(t, "ext-a", first.Request.Target().ID())

	// Act
	n.Discard(first.Request)
	second, ok := n.BestMatch(agent)

	// Assert
	require.True(t, ok)
	assert.Equal(t, "ext-b", second.Request.Target().ID())
	assert.True(t, first.Request.Discarded())
	assert.True(t, first.Request.IsVoid())
	assert.Equal(t, 0, first.Request.Shrink(10))
	assert.Equal(t, 0, first.Request.Committed())
}

func TestBestMatch_Deterministic(t *testing.T) {
	build := func() (*logistics.Network, *colony.Agent) {
		a := newConsumer(t, "ext-a", pos(10, 10), 50, 0)
		b := newConsumer(t, "ext-b", pos(10, 14), 50, 0)
		c := newColony(t, a, b)
		return buildNetwork(c), newAgent(t, "t1", 1, pos(10, 12), 100, energy(100))
	}

	n1, agent1 := build()
	n2, agent2 := build()
	first, _ := n1.BestMatch(agent1)
	second, _ := n2.BestMatch(agent2)

	// equal scores: the first discovered request wins
	assert.Equal(t, "ext-a:energy", first.Request.ID())
	assert.Equal(t, first.Request.ID(), second.Request.ID())
	assert.Equal(t, first.Score, second.Score)
}

func TestBestMatch_PriorityBeatsScore(t *testing.T) {
	// Arrange
	near := newConsumer(t, "ext-near", pos(10, 10), 50, 0)
	tower := newStructure(t, colony.StructureSpec{
		ID: "tower-1", Kind: "tower", Role: colony.RoleConsumer, Pos: pos(40, 40),
		Resource: shared.ResourceEnergy, Priority: int(logistics.PriorityCritical),
	}, 1000, energy(900))
	c := newColony(t, near, tower)
	agent := newAgent(t, "t1", 1, pos(10, 11), 100, energy(100))

	// Act
	choice, ok := buildNetwork(c).BestMatch(agent)

	// Assert
	require.True(t, ok)
	assert.Equal(t, "tower-1:energy", choice.Request.ID())
}

func TestBestMatch_ZeroDistanceUsesEpsilon(t *testing.T) {
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 250)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(10, 10), 50, energy(50))

	choice, ok := logistics.BuildNetwork(c, logistics.NewRegistry(), nil, nil, logistics.NetworkConfig{Epsilon: 0.5}).BestMatch(agent)

	require.True(t, ok)
	assert.InDelta(t, 100.0, choice.Score, 1e-9)
}

func TestBufferChoices_InputViaBuffer(t *testing.T) {
	// Arrange: empty agent next to storage, demand far away
	spawn := newConsumer(t, "spawn-1", pos(40, 10), 300, 0)
	storage := newHub(t, "storage", colony.KindStorage, pos(10, 10), 10000, energy(5000))
	c := newColony(t, spawn, storage)
	agent := newAgent(t, "t1", 1, pos(11, 10), 100, nil)
	n := buildNetwork(c)

	// Act
	choices := n.BufferChoices(agent, n.Requests()[0])
	best, ok := n.BestMatch(agent)

	// Assert
	require.Len(t, choices, 2)
	assert.True(t, choices[0].Direct())
	assert.Equal(t, 0, choices[0].DQ)
	assert.Equal(t, "storage", choices[1].Via())
	assert.Equal(t, 100, choices[1].DQ)
	assert.Equal(t, 31.0, choices[1].DT)
	require.True(t, ok)
	assert.Equal(t, "storage", best.Via())
}

func TestBufferChoices_EarlyReturnWhenDirectSuffices(t *testing.T) {
	spawn := newConsumer(t, "spawn-1", pos(40, 10), 300, 260)
	storage := newHub(t, "storage", colony.KindStorage, pos(10, 10), 10000, energy(5000))
	c := newColony(t, spawn, storage)
	agent := newAgent(t, "t1", 1, pos(11, 10), 100, energy(60))
	n := buildNetwork(c)

	choices := n.BufferChoices(agent, n.Requests()[0])

	require.Len(t, choices, 1)
	assert.Equal(t, 40, choices[0].DQ)
}

func TestBufferChoices_PurityBlocksDirect(t *testing.T) {
	// Arrange: agent carrying power must not fill an energy consumer directly
	spawn := newConsumer(t, "spawn-1", pos(20, 10), 300, 0)
	storage := newHub(t, "storage", colony.KindStorage, pos(10, 10), 10000, energy(5000))
	c := newColony(t, spawn, storage)
	agent := newAgent(t, "t1", 1, pos(11, 10), 100, map[shared.ResourceType]int{
		shared.ResourceEnergy: 20,
		shared.ResourcePower:  30,
	})
	n := buildNetwork(c)

	// Act
	choices := n.BufferChoices(agent, n.Requests()[0])

	// Assert
	require.Len(t, choices, 1)
	assert.False(t, choices[0].Direct())
	assert.Equal(t, 100, choices[0].DQ)
}

func TestBufferChoices_OutputViaBuffer(t *testing.T) {
	// Arrange: full agent must dump at storage before withdrawing
	container := newProvider(t, "container-1", pos(30, 10), 2000, 500)
	storage := newHub(t, "storage", colony.KindStorage, pos(10, 10), 10000, energy(1000))
	c := newColony(t, container, storage)
	agent := newAgent(t, "t1", 1, pos(12, 10), 100, energy(100))
	n := buildNetwork(c)

	// Act
	choices := n.BufferChoices(agent, n.Requests()[0])

	// Assert
	require.Len(t, choices, 2)
	assert.Equal(t, 0, choices[0].DQ)
	assert.Equal(t, "storage", choices[1].Via())
	assert.Equal(t, 100, choices[1].DQ)
}

func TestBufferChoices_WildcardOutput(t *testing.T) {
	tomb, err := colony.NewRemains("tomb-1", colony.ClassTombstone, pos(5, 5),
		shared.MustNewStore(100, map[shared.ResourceType]int{shared.ResourceEnergy: 30, shared.ResourcePower: 20}), 10)
	require.NoError(t, err)
	c := newColony(t)
	c.AddRemains(tomb)
	agent := newAgent(t, "t1", 1, pos(6, 6), 100, map[shared.ResourceType]int{shared.ResourcePower: 10})

	choice, ok := buildNetwork(c).BestMatch(agent)

	require.True(t, ok)
	assert.Equal(t, 50, choice.DQ)
	assert.Equal(t, shared.ResourceAll, choice.Request.Resource())
}

func TestAccountInFlight_ShrinksServedRequests(t *testing.T) {
	// Arrange
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 200)
	c := newColony(t, spawn)
	busy := newAgent(t, "t1", 1, pos(30, 30), 50, energy(50))
	busy.SetTask(task.Transfer("spawn-1", spawn.Pos(), shared.ResourceEnergy, 60))
	require.NoError(t, c.AddAgent(busy))

	// Act
	n := buildNetwork(c)

	// Assert
	require.Len(t, n.Requests(), 1)
	assert.Equal(t, 40, n.Requests()[0].Amount())
	assert.Len(t, n.Open(), 1)
}

func TestBestMatch_SkipsDestroyedTarget(t *testing.T) {
	spawn := newConsumer(t, "spawn-1", pos(10, 10), 300, 0)
	c := newColony(t, spawn)
	agent := newAgent(t, "t1", 1, pos(12, 10), 50, energy(50))
	n := buildNetwork(c)

	spawn.Destroy()
	_, ok := n.BestMatch(agent)

	assert.False(t, ok)
	assert.Empty(t, n.Open())
}

func TestRankedChoices_Order(t *testing.T) {
	a := newConsumer(t, "ext-a", pos(10, 10), 50, 0)
	b := newConsumer(t, "ext-b", pos(10, 20), 50, 0)
	c := newColony(t, a, b)
	agent := newAgent(t, "t1", 1, pos(10, 18), 100, energy(100))

	ranked := buildNetwork(c).RankedChoices(agent)

	require.Len(t, ranked, 2)
	assert.Equal(t, "ext-b:energy", ranked[0].Request.ID())
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}
