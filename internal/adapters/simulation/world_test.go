package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

const testWorld = `
relay_cooldown: 3
pile_decay: 10
colonies:
  - name: W1N1
    anchor: {x: 25, y: 25}
    energy_capacity: 800
    road_coverage: 0.5
    terrain:
      walls:
        - {x: 20, y: 19}
        - {x: 20, y: 20}
        - {x: 20, y: 21}
    structures:
      - id: spawn-1
        kind: spawn
        role: consumer
        resource: energy
        pos: {x: 10, y: 10}
        capacity: 300
        contents: {energy: 250}
      - id: storage
        kind: storage
        role: hub
        pos: {x: 30, y: 30}
        capacity: 1000
        contents: {energy: 500, power: 20}
      - id: link-1
        kind: link
        role: relay
        pos: {x: 12, y: 12}
        capacity: 800
      - id: source-box
        kind: container
        role: provider
        resource: energy
        pos: {x: 40, y: 40}
        capacity: 2000
        rate: 0.5
    agents:
      - name: t1
        seq: 1
        pos: {x: 10, y: 12}
        body: [carry, move]
        contents: {energy: 50}
      - name: t2
        seq: 2
        pos: {x: 30, y: 32}
        capacity: 100
    threats:
      - agent: t2
        from: 1
        until: 3
        retreat: {x: 5, y: 5}
  - name: E1N1
    anchor: {x: 25, y: 25}
`

func newTestWorld(t *testing.T) *World {
	t.Helper()
	wf, err := ParseWorldFile([]byte(testWorld))
	require.NoError(t, err)
	w, err := NewWorld(wf)
	require.NoError(t, err)
	return w
}

func withColony(t *testing.T, w *World, fn func(c *colony.Colony)) {
	t.Helper()
	require.NoError(t, w.WithColony(context.Background(), "W1N1", func(c *colony.Colony) error {
		fn(c)
		return nil
	}))
}

func agent(t *testing.T, c *colony.Colony, name string) *colony.Agent {
	t.Helper()
	a, err := c.Agent(name)
	require.NoError(t, err)
	return a
}

func TestParseWorldFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no colonies", "relay_cooldown: 1\n"},
		{"bad role", "colonies:\n  - name: A\n    structures:\n      - {id: s, role: shop}\n"},
		{"off grid", "colonies:\n  - name: A\n    anchor: {x: 60, y: 1}\n"},
		{"duplicate colony", "colonies:\n  - name: A\n  - name: A\n"},
		{"threat window", "colonies:\n  - name: A\n    threats:\n      - {agent: a, from: 4, until: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorldFile([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestNewWorld_BuildsColonies(t *testing.T) {
	w := newTestWorld(t)

	assert.Equal(t, []string{"E1N1", "W1N1"}, w.ColonyNames())
	withColony(t, w, func(c *colony.Colony) {
		assert.Equal(t, 800, c.EnergyCapacity())
		assert.Equal(t, "storage", c.Storage().ID())
		assert.Len(t, c.Relays(), 1)
		assert.Equal(t, 50, agent(t, c, "t1").Carry().Capacity(shared.ResourceAll))
		assert.Equal(t, 100, agent(t, c, "t2").Carry().Capacity(shared.ResourceAll))
	})

	err := w.WithColony(context.Background(), "nowhere", func(*colony.Colony) error { return nil })
	assert.True(t, errors.Is(err, ErrColonyNotFound))
}

func TestLoadWorld_ExampleFile(t *testing.T) {
	w, err := LoadWorld("../../../worlds/example.yaml")
	require.NoError(t, err)

	withColony(t, w, func(c *colony.Colony) {
		assert.Len(t, c.Agents(colony.RoleTransport), 3)
		assert.Equal(t, 100, agent(t, c, "hauler-1").Carry().Capacity(shared.ResourceAll))
		assert.Equal(t, 150, agent(t, c, "hauler-2").Carry().Contents(shared.ResourceEnergy))
		require.NotNil(t, c.UpgradeSite())
		assert.Len(t, c.MiningSites(), 1)
	})
	require.NoError(t, w.Step(context.Background()))
}

func TestStep_WalksThenTransfers(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		a.MoveTo(shared.NewPosition(10, 13, "W1N1"))
		a.SetTask(task.Transfer("spawn-1", shared.NewPosition(10, 10, "W1N1"), shared.ResourceEnergy, 50))
	})

	require.NoError(t, w.StepColony(ctx, "W1N1"))
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		assert.Equal(t, 12, a.Pos().Y)
		assert.True(t, a.HasTask())
	})

	require.NoError(t, w.StepColony(ctx, "W1N1"))
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		assert.Equal(t, 11, a.Pos().Y)
	})

	require.NoError(t, w.StepColony(ctx, "W1N1"))
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		assert.False(t, a.HasTask())
		assert.Equal(t, 0, a.Carry().UsedCapacity())
		assert.Equal(t, 300, c.Structure("spawn-1").Store().Contents(shared.ResourceEnergy))
		assert.Equal(t, 3, c.Tick())
	})
}

func TestStep_TransferClampsToFreeCapacity(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		a.MoveTo(shared.NewPosition(10, 11, "W1N1"))
		c.Structure("spawn-1").Store().Add(shared.ResourceEnergy, 30)
		a.SetTask(task.Transfer("spawn-1", shared.NewPosition(10, 10, "W1N1"), shared.ResourceEnergy, 50))
	})

	require.NoError(t, w.Step(context.Background()))

	withColony(t, w, func(c *colony.Colony) {
		assert.Equal(t, 30, agent(t, c, "t1").Carry().Contents(shared.ResourceEnergy))
		assert.Equal(t, 300, c.Structure("spawn-1").Store().Contents(shared.ResourceEnergy))
	})
}

func TestStep_ChainedWithdrawAll(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t2")
		a.SetTask(task.WithdrawAll("storage", shared.NewPosition(30, 30, "W1N1"), 0).
			Fork(task.GoTo(shared.NewPosition(30, 31, "W1N1"))))
	})

	// move, finish goTo, withdraw
	for i := 0; i < 3; i++ {
		require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	}

	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t2")
		assert.False(t, a.HasTask())
		assert.Equal(t, 100, a.Carry().Contents(shared.ResourceEnergy))
		assert.Equal(t, 400, c.Storage().Store().Contents(shared.ResourceEnergy))
		assert.Equal(t, 20, c.Storage().Store().Contents(shared.ResourcePower))
	})
}

func TestStep_RelayCooldown(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		a.MoveTo(shared.NewPosition(12, 11, "W1N1"))
		a.SetTask(task.TransferAll("link-1", shared.NewPosition(12, 12, "W1N1")))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		link := c.Structure("link-1")
		assert.Equal(t, 50, link.Store().Contents(shared.ResourceEnergy))
		// set to 3 on delivery, then counted down at the end of the tick
		assert.Equal(t, 2, link.DropoffAvailability())
	})
}

func TestStep_DropCreatesDecayingPile(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		a.SetTask(task.Drop(a.Pos(), shared.ResourceEnergy, 0))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		pile := c.PileAt(shared.NewPosition(10, 12, "W1N1"), shared.ResourceEnergy)
		require.NotNil(t, pile)
		assert.Equal(t, 40, pile.Amount())
		assert.Equal(t, 0, agent(t, c, "t1").Carry().UsedCapacity())
	})
}

func TestStep_PickupFromPile(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		pile, err := colony.NewPile("pile-1", shared.NewPosition(31, 32, "W1N1"), shared.ResourceEnergy, 250, 0)
		require.NoError(t, err)
		c.AddPile(pile)
		agent(t, c, "t2").SetTask(task.Pickup("pile-1", pile.Pos(), shared.ResourceEnergy, 0))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		assert.Equal(t, 100, agent(t, c, "t2").Carry().Contents(shared.ResourceEnergy))
		target, ok := c.Target("pile-1")
		require.True(t, ok)
		assert.Equal(t, 150, target.(*colony.Pile).Amount())
	})
}

func TestStep_GoneTargetClearsTask(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		c.Structure("spawn-1").Destroy()
		agent(t, c, "t1").SetTask(task.Transfer("spawn-1", shared.NewPosition(10, 10, "W1N1"), shared.ResourceEnergy, 50))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		assert.False(t, a.HasTask())
		assert.Equal(t, 50, a.Carry().Contents(shared.ResourceEnergy))
	})
}

func TestStep_ParkIsHeld(t *testing.T) {
	w := newTestWorld(t)
	spot := shared.NewPosition(10, 12, "W1N1")
	withColony(t, w, func(c *colony.Colony) {
		agent(t, c, "t1").SetTask(task.Park(spot))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		require.True(t, a.HasTask())
		assert.Equal(t, task.KindPark, a.Task().Kind())
	})
}

func TestStep_SidestepsWalls(t *testing.T) {
	w := newTestWorld(t)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "t1")
		a.MoveTo(shared.NewPosition(19, 20, "W1N1"))
		a.SetTask(task.GoTo(shared.NewPosition(24, 20, "W1N1")))
	})

	require.NoError(t, w.StepColony(context.Background(), "W1N1"))

	withColony(t, w, func(c *colony.Colony) {
		pos := agent(t, c, "t1").Pos()
		assert.False(t, pos.X == 20 && pos.Y >= 19 && pos.Y <= 21, "walked into a wall")
		assert.False(t, pos.Equals(shared.NewPosition(19, 20, "W1N1")), "stood still")
	})
}

func TestStep_ProductionCarriesFractions(t *testing.T) {
	w := newTestWorld(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	}

	withColony(t, w, func(c *colony.Colony) {
		assert.Equal(t, 1, c.Structure("source-box").Store().Contents(shared.ResourceEnergy))
	})
}

func TestStep_ThreatWindows(t *testing.T) {
	w := newTestWorld(t)
	threatened := func() bool {
		var out bool
		withColony(t, w, func(c *colony.Colony) { out = agent(t, c, "t2").IsThreatened() })
		return out
	}

	assert.False(t, threatened())
	require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	assert.True(t, threatened())
	withColony(t, w, func(c *colony.Colony) {
		retreat, ok := agent(t, c, "t2").Retreat()
		require.True(t, ok)
		assert.Equal(t, 5, retreat.X)
	})
	require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	assert.False(t, threatened())
}

func TestWorld_OracleFollowsTerrain(t *testing.T) {
	w := newTestWorld(t)

	open, ok := w.Oracle().Distance(
		shared.NewPosition(10, 30, "W1N1"), shared.NewPosition(15, 30, "W1N1"), logistics.DistanceOptions{})
	require.True(t, ok)
	assert.Equal(t, 5.0, open)

	_, ok = w.Oracle().Distance(
		shared.NewPosition(10, 30, "W1N1"), shared.NewPosition(15, 30, "E9N9"), logistics.DistanceOptions{})
	assert.False(t, ok)
}

type spawnSourceStub struct {
	pending   []fleet.SpawnRequest
	fulfilled []string
}

func (s *spawnSourceStub) Pending(_ context.Context, colony string) ([]fleet.SpawnRequest, error) {
	var out []fleet.SpawnRequest
	for _, r := range s.pending {
		if r.Colony == colony {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *spawnSourceStub) MarkFulfilled(_ context.Context, id string) error {
	s.fulfilled = append(s.fulfilled, id)
	return nil
}

func TestFulfillSpawns(t *testing.T) {
	w := newTestWorld(t)
	source := &spawnSourceStub{pending: []fleet.SpawnRequest{{
		ID:     "spawn-W1N1-1",
		Colony: "W1N1",
		Role:   colony.RoleTransport,
		Body:   []string{fleet.PartCarry, fleet.PartCarry, fleet.PartMove},
		Count:  4,
	}}}

	spawned, err := w.FulfillSpawns(context.Background(), source)

	require.NoError(t, err)
	assert.Equal(t, 2, spawned)
	assert.Equal(t, []string{"spawn-W1N1-1"}, source.fulfilled)
	withColony(t, w, func(c *colony.Colony) {
		a := agent(t, c, "transport-3")
		assert.True(t, a.IsSpawning())
		assert.Equal(t, 100, a.Carry().Capacity(shared.ResourceAll))
		assert.Equal(t, c.Anchor(), a.Pos())
	})

	// three parts at three ticks each, ready on tick 9
	for i := 0; i < 10; i++ {
		require.NoError(t, w.StepColony(context.Background(), "W1N1"))
	}
	withColony(t, w, func(c *colony.Colony) {
		assert.False(t, agent(t, c, "transport-4").IsSpawning())
	})
}
