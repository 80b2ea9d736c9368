package transport

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// evade sends a threatened agent toward its retreat position, dropping its
// energy first when configured. The evasion lasts DangerTimer ticks past the
// last threat.
func (co *Coordinator) evade(c *colony.Colony, agent *colony.Agent) {
	if agent.IsThreatened() {
		agent.EvadeFor(c.Tick(), co.cfg.DangerTimer)
	}

	t := task.Flee(retreatPosition(c, agent))
	if held := agent.Carry().Contents(shared.ResourceEnergy); co.cfg.DropOnDanger && held > 0 {
		t = t.Fork(task.Drop(agent.Pos(), shared.ResourceEnergy, held))
	}
	agent.SetTask(t)
}

func retreatPosition(c *colony.Colony, agent *colony.Agent) shared.Position {
	if pos, ok := agent.Retreat(); ok {
		return pos
	}
	if storage := c.Storage(); storage != nil {
		return storage.Pos()
	}
	return c.Anchor()
}

// clearFinishedEvasion drops a leftover flee plan once the danger is over
func clearFinishedEvasion(agent *colony.Agent) {
	if t := agent.Task(); t != nil && t.Final().Kind() == task.KindFlee {
		agent.SetTask(nil)
	}
}
