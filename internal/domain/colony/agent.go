package colony

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// RoleTransport is the agent role managed by the transport coordinator
const RoleTransport = "transport"

// Agent is a mobile carrier owned by a colony for its whole life.
//
// Invariants:
// - carry never exceeds capacity (enforced by shared.Store)
// - seq is unique per colony and fixes processing order
type Agent struct {
	name     string
	role     string
	seq      int
	pos      shared.Position
	carry    *shared.Store
	body     []string
	task     *task.Task
	spawning bool

	threatened bool
	evadeUntil int
	retreat    *shared.Position

	resumeAt int
}

// NewAgent creates an agent with validation
func NewAgent(name, role string, seq int, pos shared.Position, carry *shared.Store) (*Agent, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "agent name cannot be empty")
	}
	if carry == nil {
		return nil, shared.NewValidationError("carry", fmt.Sprintf("agent %s has no carry store", name))
	}
	if role == "" {
		role = RoleTransport
	}
	return &Agent{name: name, role: role, seq: seq, pos: pos, carry: carry}, nil
}

func (a *Agent) Name() string         { return a.name }
func (a *Agent) Role() string         { return a.role }
func (a *Agent) Seq() int             { return a.seq }
func (a *Agent) Pos() shared.Position { return a.pos }
func (a *Agent) Carry() *shared.Store { return a.carry }
func (a *Agent) Task() *task.Task     { return a.task }
func (a *Agent) Body() []string       { return a.body }
func (a *Agent) IsSpawning() bool     { return a.spawning }
func (a *Agent) ResumeAt() int        { return a.resumeAt }
func (a *Agent) IsThreatened() bool   { return a.threatened }
func (a *Agent) EvadeUntil() int      { return a.evadeUntil }
func (a *Agent) HasTask() bool        { return a.task != nil }

// IsIdle reports whether the agent has nothing to do
func (a *Agent) IsIdle() bool {
	return a.task == nil
}

// IsAsleep reports whether the agent is waiting for a resume tick
func (a *Agent) IsAsleep(tick int) bool {
	return a.resumeAt > tick
}

// InDanger reports whether the agent must evade this tick
func (a *Agent) InDanger(tick int) bool {
	return a.threatened || a.evadeUntil > tick
}

// Retreat returns the declared retreat position, if any
func (a *Agent) Retreat() (shared.Position, bool) {
	if a.retreat == nil {
		return shared.Position{}, false
	}
	return *a.retreat, true
}

// SetBody records the body parts the agent was built with
func (a *Agent) SetBody(parts []string) {
	a.body = parts
}

// SetTask replaces the agent's plan (nil clears it)
func (a *Agent) SetTask(t *task.Task) {
	a.task = t
}

// MoveTo updates the agent position
func (a *Agent) MoveTo(pos shared.Position) {
	a.pos = pos
}

// SetSpawning marks the agent as still being built
func (a *Agent) SetSpawning(spawning bool) {
	a.spawning = spawning
}

// SetThreat updates the danger state and retreat position
func (a *Agent) SetThreat(threatened bool, retreat *shared.Position) {
	a.threatened = threatened
	a.retreat = retreat
}

// EvadeFor keeps the agent evading until tick+timer
func (a *Agent) EvadeFor(tick, timer int) {
	if until := tick + timer; until > a.evadeUntil {
		a.evadeUntil = until
	}
}

// SleepUntil suspends matching for the agent until tick
func (a *Agent) SleepUntil(tick int) {
	a.resumeAt = tick
}

func (a *Agent) String() string {
	return fmt.Sprintf("%s@%s", a.name, a.pos)
}
