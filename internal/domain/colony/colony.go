package colony

import (
	"fmt"
	"sort"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Colony is a per-tick snapshot of one operational zone: its structures,
// ground drops, agents and the planning facts fleet sizing needs.
type Colony struct {
	name   string
	anchor shared.Position
	tick   int

	structures []*Structure
	piles      []*Pile
	remains    []*Remains
	agents     []*Agent

	miningSites    []MiningSite
	upgradeSite    *UpgradeSite
	plannedStorage *shared.Position

	lowPower       bool
	roadCoverage   float64
	energyCapacity int
}

// NewColony creates an empty colony snapshot
func NewColony(name string, anchor shared.Position) (*Colony, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "colony name cannot be empty")
	}
	return &Colony{name: name, anchor: anchor}, nil
}

func (c *Colony) Name() string                     { return c.name }
func (c *Colony) Anchor() shared.Position          { return c.anchor }
func (c *Colony) Tick() int                        { return c.tick }
func (c *Colony) Structures() []*Structure         { return c.structures }
func (c *Colony) Piles() []*Pile                   { return c.piles }
func (c *Colony) Remains() []*Remains              { return c.remains }
func (c *Colony) MiningSites() []MiningSite        { return c.miningSites }
func (c *Colony) UpgradeSite() *UpgradeSite        { return c.upgradeSite }
func (c *Colony) LowPower() bool                   { return c.lowPower }
func (c *Colony) RoadCoverage() float64            { return c.roadCoverage }
func (c *Colony) EnergyCapacity() int              { return c.energyCapacity }
func (c *Colony) PlannedStorage() *shared.Position { return c.plannedStorage }

// Mutators used while assembling a snapshot

func (c *Colony) AddStructure(s *Structure) error {
	if c.findStructure(s.ID()) != nil {
		return shared.NewValidationError("id", fmt.Sprintf("duplicate structure %s", s.ID()))
	}
	c.structures = append(c.structures, s)
	return nil
}

func (c *Colony) AddPile(p *Pile) {
	c.piles = append(c.piles, p)
}

func (c *Colony) AddRemains(r *Remains) {
	c.remains = append(c.remains, r)
}

// AddAgent registers an agent; agents are kept in creation order
func (c *Colony) AddAgent(a *Agent) error {
	for _, existing := range c.agents {
		if existing.Name() == a.Name() {
			return shared.NewValidationError("name", fmt.Sprintf("duplicate agent %s", a.Name()))
		}
	}
	c.agents = append(c.agents, a)
	sort.SliceStable(c.agents, func(i, j int) bool { return c.agents[i].Seq() < c.agents[j].Seq() })
	return nil
}

// RemoveAgent drops an agent (death or recycle)
func (c *Colony) RemoveAgent(name string) {
	kept := c.agents[:0]
	for _, a := range c.agents {
		if a.Name() != name {
			kept = append(kept, a)
		}
	}
	c.agents = kept
}

func (c *Colony) AddMiningSite(m MiningSite)           { c.miningSites = append(c.miningSites, m) }
func (c *Colony) SetUpgradeSite(u *UpgradeSite)        { c.upgradeSite = u }
func (c *Colony) SetPlannedStorage(p *shared.Position) { c.plannedStorage = p }
func (c *Colony) SetLowPower(low bool)                 { c.lowPower = low }
func (c *Colony) SetEnergyCapacity(energy int)         { c.energyCapacity = energy }

// SetRoadCoverage clamps coverage into [0, 1]
func (c *Colony) SetRoadCoverage(coverage float64) {
	switch {
	case coverage < 0:
		coverage = 0
	case coverage > 1:
		coverage = 1
	}
	c.roadCoverage = coverage
}

// AdvanceTick moves the snapshot clock forward by one tick
func (c *Colony) AdvanceTick() {
	c.tick++
}

// SetTick sets the snapshot clock (used when restoring a world)
func (c *Colony) SetTick(tick int) {
	c.tick = tick
}

// Queries

// Agents returns the agents of a role in processing order (all when role is empty)
func (c *Colony) Agents(role string) []*Agent {
	if role == "" {
		return c.agents
	}
	var out []*Agent
	for _, a := range c.agents {
		if a.Role() == role {
			out = append(out, a)
		}
	}
	return out
}

// Agent finds an agent by name
func (c *Colony) Agent(name string) (*Agent, error) {
	for _, a := range c.agents {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, shared.NewAgentNotFoundError(name)
}

// Storage returns the primary hub, if built
func (c *Colony) Storage() *Structure {
	return c.firstAlive(KindStorage)
}

// Terminal returns the secondary hub, if built
func (c *Colony) Terminal() *Structure {
	return c.firstAlive(KindTerminal)
}

// Hubs returns every live hub in declaration order
func (c *Colony) Hubs() []*Structure {
	return c.byRole(RoleHub)
}

// Relays returns every live relay in declaration order
func (c *Colony) Relays() []*Structure {
	return c.byRole(RoleRelay)
}

// HasHatcheryBattery reports whether a spawn-side battery exists
func (c *Colony) HasHatcheryBattery() bool {
	return c.firstAlive(KindHatcheryBattery) != nil
}

// Target finds any live request target by ID
func (c *Colony) Target(id string) (Target, bool) {
	if s := c.findStructure(id); s != nil && s.Alive() {
		return s, true
	}
	for _, p := range c.piles {
		if p.ID() == id && p.Alive() {
			return p, true
		}
	}
	for _, r := range c.remains {
		if r.ID() == id && r.Alive() {
			return r, true
		}
	}
	return nil, false
}

// Structure finds a structure by ID, alive or not
func (c *Colony) Structure(id string) *Structure {
	return c.findStructure(id)
}

// PileAt finds a live pile at pos holding r
func (c *Colony) PileAt(pos shared.Position, r shared.ResourceType) *Pile {
	for _, p := range c.piles {
		if p.Alive() && p.Resource() == r && p.Pos().Equals(pos) {
			return p
		}
	}
	return nil
}

// Prune removes piles and remains that no longer exist
func (c *Colony) Prune() {
	piles := c.piles[:0]
	for _, p := range c.piles {
		if p.Alive() {
			piles = append(piles, p)
		}
	}
	c.piles = piles

	remains := c.remains[:0]
	for _, r := range c.remains {
		if r.Alive() {
			remains = append(remains, r)
		}
	}
	c.remains = remains
}

func (c *Colony) findStructure(id string) *Structure {
	for _, s := range c.structures {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

func (c *Colony) firstAlive(kind string) *Structure {
	for _, s := range c.structures {
		if s.Kind() == kind && s.Alive() {
			return s
		}
	}
	return nil
}

func (c *Colony) byRole(role Role) []*Structure {
	var out []*Structure
	for _, s := range c.structures {
		if s.Role() == role && s.Alive() {
			out = append(out, s)
		}
	}
	return out
}
