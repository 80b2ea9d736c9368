package fleet

import (
	"fmt"
	"math"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// SelectionResult contains the fallback destination chosen for an idle agent
type SelectionResult struct {
	Sink   *colony.Structure
	Cost   float64
	Reason string // why this sink was chosen (e.g. "non-primary cargo", "lowest contention")
	// Amount is how much of the carry the sink can take
	Amount int
}

// Selector picks fallback destinations for agents without a match
type Selector struct{}

// NewSelector creates a new fallback selector
func NewSelector() *Selector {
	return &Selector{}
}

// SelectDropoff chooses where an idle agent unloads its carry.
//
// Business Rules:
// 1. Non-primary cargo goes to the terminal, else the storage
// 2. Primary cargo goes to the sink with the lowest cost among the storage
//    and every relay, where a relay costs max(range, dropoff availability)
// 3. Sinks that can take the whole load win over sinks that cannot; a
//    partial sink is only used when no sink has room for everything
// 4. Ties keep the first sink in declaration order (storage before relays)
func (s *Selector) SelectDropoff(agent *colony.Agent, c *colony.Colony) (*SelectionResult, error) {
	carry := agent.Carry()
	if carry.IsEmpty() {
		return nil, fmt.Errorf("agent %s carries nothing", agent.Name())
	}

	if carry.HasNonPrimary() {
		target := c.Terminal()
		if target == nil {
			target = c.Storage()
		}
		if target == nil {
			return nil, fmt.Errorf("no hub accepts non-primary cargo in colony %s", c.Name())
		}
		return &SelectionResult{
			Sink:   target,
			Cost:   float64(agent.Pos().RangeTo(target.Pos())),
			Reason: "non-primary cargo",
			Amount: carry.UsedCapacity(),
		}, nil
	}

	var candidates []*colony.Structure
	if storage := c.Storage(); storage != nil {
		candidates = append(candidates, storage)
	}
	candidates = append(candidates, c.Relays()...)

	load := carry.Contents(shared.ResourceEnergy)
	best, bestCost := cheapestSink(agent, candidates, load)
	reason := "lowest contention"
	if best == nil {
		best, bestCost = cheapestSink(agent, candidates, 1)
		reason = "partial dropoff"
	}
	if best == nil {
		return nil, fmt.Errorf("no dropoff point with free capacity in colony %s", c.Name())
	}

	return &SelectionResult{
		Sink:   best,
		Cost:   bestCost,
		Reason: reason,
		Amount: min(load, best.Store().FreeCapacity(shared.ResourceEnergy)),
	}, nil
}

// cheapestSink returns the lowest cost sink with at least room free
func cheapestSink(agent *colony.Agent, candidates []*colony.Structure, room int) (*colony.Structure, float64) {
	var best *colony.Structure
	bestCost := math.MaxFloat64
	for _, sink := range candidates {
		if sink.Store().FreeCapacity(shared.ResourceEnergy) < room {
			continue
		}
		cost := float64(agent.Pos().RangeTo(sink.Pos()))
		if sink.Role() == colony.RoleRelay {
			cost = math.Max(cost, float64(sink.DropoffAvailability()))
		}
		if cost < bestCost {
			bestCost = cost
			best = sink
		}
	}
	return best, bestCost
}

// SelectParking returns where an empty idle agent waits: the storage, else
// the planned storage position, else where it stands.
func (s *Selector) SelectParking(agent *colony.Agent, c *colony.Colony) (shared.Position, string) {
	if storage := c.Storage(); storage != nil {
		return storage.Pos(), "storage"
	}
	if planned := c.PlannedStorage(); planned != nil {
		return *planned, "planned storage"
	}
	return agent.Pos(), "in place"
}
