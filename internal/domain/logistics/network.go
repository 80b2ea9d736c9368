package logistics

import (
	"math"
	"sort"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
	"github.com/SupernovaXTS/overmind-logistics/pkg/utils"
)

// DefaultEpsilon floors the time cost of a choice so zero-distance options
// do not blow up the score.
const DefaultEpsilon = 0.1

// NetworkConfig tunes scoring
type NetworkConfig struct {
	Epsilon float64
}

// Network matches idle agents against one tick's requests. It owns the
// requests it was built with and shrinks them as matches are committed, so
// agents evaluated later in the same tick see what is left.
//
// A Network is single-tick and not safe for concurrent use.
type Network struct {
	requests   []*Request
	buffers    []*colony.Structure
	oracle     DistanceOracle
	forecaster Forecaster
	epsilon    float64
	commits    map[string]int
}

// NewNetwork creates a network over a request snapshot and buffer hubs
func NewNetwork(requests []*Request, buffers []*colony.Structure, oracle DistanceOracle, forecaster Forecaster, cfg NetworkConfig) *Network {
	if forecaster == nil {
		forecaster = LinearForecaster{}
	}
	epsilon := cfg.Epsilon
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Network{
		requests:   requests,
		buffers:    buffers,
		oracle:     oracle,
		forecaster: forecaster,
		epsilon:    epsilon,
		commits:    make(map[string]int),
	}
}

// BuildNetwork collects a colony's requests, discounts work already in
// flight and returns a network over the colony's hubs.
func BuildNetwork(c *colony.Colony, registry *Registry, oracle DistanceOracle, forecaster Forecaster, cfg NetworkConfig) *Network {
	n := NewNetwork(registry.Collect(c), c.Hubs(), oracle, forecaster, cfg)
	n.AccountInFlight(c.Agents(""))
	return n
}

// Requests returns every request of the snapshot, void ones included
func (n *Network) Requests() []*Request {
	return n.requests
}

// Open returns the requests that still have something to move
func (n *Network) Open() []*Request {
	var open []*Request
	for _, r := range n.requests {
		if !r.IsVoid() && r.Target().Alive() {
			open = append(open, r)
		}
	}
	return open
}

// Commits returns the quantity each agent committed this tick
func (n *Network) Commits() map[string]int {
	return n.commits
}

// AccountInFlight shrinks requests that agents with an existing plan are
// already on their way to serve.
func (n *Network) AccountInFlight(agents []*colony.Agent) {
	for _, a := range agents {
		if a.Task() == nil {
			continue
		}
		final := a.Task().Final()
		r := n.inFlightRequest(final)
		if r == nil {
			continue
		}
		quantity := final.Amount()
		if quantity == 0 {
			if r.IsInput() {
				quantity = a.Carry().Contents(r.Resource())
			} else {
				quantity = a.Carry().FreeCapacity(r.Resource())
			}
		}
		r.Shrink(quantity)
	}
}

func (n *Network) inFlightRequest(final *task.Task) *Request {
	for _, r := range n.requests {
		if r.IsVoid() || r.Target().ID() != final.TargetID() {
			continue
		}
		switch final.Kind() {
		case task.KindTransfer:
			if r.IsInput() && r.Resource() == final.Resource() {
				return r
			}
		case task.KindWithdraw, task.KindPickup:
			if r.IsOutput() && r.Resource() == final.Resource() {
				return r
			}
		case task.KindWithdrawAll:
			if r.IsOutput() && r.Resource().IsWildcard() {
				return r
			}
		}
	}
	return nil
}

// BestMatch returns the highest ranked choice across all open requests for
// the agent, or false when nothing yields a positive quantity.
func (n *Network) BestMatch(agent *colony.Agent) (*Choice, bool) {
	var best *Choice
	for _, r := range n.requests {
		if r.IsVoid() || !r.Target().Alive() {
			continue
		}
		for _, c := range n.BufferChoices(agent, r) {
			if c.DQ <= 0 {
				continue
			}
			candidate := c
			if best == nil || ranksBefore(&candidate, best) {
				best = &candidate
			}
		}
	}
	return best, best != nil
}

// RankedChoices returns every positive choice for the agent in rank order
func (n *Network) RankedChoices(agent *colony.Agent) []Choice {
	var all []Choice
	for _, r := range n.requests {
		if r.IsVoid() || !r.Target().Alive() {
			continue
		}
		for _, c := range n.BufferChoices(agent, r) {
			if c.DQ > 0 {
				all = append(all, c)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return ranksBefore(&all[i], &all[j]) })
	return all
}

// PredictedAmount forecasts the request's remaining delta at the agent's
// arrival.
func (n *Network) PredictedAmount(agent *colony.Agent, r *Request) int {
	eta, ok := n.distance(agent.Pos(), r.Target().Pos())
	if !ok {
		eta = float64(agent.Pos().RangeTo(r.Target().Pos()))
	}
	return n.forecaster.Forecast(r, eta)
}

// BufferChoices enumerates the direct route first and then a route through
// each buffer hub in declaration order. Buffers are only considered when the
// direct route cannot cover the request on its own.
func (n *Network) BufferChoices(agent *colony.Agent, r *Request) []Choice {
	amount := n.PredictedAmount(agent, r)
	switch {
	case amount > 0:
		return n.inputChoices(agent, r, amount)
	case amount < 0:
		return n.outputChoices(agent, r, -amount)
	default:
		return nil
	}
}

func (n *Network) inputChoices(agent *colony.Agent, r *Request, amount int) []Choice {
	carry := agent.Carry()
	res := r.Resource()
	target := r.Target()
	impure := carriesForeign(carry, res)

	var choices []Choice
	if !impure {
		dQ := utils.Min(amount, carry.Contents(res))
		if dt, ok := n.distance(agent.Pos(), target.Pos()); ok {
			choices = append(choices, n.score(r, nil, dQ, dt, len(choices)))
		}
		if dQ >= amount || carry.FreeCapacity(res) == 0 {
			return choices
		}
	}
	if res.IsWildcard() {
		return choices
	}

	for _, b := range n.buffers {
		if b.ID() == target.ID() || b.Store().Contents(res) <= 0 {
			continue
		}
		held, room := carry.Contents(res), carry.FreeCapacity(res)
		if carry.HasOtherThan(res) {
			// everything is offloaded at the buffer before withdrawing
			held, room = 0, carry.Capacity(res)
		}
		dQ := utils.Min(amount, held+utils.Min(room, b.Store().Contents(res)))
		dt, ok := n.route(agent.Pos(), b.Pos(), target.Pos())
		if !ok {
			continue
		}
		choices = append(choices, n.score(r, b, dQ, dt, len(choices)))
	}
	return choices
}

func (n *Network) outputChoices(agent *colony.Agent, r *Request, need int) []Choice {
	carry := agent.Carry()
	res := r.Resource()
	target := r.Target()
	impure := !res.IsWildcard() && carriesForeign(carry, res)

	var choices []Choice
	if !impure {
		dQ := utils.Min(need, carry.FreeCapacity(res))
		if dt, ok := n.distance(agent.Pos(), target.Pos()); ok {
			choices = append(choices, n.score(r, nil, dQ, dt, len(choices)))
		}
		if dQ >= need || carry.IsEmpty() {
			return choices
		}
	}

	for _, b := range n.buffers {
		if b.ID() == target.ID() || b.Store().FreeCapacity(shared.ResourceAll) < carry.UsedCapacity() {
			continue
		}
		dQ := utils.Min(need, carry.Capacity(res))
		dt, ok := n.route(agent.Pos(), b.Pos(), target.Pos())
		if !ok {
			continue
		}
		choices = append(choices, n.score(r, b, dQ, dt, len(choices)))
	}
	return choices
}

// Invalidate commits quantity of the request to the agent. The request's
// remaining delta shrinks at once so later agents see what is left.
func (n *Network) Invalidate(agent *colony.Agent, r *Request, quantity int) int {
	claimed := r.Shrink(quantity)
	n.commits[agent.Name()] += claimed
	return claimed
}

// Discard drops a request that cannot be served as configured. It stays in
// Requests with its remaining delta intact but no agent is matched to it
// again in this network.
func (n *Network) Discard(r *Request) {
	r.discarded = true
}

func (n *Network) score(r *Request, buffer *colony.Structure, dQ int, dt float64, order int) Choice {
	if dQ < 0 {
		dQ = 0
	}
	return Choice{
		Request: r,
		Buffer:  buffer,
		DQ:      dQ,
		DT:      dt,
		Score:   r.Multiplier() * float64(dQ) / math.Max(dt, n.epsilon),
		order:   order,
	}
}

func (n *Network) distance(from, to shared.Position) (float64, bool) {
	if n.oracle == nil {
		return float64(from.RangeTo(to)), true
	}
	return n.oracle.Distance(from, to, DistanceOptions{Range: task.ActionRange})
}

func (n *Network) route(from, via, to shared.Position) (float64, bool) {
	first, ok := n.distance(from, via)
	if !ok {
		return 0, false
	}
	second, ok := n.distance(via, to)
	if !ok {
		return 0, false
	}
	return first + second, true
}

// carriesForeign reports whether the carry holds a non-primary resource
// other than r. Such an agent must offload before taking unrelated work.
func carriesForeign(carry *shared.Store, r shared.ResourceType) bool {
	for _, held := range carry.Resources() {
		if held != r && !held.IsPrimary() {
			return true
		}
	}
	return false
}
