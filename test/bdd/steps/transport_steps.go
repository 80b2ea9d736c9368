package steps

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/cucumber/godog"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/simulation"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// expiryForecaster keeps a target's full amount until it expires
type expiryForecaster struct{}

func (expiryForecaster) Forecast(r *logistics.Request, eta float64) int {
	if r.ExpiresIn() > 0 && eta > float64(r.ExpiresIn()) {
		return 0
	}
	return r.Amount()
}

// agentSnapshot is what an agent held before a pass
type agentSnapshot struct {
	capacity int
	carry    map[shared.ResourceType]int
}

type transportContext struct {
	source      string
	world       *simulation.World
	forecaster  logistics.Forecaster
	usePathing  bool
	result      *transport.TickResult
	previous    *transport.TickResult
	requests    map[string]*logistics.Request
	agents      map[string]agentSnapshot
	stores      map[string]map[shared.ResourceType]int
	startEnergy int
	err         error
}

func (tc *transportContext) reset() {
	tc.source = ""
	tc.world = nil
	tc.forecaster = nil
	tc.usePathing = false
	tc.result = nil
	tc.previous = nil
	tc.requests = nil
	tc.agents = nil
	tc.stores = nil
	tc.startEnergy = 0
	tc.err = nil
}

func (tc *transportContext) coordinator() *transport.Coordinator {
	var oracle logistics.DistanceOracle
	if tc.usePathing {
		oracle = tc.world.Oracle()
	}
	return transport.NewCoordinator(transport.DefaultConfig(), oracle, tc.forecaster, nil, nil)
}

func (tc *transportContext) colonyName() string {
	return tc.world.ColonyNames()[0]
}

// Given steps

func (tc *transportContext) theWorld(doc *godog.DocString) error {
	wf, err := simulation.ParseWorldFile([]byte(doc.Content))
	if err != nil {
		return err
	}
	world, err := simulation.NewWorld(wf)
	if err != nil {
		return err
	}
	tc.source = doc.Content
	tc.world = world
	return tc.world.WithColony(context.Background(), tc.colonyName(), func(c *colony.Colony) error {
		tc.startEnergy = totalEnergy(c)
		return nil
	})
}

func (tc *transportContext) pilesVanishOnlyWhenTheyExpire() error {
	tc.forecaster = expiryForecaster{}
	return nil
}

func (tc *transportContext) transportersFollowTheTerrain() error {
	tc.usePathing = true
	return nil
}

// When steps

func (tc *transportContext) theTransportPassRuns() error {
	return tc.runPass(false)
}

func (tc *transportContext) theColonyIsRetargeted() error {
	return tc.runPass(true)
}

func (tc *transportContext) runPass(retarget bool) error {
	co := tc.coordinator()
	ctx := context.Background()
	tc.previous = tc.result
	return tc.world.WithColony(ctx, tc.colonyName(), func(c *colony.Colony) error {
		if retarget {
			for _, a := range c.Agents(colony.RoleTransport) {
				a.SetTask(nil)
			}
		}
		tc.snapshot(co, c)
		if retarget {
			tc.result, tc.err = co.Retarget(ctx, c)
		} else {
			tc.result, tc.err = co.Run(ctx, c)
		}
		return tc.err
	})
}

// snapshot records requests and stores before a pass mutates anything
func (tc *transportContext) snapshot(co *transport.Coordinator, c *colony.Colony) {
	tc.requests = make(map[string]*logistics.Request)
	for _, r := range co.Network(c).Requests() {
		tc.requests[r.ID()] = r
	}

	tc.agents = make(map[string]agentSnapshot)
	for _, a := range c.Agents("") {
		tc.agents[a.Name()] = agentSnapshot{capacity: a.Carry().Capacity(""), carry: contentsOf(a.Carry())}
	}

	tc.stores = make(map[string]map[shared.ResourceType]int)
	for _, s := range c.Structures() {
		tc.stores[s.ID()] = contentsOf(s.Store())
	}
}

func (tc *transportContext) ticksAreSimulated(ticks int) error {
	co := tc.coordinator()
	ctx := context.Background()
	for i := 0; i < ticks; i++ {
		err := tc.world.WithColony(ctx, tc.colonyName(), func(c *colony.Colony) error {
			var err error
			tc.result, err = co.Run(ctx, c)
			return err
		})
		if err != nil {
			return err
		}
		if err := tc.world.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Then steps

func (tc *transportContext) assignment(agent string) (*transport.Assignment, error) {
	if tc.result == nil {
		return nil, fmt.Errorf("no transport pass has run")
	}
	for i := range tc.result.Assignments {
		if tc.result.Assignments[i].Agent == agent {
			return &tc.result.Assignments[i], nil
		}
	}
	return nil, fmt.Errorf("no assignment for %s", agent)
}

func (tc *transportContext) isMatchedToFor(agent, request string, quantity int) error {
	a, err := tc.assignment(agent)
	if err != nil {
		return err
	}
	if a.Outcome != transport.OutcomeMatched {
		return fmt.Errorf("expected %s to be matched, got %s (%s)", agent, a.Outcome, a.Error)
	}
	if a.Request != request {
		return fmt.Errorf("expected %s matched to %s, got %s", agent, request, a.Request)
	}
	if a.Quantity != quantity {
		return fmt.Errorf("expected %s to commit %d, got %d", agent, quantity, a.Quantity)
	}
	return nil
}

func (tc *transportContext) hasOutcome(agent, outcome string) error {
	a, err := tc.assignment(agent)
	if err != nil {
		return err
	}
	if string(a.Outcome) != outcome {
		return fmt.Errorf("expected %s to be %s, got %s", agent, outcome, a.Outcome)
	}
	return nil
}

func (tc *transportContext) fallsBackTo(agent, sink string) error {
	a, err := tc.assignment(agent)
	if err != nil {
		return err
	}
	if a.Outcome != transport.OutcomeFallback || a.Via != sink {
		return fmt.Errorf("expected %s to fall back to %s, got %s via %s", agent, sink, a.Outcome, a.Via)
	}
	return nil
}

func (tc *transportContext) theTaskOfIs(agent, expected string) error {
	a, err := tc.assignment(agent)
	if err != nil {
		return err
	}
	if a.Task != expected {
		return fmt.Errorf("expected task %q, got %q", expected, a.Task)
	}
	return nil
}

func (tc *transportContext) theTaskOfStartsWith(agent, prefix string) error {
	a, err := tc.assignment(agent)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(a.Task, prefix) {
		return fmt.Errorf("expected task of %s to start with %q, got %q", agent, prefix, a.Task)
	}
	return nil
}

func (tc *transportContext) noAssignmentFailed() error {
	for _, a := range tc.result.Assignments {
		if a.Outcome == transport.OutcomeError {
			return fmt.Errorf("%s failed: %s", a.Agent, a.Error)
		}
	}
	return nil
}

// everyCommitmentIsPhysicallyPossible checks each committed quantity against
// the agent, the buffer it routes through and the request it serves
func (tc *transportContext) everyCommitmentIsPhysicallyPossible() error {
	for _, a := range tc.result.Assignments {
		if a.Outcome != transport.OutcomeMatched {
			continue
		}
		r, ok := tc.requests[a.Request]
		if !ok {
			return fmt.Errorf("%s matched to unknown request %s", a.Agent, a.Request)
		}
		snap := tc.agents[a.Agent]

		if a.Quantity > snap.capacity {
			return fmt.Errorf("%s committed %d over its capacity %d", a.Agent, a.Quantity, snap.capacity)
		}
		if a.Quantity > r.Magnitude() {
			return fmt.Errorf("%s committed %d over the remaining %d of %s", a.Agent, a.Quantity, r.Magnitude(), r.ID())
		}
		if !r.IsInput() {
			continue
		}

		available := snap.carry[r.Resource()]
		if a.Via != r.Target().ID() {
			available += tc.stores[a.Via][r.Resource()]
		}
		if a.Quantity > available {
			return fmt.Errorf("%s committed %d but only %d %s is reachable", a.Agent, a.Quantity, available, r.Resource())
		}
	}
	return nil
}

func (tc *transportContext) noRequestIsOvercommitted() error {
	committed := make(map[string]int)
	for _, a := range tc.result.Assignments {
		if a.Outcome == transport.OutcomeMatched {
			committed[a.Request] += a.Quantity
		}
	}
	for id, total := range committed {
		r := tc.requests[id]
		if total > r.Magnitude() {
			return fmt.Errorf("request %s of %d received %d in commitments", id, r.Magnitude(), total)
		}
	}
	return nil
}

func (tc *transportContext) theAssignmentsAreUnchanged() error {
	if tc.previous == nil {
		return fmt.Errorf("only one pass has run")
	}
	if !reflect.DeepEqual(tc.previous.Assignments, tc.result.Assignments) {
		return fmt.Errorf("assignments changed:\n%v\n%v", tc.previous.Assignments, tc.result.Assignments)
	}
	return nil
}

func (tc *transportContext) anIdenticalWorldGivesTheSameAssignments() error {
	first := tc.result
	doc := &godog.DocString{Content: tc.source}
	if err := tc.theWorld(doc); err != nil {
		return err
	}
	if err := tc.theTransportPassRuns(); err != nil {
		return err
	}
	if !reflect.DeepEqual(first.Assignments, tc.result.Assignments) {
		return fmt.Errorf("identical worlds diverged:\n%v\n%v", first.Assignments, tc.result.Assignments)
	}
	return nil
}

func (tc *transportContext) holdsAtLeast(id string, amount int, resource string) error {
	return tc.world.WithColony(context.Background(), tc.colonyName(), func(c *colony.Colony) error {
		s := c.Structure(id)
		if s == nil {
			return fmt.Errorf("structure %s not found", id)
		}
		if got := s.Store().Contents(shared.ResourceType(resource)); got < amount {
			return fmt.Errorf("expected %s to hold at least %d %s, got %d", id, amount, resource, got)
		}
		return nil
	})
}

func (tc *transportContext) theTotalEnergyIsUnchanged() error {
	return tc.world.WithColony(context.Background(), tc.colonyName(), func(c *colony.Colony) error {
		if got := totalEnergy(c); got != tc.startEnergy {
			return fmt.Errorf("energy not conserved: started with %d, now %d", tc.startEnergy, got)
		}
		return nil
	})
}

func contentsOf(store *shared.Store) map[shared.ResourceType]int {
	out := make(map[shared.ResourceType]int)
	for _, r := range store.Resources() {
		out[r] = store.Contents(r)
	}
	return out
}

func totalEnergy(c *colony.Colony) int {
	total := 0
	for _, s := range c.Structures() {
		total += s.Store().Contents(shared.ResourceEnergy)
	}
	for _, a := range c.Agents("") {
		total += a.Carry().Contents(shared.ResourceEnergy)
	}
	for _, p := range c.Piles() {
		if p.Resource() == shared.ResourceEnergy {
			total += p.Amount()
		}
	}
	for _, r := range c.Remains() {
		total += r.Store().Contents(shared.ResourceEnergy)
	}
	return total
}

// InitializeTransportScenario registers the matching, fallback and world steps
func InitializeTransportScenario(sc *godog.ScenarioContext) {
	tc := &transportContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	sc.Step(`^the world:$`, tc.theWorld)
	sc.Step(`^piles vanish only when they expire$`, tc.pilesVanishOnlyWhenTheyExpire)
	sc.Step(`^transporters follow the terrain$`, tc.transportersFollowTheTerrain)

	sc.Step(`^the transport pass runs$`, tc.theTransportPassRuns)
	sc.Step(`^the colony is retargeted$`, tc.theColonyIsRetargeted)
	sc.Step(`^(\d+) ticks are simulated$`, tc.ticksAreSimulated)

	sc.Step(`^"([^"]*)" is matched to "([^"]*)" for (\d+)$`, tc.isMatchedToFor)
	sc.Step(`^"([^"]*)" is (matched|fallback|parked|evading|busy|skipped|error)$`, tc.hasOutcome)
	sc.Step(`^"([^"]*)" falls back to "([^"]*)"$`, tc.fallsBackTo)
	sc.Step(`^the task of "([^"]*)" is "([^"]*)"$`, tc.theTaskOfIs)
	sc.Step(`^the task of "([^"]*)" starts with "([^"]*)"$`, tc.theTaskOfStartsWith)
	sc.Step(`^no assignment failed$`, tc.noAssignmentFailed)
	sc.Step(`^every commitment is physically possible$`, tc.everyCommitmentIsPhysicallyPossible)
	sc.Step(`^no request is overcommitted$`, tc.noRequestIsOvercommitted)
	sc.Step(`^the assignments are unchanged$`, tc.theAssignmentsAreUnchanged)
	sc.Step(`^an identical world gives the same assignments$`, tc.anIdenticalWorldGivesTheSameAssignments)
	sc.Step(`^"([^"]*)" holds at least (\d+) (\w+)$`, tc.holdsAtLeast)
	sc.Step(`^the total energy is unchanged$`, tc.theTotalEnergyIsUnchanged)
}
