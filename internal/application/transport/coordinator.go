package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/metrics"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// Config holds the coordinator's tunables
type Config struct {
	Network logistics.NetworkConfig
	// DangerTimer is how many ticks an agent keeps evading after a threat
	DangerTimer int
	// DropOnDanger makes evading agents drop their energy first
	DropOnDanger bool
	// DowntimeWindow is the moving average window of the downtime stat
	DowntimeWindow int
}

// DefaultConfig returns the stock coordinator settings
func DefaultConfig() Config {
	return Config{
		Network:        logistics.NetworkConfig{Epsilon: logistics.DefaultEpsilon},
		DangerTimer:    5,
		DropOnDanger:   true,
		DowntimeWindow: 1500,
	}
}

// Outcome is what happened to one agent during a pass
type Outcome string

const (
	OutcomeMatched  Outcome = "matched"
	OutcomeFallback Outcome = "fallback"
	OutcomeParked   Outcome = "parked"
	OutcomeEvading  Outcome = "evading"
	OutcomeBusy     Outcome = "busy"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

// Assignment records the decision taken for one agent
type Assignment struct {
	Agent    string
	Outcome  Outcome
	Request  string
	Via      string
	Quantity int
	Task     string
	Error    string
}

// TickResult summarises one coordinator pass
type TickResult struct {
	Colony      string
	Tick        int
	Requests    int
	Assignments []Assignment
	// Discarded lists requests dropped from the pass as misconfigured
	Discarded   []string
	Downtime    float64
	Duration    time.Duration
}

// Count returns how many agents ended with the outcome
func (r *TickResult) Count(outcome Outcome) int {
	n := 0
	for _, a := range r.Assignments {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}

// Report converts the result into a persisted summary
func (r *TickResult) Report() *common.TickReport {
	return &common.TickReport{
		Colony:    r.Colony,
		Tick:      r.Tick,
		Agents:    len(r.Assignments),
		Matched:   r.Count(OutcomeMatched),
		Fallbacks: r.Count(OutcomeFallback),
		Parked:    r.Count(OutcomeParked),
		Evading:   r.Count(OutcomeEvading),
		Errors:    r.Count(OutcomeError),
		Downtime:  r.Downtime,
		Requests:  r.Requests,
	}
}

// Coordinator runs the transport pass of a colony: it matches idle agents
// against the tick's requests and gives every other agent something sensible
// to do. One agent's failure never blocks the others.
type Coordinator struct {
	cfg        Config
	registry   *logistics.Registry
	oracle     logistics.DistanceOracle
	forecaster logistics.Forecaster
	selector   *fleet.Selector
	telemetry  common.TelemetrySink
	memory     common.ColonyMemory
}

// NewCoordinator creates a coordinator. telemetry and memory may be nil.
func NewCoordinator(
	cfg Config,
	oracle logistics.DistanceOracle,
	forecaster logistics.Forecaster,
	telemetry common.TelemetrySink,
	memory common.ColonyMemory,
) *Coordinator {
	if cfg.DowntimeWindow <= 0 {
		cfg.DowntimeWindow = DefaultConfig().DowntimeWindow
	}
	if forecaster == nil {
		forecaster = logistics.LinearForecaster{}
	}
	return &Coordinator{
		cfg:        cfg,
		registry:   logistics.NewRegistry(),
		oracle:     oracle,
		forecaster: forecaster,
		selector:   fleet.NewSelector(),
		telemetry:  telemetry,
		memory:     memory,
	}
}

// Network builds a fresh matching network for the colony's current state
func (co *Coordinator) Network(c *colony.Colony) *logistics.Network {
	return logistics.BuildNetwork(c, co.registry, co.oracle, co.forecaster, co.cfg.Network)
}

// Run performs one transport pass over the colony's transporters in
// creation order, then updates the downtime statistic.
func (co *Coordinator) Run(ctx context.Context, c *colony.Colony) (*TickResult, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx)

	result, err := co.assign(ctx, c)
	if err != nil {
		return result, err
	}

	downtime, err := co.recordDowntime(ctx, c)
	if err != nil {
		logger.Log(common.LevelWarning, "Failed to persist transport downtime", map[string]interface{}{
			"colony": c.Name(),
			"error":  err.Error(),
		})
	}
	result.Downtime = downtime
	result.Duration = time.Since(start)

	metrics.RecordTick(metrics.TickSample{
		Colony:    c.Name(),
		Matched:   result.Count(OutcomeMatched),
		Fallbacks: result.Count(OutcomeFallback),
		Parked:    result.Count(OutcomeParked),
		Evading:   result.Count(OutcomeEvading),
		Errors:    result.Count(OutcomeError),
		Downtime:  downtime,
		Duration:  result.Duration,
	})

	return result, nil
}

// Retarget clears every transporter's task and reruns the assignment pass
// against a fresh network. Only task fields change, so running it twice in a
// row yields the same assignments.
func (co *Coordinator) Retarget(ctx context.Context, c *colony.Colony) (*TickResult, error) {
	start := time.Now()
	for _, agent := range c.Agents(colony.RoleTransport) {
		agent.SetTask(nil)
	}
	result, err := co.assign(ctx, c)
	result.Duration = time.Since(start)
	return result, err
}

func (co *Coordinator) assign(ctx context.Context, c *colony.Colony) (*TickResult, error) {
	n := co.Network(c)
	result := &TickResult{Colony: c.Name(), Tick: c.Tick(), Requests: len(n.Open())}

	for _, agent := range c.Agents(colony.RoleTransport) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Assignments = append(result.Assignments, co.runAgent(ctx, c, n, agent))
	}
	for _, r := range n.Requests() {
		if r.Discarded() {
			result.Discarded = append(result.Discarded, r.ID())
		}
	}
	return result, nil
}

func (co *Coordinator) runAgent(ctx context.Context, c *colony.Colony, n *logistics.Network, agent *colony.Agent) (assignment Assignment) {
	assignment = Assignment{Agent: agent.Name()}
	logger := common.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Log(common.LevelError, "Transport assignment panicked", map[string]interface{}{
				"agent": agent.Name(),
				"panic": fmt.Sprint(r),
			})
			agent.SetTask(nil)
			assignment = Assignment{Agent: agent.Name(), Outcome: OutcomeError, Error: fmt.Sprint(r)}
		}
	}()

	if agent.IsSpawning() {
		assignment.Outcome = OutcomeSkipped
		return assignment
	}

	if agent.InDanger(c.Tick()) {
		co.evade(c, agent)
		assignment.Outcome = OutcomeEvading
		assignment.Task = agent.Task().String()
		return assignment
	}
	clearFinishedEvasion(agent)

	if (agent.HasTask() && !isParked(agent)) || agent.IsAsleep(c.Tick()) {
		assignment.Outcome = OutcomeBusy
		return assignment
	}

	choice, ok := n.BestMatch(agent)
	if !ok {
		return co.fallback(ctx, c, agent)
	}

	predicted := n.PredictedAmount(agent, choice.Request)
	t, err := co.planTask(c, agent, choice, predicted)
	if err != nil {
		logger.Log(common.LevelError, "Discarding logistics request", map[string]interface{}{
			"agent":   agent.Name(),
			"request": choice.Request.ID(),
			"error":   err.Error(),
		})
		// The agent stays idle this pass; later agents move on to their
		// next-best request.
		n.Discard(choice.Request)
		assignment.Outcome = OutcomeError
		assignment.Request = choice.Request.ID()
		assignment.Error = err.Error()
		return assignment
	}

	agent.SetTask(t)
	claimed := n.Invalidate(agent, choice.Request, choice.DQ)

	assignment.Outcome = OutcomeMatched
	if t.Final().Kind() == task.KindPark {
		assignment.Outcome = OutcomeParked
	}
	assignment.Request = choice.Request.ID()
	assignment.Via = choice.Via()
	assignment.Quantity = claimed
	assignment.Task = t.String()

	logger.Log(common.LevelDebug, "Transporter matched", map[string]interface{}{
		"agent":     agent.Name(),
		"request":   choice.Request.ID(),
		"via":       choice.Via(),
		"quantity":  claimed,
		"predicted": predicted,
		"score":     choice.Score,
	})
	return assignment
}

// isParked reports whether the agent only waits at a parking spot; parked
// agents are reconsidered every pass.
func isParked(agent *colony.Agent) bool {
	t := agent.Task()
	return t != nil && t.Final().Kind() == task.KindPark
}
