package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/routing"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// ErrColonyNotFound is returned for colonies the world does not simulate
var ErrColonyNotFound = errors.New("colony not found")

// SpawnSource is where the world picks up the spawn requests it should build
type SpawnSource interface {
	Pending(ctx context.Context, colony string) ([]fleet.SpawnRequest, error)
	MarkFulfilled(ctx context.Context, id string) error
}

// threatWindow threatens an agent for ticks in [from, until)
type threatWindow struct {
	agent   string
	from    int
	until   int
	retreat *shared.Position
}

func (w threatWindow) active(tick int) bool {
	return tick >= w.from && tick < w.until
}

type colonyState struct {
	colony  *colony.Colony
	walls   map[[2]int]bool
	threats []threatWindow
	// readyAt is the tick a spawning agent finishes
	readyAt map[string]int
	// rateCarry accumulates fractional structure production
	rateCarry map[string]float64
	nextSeq   int
	drops     int
}

// World is an in-process stand-in for the game: it owns the colony snapshots,
// executes agent tasks tick by tick and builds the agents the spawn queue asks
// for. It is safe for concurrent use; every access goes through the lock.
type World struct {
	mu       sync.Mutex
	colonies map[string]*colonyState
	names    []string
	oracle   *routing.CachingOracle

	relayCooldown    int
	pileDecay        int
	spawnTimePerPart int
	carryCapacity    int
}

// NewWorld builds a world from its file description
func NewWorld(wf *WorldFile) (*World, error) {
	zones := routing.NewZoneOracle(routing.NewRangeOracle())
	w := &World{
		colonies:         make(map[string]*colonyState, len(wf.Colonies)),
		relayCooldown:    wf.RelayCooldown,
		pileDecay:        wf.PileDecay,
		spawnTimePerPart: wf.SpawnTimePerPart,
		carryCapacity:    wf.CarryCapacity,
	}

	for _, cs := range wf.Colonies {
		c, err := cs.Build(wf)
		if err != nil {
			return nil, fmt.Errorf("failed to build colony %s: %w", cs.Name, err)
		}

		grid := routing.NewGridOracle(cs.Name, ZoneSize, ZoneSize)
		walls := make(map[[2]int]bool, len(cs.Terrain.Walls))
		for _, p := range cs.Terrain.Walls {
			grid.SetTerrain(p.X, p.Y, routing.TerrainWall)
			walls[[2]int{p.X, p.Y}] = true
		}
		for _, p := range cs.Terrain.Swamps {
			grid.SetTerrain(p.X, p.Y, routing.TerrainSwamp)
		}
		zones.Add(cs.Name, grid)

		st := &colonyState{
			colony:    c,
			walls:     walls,
			readyAt:   make(map[string]int),
			rateCarry: make(map[string]float64),
		}
		for _, a := range c.Agents("") {
			if a.Seq() >= st.nextSeq {
				st.nextSeq = a.Seq() + 1
			}
		}
		for _, t := range cs.Threats {
			if _, err := c.Agent(t.Agent); err != nil {
				return nil, fmt.Errorf("threat on colony %s: %w", cs.Name, err)
			}
			window := threatWindow{agent: t.Agent, from: t.From, until: t.Until}
			if t.Retreat != nil {
				p := t.Retreat.position(cs.Name)
				window.retreat = &p
			}
			st.threats = append(st.threats, window)
		}
		st.applyThreats()

		w.colonies[cs.Name] = st
		w.names = append(w.names, cs.Name)
	}
	sort.Strings(w.names)

	oracle, err := routing.NewCachingOracle(zones, routing.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	w.oracle = oracle
	return w, nil
}

// LoadWorld reads a world file and builds the world
func LoadWorld(path string) (*World, error) {
	wf, err := LoadWorldFile(path)
	if err != nil {
		return nil, err
	}
	return NewWorld(wf)
}

// Oracle returns the distance oracle matching the world's terrain
func (w *World) Oracle() logistics.DistanceOracle {
	return w.oracle
}

// ColonyNames returns the simulated colonies in name order
func (w *World) ColonyNames() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// WithColony runs fn with the colony locked
func (w *World) WithColony(ctx context.Context, name string, fn func(c *colony.Colony) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.colonies[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColonyNotFound, name)
	}
	return fn(st.colony)
}

// Step executes one tick of every colony
func (w *World) Step(ctx context.Context) error {
	for _, name := range w.names {
		if err := w.StepColony(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// StepColony executes one tick of a single colony: agents act on their tasks,
// structures produce and consume, ground drops decay, then the clock advances
func (w *World) StepColony(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.colonies[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrColonyNotFound, name)
	}
	w.step(ctx, st)
	return nil
}

// FulfillSpawns builds the agents requested by pending spawn requests and
// marks the requests fulfilled. It returns how many agents were started.
func (w *World) FulfillSpawns(ctx context.Context, source SpawnSource) (int, error) {
	logger := common.LoggerFromContext(ctx)
	spawned := 0

	for _, name := range w.names {
		pending, err := source.Pending(ctx, name)
		if err != nil {
			return spawned, fmt.Errorf("failed to list spawn requests: %w", err)
		}

		for _, req := range pending {
			n, err := w.spawn(name, req)
			if err != nil {
				return spawned, err
			}
			if err := source.MarkFulfilled(ctx, req.ID); err != nil {
				return spawned, fmt.Errorf("failed to mark spawn request %s: %w", req.ID, err)
			}
			spawned += n
			if n > 0 {
				logger.Log(common.LevelInfo, "Agents spawning", map[string]interface{}{
					"colony": name,
					"role":   req.Role,
					"count":  n,
					"setup":  req.Setup,
				})
			}
		}
	}
	return spawned, nil
}

func (w *World) spawn(name string, req fleet.SpawnRequest) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.colonies[name]
	c := st.colony
	missing := req.Count - len(c.Agents(req.Role))
	capacity := w.carryCapacity * countParts(req.Body, fleet.PartCarry)

	for i := 0; i < missing; i++ {
		seq := st.nextSeq
		st.nextSeq++

		carry, err := shared.NewStore(capacity, nil)
		if err != nil {
			return i, err
		}
		agent, err := colony.NewAgent(fmt.Sprintf("%s-%d", req.Role, seq), req.Role, seq, c.Anchor(), carry)
		if err != nil {
			return i, err
		}
		agent.SetBody(req.Body)
		agent.SetSpawning(true)
		if err := c.AddAgent(agent); err != nil {
			return i, err
		}
		st.readyAt[agent.Name()] = c.Tick() + w.spawnTimePerPart*len(req.Body)
	}
	if missing < 0 {
		missing = 0
	}
	return missing, nil
}

func (st *colonyState) applyThreats() {
	if len(st.threats) == 0 {
		return
	}
	tick := st.colony.Tick()
	for _, a := range st.colony.Agents("") {
		threatened := false
		var retreat *shared.Position
		for _, t := range st.threats {
			if t.agent == a.Name() && t.active(tick) {
				threatened = true
				retreat = t.retreat
			}
		}
		a.SetThreat(threatened, retreat)
	}
}
