package simulation

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// ZoneSize is the width and height of every zone grid
const ZoneSize = 50

// WorldFile is the on-disk description of a simulated world
type WorldFile struct {
	// RelayCooldown is how many ticks a relay stays congested after a delivery
	RelayCooldown int `yaml:"relay_cooldown" validate:"gte=0"`
	// PileDecay is the default per-tick decay of piles without their own
	PileDecay int `yaml:"pile_decay" validate:"gte=0"`
	// SpawnTimePerPart is how many ticks each body part takes to build
	SpawnTimePerPart int `yaml:"spawn_time_per_part" validate:"gte=0"`
	// CarryCapacity is how much one carry part holds
	CarryCapacity int          `yaml:"carry_capacity" validate:"gt=0"`
	Colonies      []ColonySpec `yaml:"colonies" validate:"required,min=1,dive"`
}

// PositionSpec is a tile, optionally in another zone than the colony's
type PositionSpec struct {
	X    int    `yaml:"x" validate:"gte=0,lt=50"`
	Y    int    `yaml:"y" validate:"gte=0,lt=50"`
	Zone string `yaml:"zone,omitempty"`
}

// TerrainSpec lists the non-plain tiles of a zone
type TerrainSpec struct {
	Walls  []PositionSpec `yaml:"walls" validate:"dive"`
	Swamps []PositionSpec `yaml:"swamps" validate:"dive"`
}

// ColonySpec describes one colony and everything it owns
type ColonySpec struct {
	Name           string        `yaml:"name" validate:"required"`
	Anchor         PositionSpec  `yaml:"anchor"`
	Tick           int           `yaml:"tick" validate:"gte=0"`
	EnergyCapacity int           `yaml:"energy_capacity" validate:"gte=0"`
	RoadCoverage   float64       `yaml:"road_coverage" validate:"gte=0,lte=1"`
	LowPower       bool          `yaml:"low_power"`
	PlannedStorage *PositionSpec `yaml:"planned_storage"`
	Terrain        TerrainSpec   `yaml:"terrain"`

	Structures  []StructureSpec  `yaml:"structures" validate:"dive"`
	Piles       []PileSpec       `yaml:"piles" validate:"dive"`
	Remains     []RemainsSpec    `yaml:"remains" validate:"dive"`
	MiningSites []MiningSiteSpec `yaml:"mining_sites" validate:"dive"`
	UpgradeSite *UpgradeSiteSpec `yaml:"upgrade_site"`
	Agents      []AgentSpec      `yaml:"agents" validate:"dive"`
	Threats     []ThreatSpec     `yaml:"threats" validate:"dive"`
}

// StructureSpec describes a store-bearing structure
type StructureSpec struct {
	ID       string         `yaml:"id" validate:"required"`
	Kind     string         `yaml:"kind"`
	Role     string         `yaml:"role" validate:"required,oneof=consumer provider hub relay"`
	Pos      PositionSpec   `yaml:"pos"`
	Resource string         `yaml:"resource"`
	Capacity int            `yaml:"capacity" validate:"gte=0"`
	Limits   map[string]int `yaml:"limits" validate:"dive,gte=0"`
	Contents map[string]int `yaml:"contents" validate:"dive,gte=0"`
	Level    int            `yaml:"level" validate:"gte=0"`
	// Rate is the net inflow of the structure's resource per tick
	Rate                float64 `yaml:"rate"`
	Multiplier          float64 `yaml:"multiplier" validate:"gte=0"`
	Priority            int     `yaml:"priority"`
	Outpost             bool    `yaml:"outpost"`
	DropoffAvailability int     `yaml:"dropoff_availability" validate:"gte=0"`
}

// PileSpec describes a resource lying on the ground
type PileSpec struct {
	ID       string       `yaml:"id" validate:"required"`
	Pos      PositionSpec `yaml:"pos"`
	Resource string       `yaml:"resource" validate:"required"`
	Amount   int          `yaml:"amount" validate:"gt=0"`
	Decay    *int         `yaml:"decay" validate:"omitempty,gte=0"`
}

// RemainsSpec describes a tombstone or ruin
type RemainsSpec struct {
	ID        string         `yaml:"id" validate:"required"`
	Class     string         `yaml:"class" validate:"required,oneof=tombstone ruin"`
	Pos       PositionSpec   `yaml:"pos"`
	Contents  map[string]int `yaml:"contents" validate:"required,dive,gte=0"`
	ExpiresIn int            `yaml:"expires_in" validate:"gt=0"`
}

// MiningSiteSpec describes a harvested source
type MiningSiteSpec struct {
	Name          string       `yaml:"name" validate:"required"`
	Pos           PositionSpec `yaml:"pos"`
	EnergyPerTick float64      `yaml:"energy_per_tick" validate:"gte=0"`
	Distance      float64      `yaml:"distance" validate:"gte=0"`
	Suspended     bool         `yaml:"suspended"`
	Miners        int          `yaml:"miners" validate:"gte=0"`
	HasContainer  bool         `yaml:"has_container"`
	HasLink       bool         `yaml:"has_link"`
	DropMining    bool         `yaml:"drop_mining"`
}

// UpgradeSiteSpec describes the upgrade battery
type UpgradeSiteSpec struct {
	BatteryID   string        `yaml:"battery_id"`
	BatteryPos  *PositionSpec `yaml:"battery_pos"`
	PowerNeeded float64       `yaml:"power_needed" validate:"gte=0"`
}

// AgentSpec describes an agent present at start
type AgentSpec struct {
	Name       string         `yaml:"name" validate:"required"`
	Role       string         `yaml:"role"`
	Seq        int            `yaml:"seq" validate:"gte=0"`
	Pos        PositionSpec   `yaml:"pos"`
	Capacity   int            `yaml:"capacity" validate:"gte=0"`
	Contents   map[string]int `yaml:"contents" validate:"dive,gte=0"`
	Body       []string       `yaml:"body"`
	Spawning   bool           `yaml:"spawning"`
	Threatened bool           `yaml:"threatened"`
	Retreat    *PositionSpec  `yaml:"retreat"`
}

// ThreatSpec threatens an agent during [From, Until)
type ThreatSpec struct {
	Agent   string        `yaml:"agent" validate:"required"`
	From    int           `yaml:"from" validate:"gte=0"`
	Until   int           `yaml:"until" validate:"gtfield=From"`
	Retreat *PositionSpec `yaml:"retreat"`
}

// LoadWorldFile reads and validates a world file
func LoadWorldFile(path string) (*WorldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	wf, err := ParseWorldFile(data)
	if err != nil {
		return nil, fmt.Errorf("world file %s: %w", path, err)
	}
	return wf, nil
}

// ParseWorldFile decodes and validates a world description
func ParseWorldFile(data []byte) (*WorldFile, error) {
	wf := &WorldFile{
		RelayCooldown:    5,
		PileDecay:        1,
		SpawnTimePerPart: 3,
		CarryCapacity:    50,
	}
	if err := yaml.Unmarshal(data, wf); err != nil {
		return nil, fmt.Errorf("failed to parse world: %w", err)
	}
	if err := validator.New().Struct(wf); err != nil {
		return nil, fmt.Errorf("invalid world: %w", err)
	}

	seen := make(map[string]bool, len(wf.Colonies))
	for _, c := range wf.Colonies {
		if seen[c.Name] {
			return nil, fmt.Errorf("invalid world: duplicate colony %q", c.Name)
		}
		seen[c.Name] = true
	}
	return wf, nil
}

func (p PositionSpec) position(zone string) shared.Position {
	if p.Zone != "" {
		zone = p.Zone
	}
	return shared.NewPosition(p.X, p.Y, zone)
}

func resources(in map[string]int) map[shared.ResourceType]int {
	out := make(map[shared.ResourceType]int, len(in))
	for r, units := range in {
		out[shared.ResourceType(r)] = units
	}
	return out
}

func (s StructureSpec) build(zone string) (*colony.Structure, error) {
	var (
		store *shared.Store
		err   error
	)
	if len(s.Limits) > 0 {
		store, err = shared.NewLimitedStore(resources(s.Limits), resources(s.Contents))
	} else {
		store, err = shared.NewStore(s.Capacity, resources(s.Contents))
	}
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", s.ID, err)
	}

	st, err := colony.NewStructure(colony.StructureSpec{
		ID:         s.ID,
		Kind:       s.Kind,
		Role:       colony.Role(s.Role),
		Pos:        s.Pos.position(zone),
		Store:      store,
		Resource:   shared.ResourceType(s.Resource),
		Level:      s.Level,
		Rate:       s.Rate,
		Multiplier: s.Multiplier,
		Priority:   s.Priority,
		Outpost:    s.Outpost,
	})
	if err != nil {
		return nil, err
	}
	st.SetDropoffAvailability(s.DropoffAvailability)
	return st, nil
}

func (a AgentSpec) build(zone string, carryCapacity int) (*colony.Agent, error) {
	capacity := a.Capacity
	if capacity == 0 {
		capacity = carryCapacity * countParts(a.Body, fleet.PartCarry)
	}
	carry, err := shared.NewStore(capacity, resources(a.Contents))
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.Name, err)
	}
	role := a.Role
	if role == "" {
		role = colony.RoleTransport
	}
	agent, err := colony.NewAgent(a.Name, role, a.Seq, a.Pos.position(zone), carry)
	if err != nil {
		return nil, err
	}
	if len(a.Body) > 0 {
		agent.SetBody(a.Body)
	}
	agent.SetSpawning(a.Spawning)
	if a.Threatened {
		var retreat *shared.Position
		if a.Retreat != nil {
			p := a.Retreat.position(zone)
			retreat = &p
		}
		agent.SetThreat(true, retreat)
	}
	return agent, nil
}

// Build turns the colony description into a live snapshot, taking world wide
// defaults from wf
func (cs ColonySpec) Build(wf *WorldFile) (*colony.Colony, error) {
	zone := cs.Name
	c, err := colony.NewColony(cs.Name, cs.Anchor.position(zone))
	if err != nil {
		return nil, err
	}
	c.SetTick(cs.Tick)
	c.SetEnergyCapacity(cs.EnergyCapacity)
	c.SetRoadCoverage(cs.RoadCoverage)
	c.SetLowPower(cs.LowPower)
	if cs.PlannedStorage != nil {
		p := cs.PlannedStorage.position(zone)
		c.SetPlannedStorage(&p)
	}

	for _, s := range cs.Structures {
		st, err := s.build(zone)
		if err != nil {
			return nil, err
		}
		if err := c.AddStructure(st); err != nil {
			return nil, err
		}
	}

	for _, p := range cs.Piles {
		decay := wf.PileDecay
		if p.Decay != nil {
			decay = *p.Decay
		}
		pile, err := colony.NewPile(p.ID, p.Pos.position(zone), shared.ResourceType(p.Resource), p.Amount, decay)
		if err != nil {
			return nil, err
		}
		c.AddPile(pile)
	}

	for _, r := range cs.Remains {
		store, err := shared.NewStore(sum(r.Contents), resources(r.Contents))
		if err != nil {
			return nil, fmt.Errorf("remains %s: %w", r.ID, err)
		}
		rem, err := colony.NewRemains(r.ID, colony.TargetClass(r.Class), r.Pos.position(zone), store, r.ExpiresIn)
		if err != nil {
			return nil, err
		}
		c.AddRemains(rem)
	}

	for _, m := range cs.MiningSites {
		c.AddMiningSite(colony.MiningSite{
			Name:          m.Name,
			Pos:           m.Pos.position(zone),
			EnergyPerTick: m.EnergyPerTick,
			Distance:      m.Distance,
			Suspended:     m.Suspended,
			Miners:        m.Miners,
			HasContainer:  m.HasContainer,
			HasLink:       m.HasLink,
			DropMining:    m.DropMining,
		})
	}

	if u := cs.UpgradeSite; u != nil {
		site := &colony.UpgradeSite{BatteryID: u.BatteryID, PowerNeeded: u.PowerNeeded}
		if u.BatteryPos != nil {
			p := u.BatteryPos.position(zone)
			site.BatteryPos = &p
		}
		c.SetUpgradeSite(site)
	}

	for _, a := range cs.Agents {
		agent, err := a.build(zone, wf.CarryCapacity)
		if err != nil {
			return nil, err
		}
		if err := c.AddAgent(agent); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func countParts(body []string, part string) int {
	n := 0
	for _, p := range body {
		if strings.EqualFold(p, part) {
			n++
		}
	}
	return n
}

func sum(contents map[string]int) int {
	total := 0
	for _, units := range contents {
		total += units
	}
	return total
}
