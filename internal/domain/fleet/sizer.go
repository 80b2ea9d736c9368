package fleet

import (
	"math"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/pkg/utils"
)

// SizerConfig holds the fleet sizing constants
type SizerConfig struct {
	// Scaling is the round-trip multiplier applied to every hauling distance
	Scaling float64
	// LowPowerFactor scales demand down while the colony is in low power mode
	LowPowerFactor float64
	// CarryCapacity is how much one carry part holds
	CarryCapacity float64
	// UpgradePowerPerWork is the energy one upgrade work part spends per tick
	UpgradePowerPerWork float64
	MaxTransporters     int
	// RoadCoverageThreshold switches from early to default bodies
	RoadCoverageThreshold float64
}

// DefaultSizerConfig returns the stock sizing constants
func DefaultSizerConfig() SizerConfig {
	return SizerConfig{
		Scaling:               2,
		LowPowerFactor:        0.5,
		CarryCapacity:         50,
		UpgradePowerPerWork:   1,
		MaxTransporters:       10,
		RoadCoverageThreshold: 0.75,
	}
}

// SpawnRequest asks the external spawner for agents. Count is the target
// fleet size, not a delta.
type SpawnRequest struct {
	ID       string
	Colony   string
	Role     string
	Setup    string
	Body     []string
	Priority int
	Count    int
	// Current is how many agents of the role existed when planned
	Current int
	// NeededPower is the carry parts the colony needs in total
	NeededPower float64
}

// Deficit returns how many agents are missing
func (r SpawnRequest) Deficit() int {
	if d := r.Count - r.Current; d > 0 {
		return d
	}
	return 0
}

// Sizer estimates how many transporters a colony needs
type Sizer struct {
	cfg    SizerConfig
	oracle logistics.DistanceOracle
}

// NewSizer creates a sizer; a nil oracle falls back to tile range
func NewSizer(cfg SizerConfig, oracle logistics.DistanceOracle) *Sizer {
	defaults := DefaultSizerConfig()
	if cfg.Scaling <= 0 {
		cfg.Scaling = defaults.Scaling
	}
	if cfg.LowPowerFactor <= 0 {
		cfg.LowPowerFactor = defaults.LowPowerFactor
	}
	if cfg.CarryCapacity <= 0 {
		cfg.CarryCapacity = defaults.CarryCapacity
	}
	if cfg.UpgradePowerPerWork <= 0 {
		cfg.UpgradePowerPerWork = defaults.UpgradePowerPerWork
	}
	if cfg.MaxTransporters <= 0 {
		cfg.MaxTransporters = defaults.MaxTransporters
	}
	if cfg.RoadCoverageThreshold <= 0 {
		cfg.RoadCoverageThreshold = defaults.RoadCoverageThreshold
	}
	return &Sizer{cfg: cfg, oracle: oracle}
}

// Config returns the effective configuration
func (s *Sizer) Config() SizerConfig {
	return s.cfg
}

// NeededTransportPower returns the carry parts needed to keep up with the
// colony's mining output and upgrade demand.
func (s *Sizer) NeededTransportPower(c *colony.Colony) float64 {
	if c.Storage() == nil && !c.HasHatcheryBattery() && !c.UpgradeSite().HasBattery() {
		return 0
	}

	power := 0.0
	for _, site := range c.MiningSites() {
		if site.NeedsHauling() {
			power += site.EnergyPerTick * s.cfg.Scaling * site.Distance
		}
	}

	if up := c.UpgradeSite(); up.HasBattery() {
		distance, ok := s.distance(c, *up.BatteryPos)
		if !ok {
			distance = 0
		}
		power += s.cfg.UpgradePowerPerWork * up.PowerNeeded * s.cfg.Scaling * distance
	}

	if c.LowPower() {
		power *= s.cfg.LowPowerFactor
	}

	return power / s.cfg.CarryCapacity
}

// Setup picks the transporter body for the colony's road coverage
func (s *Sizer) Setup(c *colony.Colony) BodySetup {
	if c.RoadCoverage() < s.cfg.RoadCoverageThreshold {
		return SetupTransporterEarly
	}
	return SetupTransporterDefault
}

// Plan computes the transporter spawn request for a colony
func (s *Sizer) Plan(c *colony.Colony) SpawnRequest {
	setup := s.Setup(c)
	needed := s.NeededTransportPower(c)
	each := setup.BodyPotential(PartCarry, c.EnergyCapacity())

	count := 0
	if each != 0 {
		count = int(math.Ceil(needed / float64(each)))
	}
	count = utils.Clamp(count, 0, s.cfg.MaxTransporters)

	current := len(c.Agents(colony.RoleTransport))
	priority := PriorityTransport
	if current == 0 {
		priority = PriorityFirstTransport
	}

	return SpawnRequest{
		Colony:      c.Name(),
		Role:        colony.RoleTransport,
		Setup:       setup.Name,
		Body:        setup.Body(c.EnergyCapacity()),
		Priority:    priority,
		Count:       count,
		Current:     current,
		NeededPower: needed,
	}
}

func (s *Sizer) distance(c *colony.Colony, to shared.Position) (float64, bool) {
	if s.oracle == nil {
		return float64(c.Anchor().RangeTo(to)), true
	}
	return s.oracle.Distance(c.Anchor(), to, logistics.DistanceOptions{})
}
