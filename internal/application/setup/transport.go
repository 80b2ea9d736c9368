package setup

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/infrastructure/config"
)

// CoordinatorConfig maps the logistics settings onto the coordinator tunables
func CoordinatorConfig(cfg config.LogisticsConfig) transport.Config {
	return transport.Config{
		Network:        logistics.NetworkConfig{Epsilon: cfg.Epsilon},
		DangerTimer:    cfg.DangerTimer,
		DropOnDanger:   cfg.DropsOnDanger(),
		DowntimeWindow: cfg.DowntimeWindow,
	}
}

// SizerConfig maps the logistics settings onto the fleet sizing constants
func SizerConfig(cfg config.LogisticsConfig) fleet.SizerConfig {
	return fleet.SizerConfig{
		Scaling:               cfg.Scaling,
		LowPowerFactor:        cfg.LowPowerFactor,
		CarryCapacity:         float64(cfg.CarryCapacity),
		UpgradePowerPerWork:   cfg.UpgradePowerPerWork,
		MaxTransporters:       cfg.MaxTransporters,
		RoadCoverageThreshold: cfg.RoadCoverageThreshold,
	}
}

// NewTransport builds the coordinator and fleet sizer sharing one oracle.
// telemetry and memory may be nil.
func NewTransport(
	cfg config.LogisticsConfig,
	oracle logistics.DistanceOracle,
	telemetry common.TelemetrySink,
	memory common.ColonyMemory,
) (*transport.Coordinator, *fleet.Sizer) {
	coordinator := transport.NewCoordinator(CoordinatorConfig(cfg), oracle, nil, telemetry, memory)
	sizer := fleet.NewSizer(SizerConfig(cfg), oracle)
	return coordinator, sizer
}
