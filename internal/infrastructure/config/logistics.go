package config

// LogisticsConfig holds the matching and fleet sizing tunables
type LogisticsConfig struct {
	// Epsilon floors route durations in the score
	Epsilon float64 `mapstructure:"epsilon" validate:"gt=0"`

	// Scaling multiplies the raw transport power estimate
	Scaling float64 `mapstructure:"scaling" validate:"gt=0"`

	// LowPowerFactor scales the estimate while the colony is in low power mode
	LowPowerFactor float64 `mapstructure:"low_power_factor" validate:"gt=0,lte=1"`

	// MaxTransporters caps the fleet size
	MaxTransporters int `mapstructure:"max_transporters" validate:"min=1"`

	// CarryCapacity is what one carry part holds
	CarryCapacity int `mapstructure:"carry_capacity" validate:"min=1"`

	// RoadCoverageThreshold switches the body setup to the road-efficient one
	RoadCoverageThreshold float64 `mapstructure:"road_coverage_threshold" validate:"gte=0,lte=1"`

	// UpgradePowerPerWork is the power one upgrade work part burns per tick
	UpgradePowerPerWork float64 `mapstructure:"upgrade_power_per_work" validate:"gte=0"`

	// DangerTimer is how many ticks agents keep evading after a threat
	DangerTimer int `mapstructure:"danger_timer" validate:"min=0"`

	// DropOnDanger makes evading agents drop their energy
	DropOnDanger *bool `mapstructure:"drop_on_danger"`

	// DowntimeWindow is the moving average window of the downtime statistic
	DowntimeWindow int `mapstructure:"downtime_window" validate:"min=1"`
}

// DropsOnDanger resolves the optional flag (default true)
func (c LogisticsConfig) DropsOnDanger() bool {
	return c.DropOnDanger == nil || *c.DropOnDanger
}
