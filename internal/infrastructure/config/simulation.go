package config

import "time"

// SimulationConfig holds the world simulator settings
type SimulationConfig struct {
	// WorldFile is the YAML scenario loaded at start-up
	WorldFile string `mapstructure:"world_file"`

	// TickRate caps simulated ticks per second (0 = unlimited)
	TickRate float64 `mapstructure:"tick_rate" validate:"gte=0"`

	// MaxTicks stops an offline run after that many ticks
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`

	// StepTimeout bounds one simulated tick
	StepTimeout time.Duration `mapstructure:"step_timeout"`
}
