package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Unix socket path for the gRPC control plane
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Colonies handled by the tick loop (empty = every colony in the world)
	Colonies []string `mapstructure:"colonies" validate:"unique,dive,required"`

	// Wall-clock time between two ticks
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`

	// Fleet sizing runs every FleetPlanEvery ticks
	FleetPlanEvery int `mapstructure:"fleet_plan_every" validate:"min=1"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
