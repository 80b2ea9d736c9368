package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "overmind-logistics.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "overmind"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "overmind_logistics"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/overmind-logistics.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/overmind-logistics.pid"
	}
	if cfg.Daemon.TickInterval == 0 {
		cfg.Daemon.TickInterval = time.Second
	}
	if cfg.Daemon.FleetPlanEvery == 0 {
		cfg.Daemon.FleetPlanEvery = 100
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logistics defaults
	if cfg.Logistics.Epsilon == 0 {
		cfg.Logistics.Epsilon = 0.1
	}
	if cfg.Logistics.Scaling == 0 {
		cfg.Logistics.Scaling = 2
	}
	if cfg.Logistics.LowPowerFactor == 0 {
		cfg.Logistics.LowPowerFactor = 0.5
	}
	if cfg.Logistics.MaxTransporters == 0 {
		cfg.Logistics.MaxTransporters = 10
	}
	if cfg.Logistics.CarryCapacity == 0 {
		cfg.Logistics.CarryCapacity = 50
	}
	if cfg.Logistics.RoadCoverageThreshold == 0 {
		cfg.Logistics.RoadCoverageThreshold = 0.75
	}
	if cfg.Logistics.UpgradePowerPerWork == 0 {
		cfg.Logistics.UpgradePowerPerWork = 1
	}
	if cfg.Logistics.DangerTimer == 0 {
		cfg.Logistics.DangerTimer = 5
	}
	if cfg.Logistics.DowntimeWindow == 0 {
		cfg.Logistics.DowntimeWindow = 1500
	}

	// Simulation defaults
	if cfg.Simulation.MaxTicks == 0 {
		cfg.Simulation.MaxTicks = 100
	}
	if cfg.Simulation.StepTimeout == 0 {
		cfg.Simulation.StepTimeout = 5 * time.Second
	}
}
