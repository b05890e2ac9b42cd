package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8085
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = 50
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 100
	}

	// Simulation defaults
	if cfg.Simulation.TickDelta == 0 {
		cfg.Simulation.TickDelta = time.Minute
	}
	if cfg.Simulation.TickPeriodMs == 0 {
		cfg.Simulation.TickPeriodMs = 1000
	}
	if cfg.Simulation.MinTickPeriodMs == 0 {
		cfg.Simulation.MinTickPeriodMs = 50
	}
	if cfg.Simulation.MaxTickPeriodMs == 0 {
		cfg.Simulation.MaxTickPeriodMs = 10000
	}

	// Planner defaults
	if cfg.Planner.MaxIterations == 0 {
		cfg.Planner.MaxIterations = 3000
	}
	if cfg.Planner.NeighborhoodSize == 0 {
		cfg.Planner.NeighborhoodSize = 100
	}
	if cfg.Planner.TabuCapacity == 0 {
		cfg.Planner.TabuCapacity = 25
	}
	if cfg.Planner.InitialTemperature == 0 {
		cfg.Planner.InitialTemperature = 100
	}
	if cfg.Planner.CoolingRate == 0 {
		cfg.Planner.CoolingRate = 0.995
	}
	if cfg.Planner.StallRatio == 0 {
		cfg.Planner.StallRatio = 0.001
	}
	if cfg.Planner.ClusterRadiusKm == 0 {
		cfg.Planner.ClusterRadiusKm = 20
	}
	if cfg.Planner.WallClockBudget == 0 {
		cfg.Planner.WallClockBudget = 30 * time.Second
	}
	if cfg.Planner.RandomSeed == 0 {
		cfg.Planner.RandomSeed = 1
	}
	if cfg.Planner.MinSplitM3 == 0 {
		cfg.Planner.MinSplitM3 = 1
	}
	if cfg.Planner.TransferMinutes == 0 {
		cfg.Planner.TransferMinutes = 10
	}

	// Database defaults: in-memory sqlite keeps the simulator
	// self-contained out of the box
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = ":memory:"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "lpgdispatch"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "lpgdispatch"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "lpgdispatch"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
