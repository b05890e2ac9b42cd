package config

import "time"

// ServerConfig holds HTTP control API settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	DataDir         string        `mapstructure:"data_dir"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Rate limiting over the whole control surface
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds token bucket parameters.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
}

// SimulationConfig holds tick loop settings.
type SimulationConfig struct {
	TickDelta       time.Duration `mapstructure:"tick_delta"`
	TickPeriodMs    int           `mapstructure:"tick_period_ms" validate:"min=1"`
	MinTickPeriodMs int           `mapstructure:"min_tick_period_ms" validate:"min=1"`
	MaxTickPeriodMs int           `mapstructure:"max_tick_period_ms" validate:"min=1"`
}

// PlannerConfig holds tabu search parameters.
type PlannerConfig struct {
	MaxIterations      int           `mapstructure:"max_iterations" validate:"min=1"`
	NeighborhoodSize   int           `mapstructure:"neighborhood_size" validate:"min=1"`
	TabuCapacity       int           `mapstructure:"tabu_capacity" validate:"min=1"`
	InitialTemperature float64       `mapstructure:"initial_temperature" validate:"gt=0"`
	CoolingRate        float64       `mapstructure:"cooling_rate" validate:"gt=0,lt=1"`
	StallRatio         float64       `mapstructure:"stall_ratio" validate:"gt=0"`
	ClusterRadiusKm    int           `mapstructure:"cluster_radius_km" validate:"min=1"`
	WallClockBudget    time.Duration `mapstructure:"wall_clock_budget"`
	RandomSeed         int64         `mapstructure:"random_seed"`
	MinSplitM3         int           `mapstructure:"min_split_m3" validate:"min=1"`
	TransferMinutes    int           `mapstructure:"transfer_minutes" validate:"min=1"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Connection type: "postgres" or "sqlite"
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL (takes precedence over individual fields)
	URL string `mapstructure:"url"`

	// PostgreSQL connection fields (used if URL is empty)
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite connection field (file path or ":memory:")
	Path string `mapstructure:"path"`

	// Connection pool settings
	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Output string `mapstructure:"output"`
}
