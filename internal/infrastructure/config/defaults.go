package config

import (
	"fmt"
	"time"
)

// Reference trade matcher values
const (
	DefaultSurplusFloor   = 50
	DefaultNeedCeiling    = 200
	DefaultExportFraction = 0.6
	DefaultMaxTransfer    = 800
	DefaultMinBatch       = 10
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.SubstepSeconds == 0 {
		cfg.Simulation.SubstepSeconds = 1
	}
	if cfg.Simulation.TimeAcceleration == 0 {
		cfg.Simulation.TimeAcceleration = 1
	}
	if cfg.Simulation.FrameRate == 0 {
		cfg.Simulation.FrameRate = 10
	}
	if cfg.Simulation.StallThresholdSeconds == 0 {
		cfg.Simulation.StallThresholdSeconds = 600
	}
	if cfg.Simulation.Trading.SurplusFloor == 0 {
		cfg.Simulation.Trading.SurplusFloor = DefaultSurplusFloor
	}
	if cfg.Simulation.Trading.NeedCeiling == 0 {
		cfg.Simulation.Trading.NeedCeiling = DefaultNeedCeiling
	}
	if cfg.Simulation.Trading.ExportFraction == 0 {
		cfg.Simulation.Trading.ExportFraction = DefaultExportFraction
	}
	if cfg.Simulation.Trading.MaxTransfer == 0 {
		cfg.Simulation.Trading.MaxTransfer = DefaultMaxTransfer
	}
	if cfg.Simulation.Trading.MinBatch == 0 {
		cfg.Simulation.Trading.MinBatch = DefaultMinBatch
	}

	// World defaults
	if cfg.World.Path == "" {
		cfg.World.Path = "configs/world.yaml"
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.Path = "npc-economy.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "economy"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "economy"
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

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
