package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	World      WorldConfig      `mapstructure:"world"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/npc-economy")
	}

	v.SetEnvPrefix("SIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use env vars and defaults
	}

	// DATABASE_URL is honoured without the SIM_ prefix
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers the keys viper cannot discover from a missing
// config file, so SIM_* variables work on their own.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"simulation.substep_seconds",
		"simulation.time_acceleration",
		"simulation.frame_rate",
		"simulation.stall_threshold_seconds",
		"simulation.trading.surplus_floor",
		"simulation.trading.need_ceiling",
		"simulation.trading.export_fraction",
		"simulation.trading.max_transfer",
		"simulation.trading.min_batch",
		"world.path",
		"database.type",
		"database.url",
		"database.path",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.file_path",
		"metrics.enabled",
		"metrics.host",
		"metrics.port",
		"metrics.path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
