package config

// SimulationConfig holds engine pacing and trade matching parameters
type SimulationConfig struct {
	// Fixed simulated step handed to each Tick call, in seconds
	SubstepSeconds float64 `mapstructure:"substep_seconds" validate:"gt=0"`

	// Simulated seconds per wall-clock second
	TimeAcceleration float64 `mapstructure:"time_acceleration" validate:"gt=0"`

	// Frames per wall-clock second
	FrameRate float64 `mapstructure:"frame_rate" validate:"gt=0,lte=1000"`

	// Non-idle fleets silent for longer than this are reported as stalled
	StallThresholdSeconds float64 `mapstructure:"stall_threshold_seconds" validate:"gte=0"`

	Trading TradingConfig `mapstructure:"trading"`
}

// TradingConfig holds the trade matcher thresholds
type TradingConfig struct {
	SurplusFloor   int     `mapstructure:"surplus_floor" validate:"gte=0"`
	NeedCeiling    int     `mapstructure:"need_ceiling" validate:"gte=0"`
	ExportFraction float64 `mapstructure:"export_fraction" validate:"gt=0,lte=1"`
	MaxTransfer    int     `mapstructure:"max_transfer" validate:"gt=0"`
	MinBatch       int     `mapstructure:"min_batch" validate:"gt=0"`
}

// WorldConfig points at the world definition file
type WorldConfig struct {
	Path string `mapstructure:"path"`
}
