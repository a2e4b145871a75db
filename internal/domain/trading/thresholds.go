package trading

// Thresholds tune candidate discovery and sizing
type Thresholds struct {
	// SurplusFloor is the minimum holding for a ware to be exported
	SurplusFloor int
	// NeedCeiling is the holding below which a station wants a ware
	NeedCeiling int
	// ExportFraction is the share of the seller's holding planned per trip
	ExportFraction float64
	// MaxTransfer caps the planned amount of a single trip
	MaxTransfer int
	// MinBatch is the smallest amount ever assigned to a fleet
	MinBatch int
}

// DefaultThresholds returns the reference tuning
func DefaultThresholds() Thresholds {
	return Thresholds{
		SurplusFloor:   50,
		NeedCeiling:    200,
		ExportFraction: 0.6,
		MaxTransfer:    800,
		MinBatch:       10,
	}
}
