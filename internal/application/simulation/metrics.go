package simulation

// MetricsRecorder receives simulation events for observability. The engine
// calls it synchronously; implementations must not block.
type MetricsRecorder interface {
	RecordTick(deltaSeconds float64)
	RecordProduction(stationID, wareID string, batches, units int)
	RecordStarvedStations(count int)
	RecordTradeAssigned(wareID string, quantity, expectedProfit int)
	RecordTradeCompleted(wareID string, quantity, profit int)
	RecordReportDropped(reason string)
}

type noOpRecorder struct{}

func (noOpRecorder) RecordTick(float64)                        {}
func (noOpRecorder) RecordProduction(string, string, int, int) {}
func (noOpRecorder) RecordStarvedStations(int)                 {}
func (noOpRecorder) RecordTradeAssigned(string, int, int)      {}
func (noOpRecorder) RecordTradeCompleted(string, int, int)     {}
func (noOpRecorder) RecordReportDropped(string)                {}
