package shared

import "time"

// Clock reads wall time. Simulated time never comes from a Clock; it only
// advances through Tick.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time
type RealClock struct{}

// Now returns the current system time in UTC
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a Clock that only moves when told to
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock stopped at start
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{CurrentTime: start}
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mock clock forward
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}
