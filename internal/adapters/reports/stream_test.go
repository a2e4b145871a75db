package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/domain/events"
)

func collect(ch <-chan events.Report) []events.Report {
	var out []events.Report
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestStream_DecodesReportsInOrder(t *testing.T) {
	// Arrange
	input := strings.Join([]string{
		`# recorded session`,
		`{"type":"arrived-at-station","fleet_id":"trader-01","timestamp":12.5,"station_id":"spp-1","position":{"x":1,"y":2,"z":3}}`,
		``,
		`{"type":"cargo-loaded","fleet_id":"trader-01","timestamp":20,"station_id":"spp-1","ware_id":"energy_cells","amount":360}`,
	}, "\n")

	// Act
	got := collect(Stream(context.Background(), strings.NewReader(input), 4))

	// Assert
	require.Len(t, got, 2)
	assert.Equal(t, events.ReportArrivedAtStation, got[0].Type)
	assert.Equal(t, "trader-01", got[0].FleetID)
	assert.Equal(t, 12.5, got[0].Timestamp)
	require.NotNil(t, got[0].Position)
	assert.Equal(t, 3.0, got[0].Position.Z)
	assert.Equal(t, events.ReportCargoLoaded, got[1].Type)
	assert.Equal(t, 360, got[1].Amount)
	assert.True(t, got[1].HasTransfer())
}

func TestStream_SkipsUndecodableLines(t *testing.T) {
	// Arrange
	input := "not json\n{\"type\":\"docked\",\"fleet_id\":\"f1\"}\n"

	// Act
	got := collect(Stream(context.Background(), strings.NewReader(input), 0))

	// Assert
	require.Len(t, got, 1)
	assert.Equal(t, events.ReportDocked, got[0].Type)
}

func TestStream_UnknownTypesPassThrough(t *testing.T) {
	// Act
	got := collect(Stream(context.Background(), strings.NewReader(`{"type":"warped","fleet_id":"f1"}`), 1))

	// Assert
	require.Len(t, got, 1)
	assert.False(t, got[0].Type.IsKnown())
}

func TestStream_StopsOnCancel(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	input := strings.Repeat("{\"type\":\"docked\",\"fleet_id\":\"f1\"}\n", 10)
	ch := Stream(ctx, strings.NewReader(input), 0)

	// Act
	first := <-ch
	cancel()

	// Assert
	assert.Equal(t, "f1", first.FleetID)
	// the channel is closed once the producer observes cancellation
	for range ch {
	}
}
