package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
)

func TestSlogLogger_WritesJSONWithMetadata(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "debug", Format: "json"}
	logger := NewSlogLogger(slogFor(&buf, cfg))

	// Act
	logger.Log(common.LevelInfo, "trade assigned", map[string]interface{}{
		"fleet_id": "fleet-1",
		"quantity": 360,
	})

	// Assert
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "trade assigned", record["msg"])
	assert.Equal(t, "fleet-1", record["fleet_id"])
	assert.Equal(t, float64(360), record["quantity"])
}

func TestSlogLogger_RespectsLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "warn", Format: "text"}
	logger := NewSlogLogger(slogFor(&buf, cfg))

	// Act
	logger.Log(common.LevelDebug, "report dropped", nil)
	logger.Log(common.LevelInfo, "tick", nil)

	// Assert
	assert.Empty(t, buf.String())

	// Act
	logger.Log(common.LevelError, "snapshot failed", map[string]interface{}{"error": "boom"})

	// Assert
	assert.Contains(t, buf.String(), "snapshot failed")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestParseLogLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "INFO", parseLogLevel("verbose").String())
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
}
