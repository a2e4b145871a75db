package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateCommandID creates a standardized, human-readable command ID.
// Format: {kind}-{fleetID}-{8charHexUUID}
//
// Example:
//   - Input: kind="goto-station", fleetID="ARG-TRADER-3"
//   - Output: "goto-station-TRADER-3-a3f8e2b1"
func GenerateCommandID(kind, fleetID string) string {
	return kind + "-" + stripOwnerPrefix(fleetID) + "-" + generateShortUUID()
}

// stripOwnerPrefix keeps the last two hyphen-separated segments of a fleet id
// (ship class and number):
//   - "ARG-TRADER-3" -> "TRADER-3"
//   - "TRADER-3" -> "TRADER-3"
//   - "SINGLE" -> "SINGLE"
func stripOwnerPrefix(fleetID string) string {
	parts := strings.Split(fleetID, "-")
	if len(parts) <= 2 {
		return fleetID
	}
	return strings.Join(parts[len(parts)-2:], "-")
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
