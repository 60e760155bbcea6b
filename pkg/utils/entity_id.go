package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateEntityID creates a readable unique ID.
// Format: {kind}-{8charHexUUID}
//
// Example:
//   - Input: kind="footman"
//   - Output: "footman-a3f8e2b1"
//
// Spaces and upper case in kind are normalized so template names can be
// used directly.
func GenerateEntityID(kind string) string {
	prefix := normalizeKind(kind)
	if prefix == "" {
		return generateShortUUID()
	}
	return prefix + "-" + generateShortUUID()
}

// GenerateRunID returns a full UUID identifying one simulation run
func GenerateRunID() string {
	return uuid.NewString()
}

// normalizeKind lower-cases kind and joins words with hyphens
//   - "Town Hall" -> "town-hall"
//   - "  footman " -> "footman"
func normalizeKind(kind string) string {
	return strings.Join(strings.Fields(strings.ToLower(kind)), "-")
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	// Remove hyphens and take first 8 characters
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
