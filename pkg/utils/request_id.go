package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRequestID creates a short, human-readable ID for a queued request.
// Format: {operation}-{subject}-{8charHexUUID}
//
// Example:
//   - Input: operation="spawn", subject="W1N1"
//   - Output: "spawn-W1N1-a3f8e2b1"
func GenerateRequestID(operation, subject string) string {
	subject = strings.ReplaceAll(strings.TrimSpace(subject), " ", "_")
	if subject == "" {
		return operation + "-" + generateShortUUID()
	}
	return operation + "-" + subject + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
