package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReference returns a short customer-facing code such as FP-3F9A1C7B.
func NewReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:8]
}
