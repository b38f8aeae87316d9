package utils

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateReceiptNumber returns REC-<epoch millis> for t. Two sales in the
// same millisecond share a number; receipt numbers are not unique keys.
func GenerateReceiptNumber(t time.Time) string {
	return "REC-" + strconv.FormatInt(t.UnixMilli(), 10)
}
