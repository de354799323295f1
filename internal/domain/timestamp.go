package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the stored form: UTC, no zone suffix, trailing
// fractional zeros trimmed. Lexicographic order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.999999999"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts RFC 3339 and naive ISO 8601 date-times. Values
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp: %w", ErrInvalidInput)
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is not ISO 8601: %w", s, ErrInvalidInput)
}
