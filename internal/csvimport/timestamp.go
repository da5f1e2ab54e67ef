package csvimport

import (
	"errors"
	"strings"
	"time"
)

var errInvalidTimestamp = errors.New("invalid timestamp")

// ISO-8601 forms accepted for created_at. Values without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 date or date-time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidTimestamp
}

// FormatTimestamp renders t the way ParseTimestamp reads it back. The zero time is "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseCreatedAt(f Fields) (*time.Time, error) {
	raw, ok := f.NonEmpty(FieldCreatedAt)
	if !ok {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, errors.New("invalid date format")
	}
	return &t, nil
}
