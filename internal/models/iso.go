package models

import (
	"fmt"
	"regexp"
	"time"
)

// ISOLayout is the wire format for every date the bridge emits:
// UTC with millisecond precision and a Z suffix.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// isoPattern matches caller-supplied dates: YYYY-MM-DDTHH:mm:ss with an
// optional fractional-seconds part and an optional trailing Z.
var isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,3})?Z?$`)

// IsValidISODate reports whether s matches the accepted ISO-8601 shape.
// This is the pre-validation check; ParseISO does the actual parsing.
func IsValidISODate(s string) bool {
	return isoPattern.MatchString(s)
}

// ParseISO parses an ISO-8601 instant. Zoneless inputs are read as UTC,
// matching how the platform bridges treat bare timestamps.
func ParseISO(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse ISO-8601 date %q", s)
}

// FormatISO renders a time in the bridge's wire format.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
