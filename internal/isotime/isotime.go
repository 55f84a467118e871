// Package isotime renders and parses the textual forms used by the temporal
// codecs: RFC 3339 instants, calendar dates, and clock times.
package isotime

import "time"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.999999999"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // no offset
	"2006-01-02T15:04:05",
}

var timeLayouts = []string{
	"15:04:05.999999999Z07:00",
	"15:04:05.999999999",
	"15:04:05",
	"15:04",
}

// FormatDateTime renders an instant canonically: UTC, RFC3339Nano (Go trims
// trailing fractional zeros).
func FormatDateTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// ParseDateTime accepts RFC 3339 with or without fractional seconds, plus
// offset-less local forms.
func ParseDateTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatDate renders a calendar date.
func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// ParseDate parses a calendar date.
func ParseDate(s string) (time.Time, error) { return time.Parse(dateLayout, s) }

// FormatTime renders a clock time, fractional seconds trimmed.
func FormatTime(t time.Time) string { return t.Format(timeLayout) }

// ParseTime parses a clock time with optional fractional seconds or offset.
func ParseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
