package relay

import (
	"errors"
	"strings"
	"time"
)

// DateShift is subtracted from deal creation timestamps before they are
// written back. The upstream integration calls this a "GMT-3" conversion,
// but the shift actually applied has always been six hours; keep the literal
// value until the intended offset is confirmed.
const DateShift = 6 * time.Hour

type isoLayout struct {
	layout string
	aware  bool
}

// isoLayouts covers the extended and basic ISO-8601 shapes the CRM has been
// seen to send, down to hour precision and hour-only offsets.
var isoLayouts = []isoLayout{
	{"2006-01-02T15:04:05.999999999Z07:00", true},
	{"2006-01-02 15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04:05.999999999Z0700", true},
	{"2006-01-02T15:04:05.999999999Z07", true},
	{"2006-01-02 15:04:05.999999999Z07", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04Z07", true},
	{"2006-01-02T15Z07:00", true},
	{"2006-01-02T15Z07", true},
	{"20060102T150405.999999999Z07:00", true},
	{"20060102T150405.999999999Z0700", true},
	{"20060102T150405.999999999Z07", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02T15", false},
	{"2006-01-02 15", false},
	{"20060102T150405.999999999", false},
	{"20060102T1504", false},
	{"20060102T15", false},
	{"2006-01-02", false},
	{"20060102", false},
}

// NormalizeDate parses an ISO-8601 timestamp, subtracts DateShift and formats
// the result in the same shape: naive input stays naive, a UTC offset is kept
// as ±HH:MM, and fractional seconds are written with microsecond precision
// only when present.
func NormalizeDate(value string) (string, error) {
	t, aware, err := parseISO(value)
	if err != nil {
		return "", malformedTimestamp(value, err)
	}
	return formatISO(t.Add(-DateShift), aware), nil
}

func parseISO(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, errors.New("empty timestamp")
	}

	var firstErr error
	for _, l := range isoLayouts {
		t, err := time.Parse(l.layout, value)
		if err == nil {
			return t, l.aware, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, false, firstErr
}

func formatISO(t time.Time, aware bool) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	if aware {
		layout += "-07:00"
	}
	return t.Format(layout)
}
