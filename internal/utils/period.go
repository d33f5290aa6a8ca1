package utils

import (
	"encoding/json"
	"fmt"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseDateTime parses the timestamp formats the frontend sends.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", value)
}

// ParseClock parses a time-of-day string ("15:04" or "15:04:05").
func ParseClock(value string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized clock time %q", value)
}

// MonthRange returns the inclusive start and exclusive end of the calendar
// month containing t, in t's location.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthRangeOf is MonthRange for an explicit year and month.
func MonthRangeOf(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// IntField reports the integer value of a loosely typed request field.
// The original frontend posts numbers both as JSON numbers and as strings
// of digits; json.Number covers the former, and present reports whether the
// field was sent at all.
func IntField(n json.Number) (value int, present bool, ok bool) {
	if n == "" {
		return 0, false, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, true, false
	}
	return int(v), true, true
}

// FloatField is IntField for float-valued request fields.
func FloatField(n json.Number) (value float64, present bool, ok bool) {
	if n == "" {
		return 0, false, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}
