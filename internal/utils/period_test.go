package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	for _, value := range []string{
		"2025-06-02",
		"2025-06-02 08:30:00",
		"2025-06-02T08:30",
		"2025-06-02T08:30:00Z",
	} {
		_, err := ParseDateTime(value)
		require.NoError(t, err, value)
	}

	_, err := ParseDateTime("02/06/2025")
	require.Error(t, err)
}

func TestParseClock(t *testing.T) {
	for _, value := range []string{"08:30", "08:30:15"} {
		_, err := ParseClock(value)
		require.NoError(t, err, value)
	}

	_, err := ParseClock("8 o'clock")
	require.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	at := time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC)
	start, end := MonthRange(at)
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls over the year.
	start, end = MonthRangeOf(2025, 12, time.UTC)
	require.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestIntField(t *testing.T) {
	v, present, ok := IntField(json.Number("42"))
	require.True(t, present)
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, present, _ = IntField(json.Number(""))
	require.False(t, present)

	// A decimal is present but not an integer.
	_, present, ok = IntField(json.Number("4.2"))
	require.True(t, present)
	require.False(t, ok)
}

func TestFloatField(t *testing.T) {
	v, present, ok := FloatField(json.Number("1.5"))
	require.True(t, present)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
}
