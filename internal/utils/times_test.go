package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidWakeupTime(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"04:00", true},
		{"06:00", true},
		{"07:15", true},
		{"10:00", true},
		{"10:59", true},
		{"03:30", false},
		{"11:00", false},
		{"23:00", false},
		{"чепуха", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidWakeupTime(tt.value))
		})
	}
}

func TestNormalizeWakeupTime(t *testing.T) {
	assert.Equal(t, "07:15", NormalizeWakeupTime("07:15"))
	assert.Equal(t, DefaultWakeupTime, NormalizeWakeupTime("03:30"))
	assert.Equal(t, DefaultWakeupTime, NormalizeWakeupTime("мусор"))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 1, 1, 23, 50, 0, 0, time.Local)
	assert.Equal(t, 0, DaysBetween(start, time.Date(2026, 1, 1, 0, 10, 0, 0, time.Local)))
	assert.Equal(t, 1, DaysBetween(start, time.Date(2026, 1, 2, 0, 10, 0, 0, time.Local)))
	assert.Equal(t, 90, DaysBetween(start, time.Date(2026, 4, 1, 12, 0, 0, 0, time.Local)))
	assert.Equal(t, -1, DaysBetween(start, time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local)))
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 30, 0, 0, time.Local)
	assert.Equal(t, 90*time.Minute, UntilMidnight(now))
	assert.Equal(t, "1ч 30м", FormatUntilMidnight(now))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-01-15")
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-15", FormatDate(parsed))

	_, err = ParseDate("15.01.2026")
	assert.Error(t, err)
}
