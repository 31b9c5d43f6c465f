package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)
	at := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		name     string
		current  int
		last     *time.Time
		expected int
	}{
		{"first activity", 0, nil, 1},
		{"same day keeps streak", 4, at(now.Add(-2 * time.Hour)), 4},
		{"yesterday increments", 4, at(now.AddDate(0, 0, -1)), 5},
		{"late yesterday still consecutive", 2, at(time.Date(2026, 4, 9, 23, 59, 0, 0, time.UTC)), 3},
		{"gap resets", 9, at(now.AddDate(0, 0, -3)), 1},
		{"future last active leaves streak", 3, at(now.AddDate(0, 0, 2)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStreak(tt.current, tt.last, now, time.UTC))
		})
	}
}

func TestCalendarDaysBetween_UsesZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// 03:00 UTC on the 11th is still the 10th in New York.
	a := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)
	b := time.Date(2026, 4, 11, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, CalendarDaysBetween(a, b, time.UTC))
	assert.Equal(t, 0, CalendarDaysBetween(a, b, ny))
	assert.Equal(t, "2026-04-10", DayKey(b, ny))
}

func TestCalendarDaysBetween_AcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	a := time.Date(2026, 3, 28, 12, 0, 0, 0, berlin)
	b := time.Date(2026, 3, 29, 12, 0, 0, 0, berlin)
	assert.Equal(t, 1, CalendarDaysBetween(a, b, berlin))
}
