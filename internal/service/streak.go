package service

import "time"

// StartOfDay returns local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayKey formats t as the YYYY-MM-DD calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return StartOfDay(t, loc).Format("2006-01-02")
}

// CalendarDaysBetween counts the midnights in loc crossed going from a to b.
// Negative when b is before a.
func CalendarDaysBetween(a, b time.Time, loc *time.Location) int {
	da := StartOfDay(a, loc)
	db := StartOfDay(b, loc)
	// Date arithmetic in UTC sidesteps DST-length days.
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// NextStreak returns the streak after activity at now.
//
//	no prior activity     -> 1
//	same calendar day     -> unchanged
//	previous calendar day -> +1
//	any larger gap        -> 1
func NextStreak(current int, lastActive *time.Time, now time.Time, loc *time.Location) int {
	if lastActive == nil {
		return 1
	}
	switch diff := CalendarDaysBetween(*lastActive, now, loc); {
	case diff == 0:
		return current
	case diff == 1:
		return current + 1
	case diff > 1:
		return 1
	default:
		// clock moved backwards; keep what we have
		return current
	}
}
