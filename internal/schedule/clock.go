package schedule

import (
	"errors"
	"fmt"
	"time"
)

// MinuteOfDay is a clock time expressed as minutes since midnight. Values
// above 24h are legal for shift ends that spill past midnight.
type MinuteOfDay int

// ErrInvalidClock indicates a clock string that is not HH:MM.
var ErrInvalidClock = errors.New("schedule: clock time must be HH:MM")

// ParseClock converts an "HH:MM" string into a MinuteOfDay.
func ParseClock(value string) (MinuteOfDay, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return 0, ErrInvalidClock
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidClock
	}
	return MinuteOfDay(hours*60 + minutes), nil
}

// String renders the time as HH:MM.
func (m MinuteOfDay) String() string {
	if m < 0 {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", int(m)/60%24, int(m)%60)
}

// Weekdays is the canonical Monday-first ordering used throughout the
// planning engine. DaySlot arrays are indexed in this order.
var Weekdays = [7]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// DayIndex maps a weekday to its Monday-first slot index, or -1 when the
// value is not one of the seven canonical days.
func DayIndex(day time.Weekday) int {
	switch day {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday:
		return (int(day) + 6) % 7
	default:
		return -1
	}
}
