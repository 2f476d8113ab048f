package leave

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidRange indicates a leave interval whose end precedes its start.
var ErrInvalidRange = errors.New("leave: end date is before start date")

// Record is one leave interval for one employee. DaysCount is fixed at
// creation time from the date range and never recomputed afterwards.
type Record struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	DaysCount  int
	Year       int
	Notes      string
	CreatedAt  time.Time
}

// NewRecord validates a leave interval and derives its working-day count.
// Dates are normalized to midnight UTC so two records for the same calendar
// day always compare equal.
func NewRecord(id, employeeID string, start, end time.Time, notes string) (Record, error) {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return Record{}, ErrInvalidRange
	}
	return Record{
		ID:         id,
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		DaysCount:  CountWorkingDays(start, end),
		Year:       start.Year(),
		Notes:      strings.TrimSpace(notes),
	}, nil
}

// CountWorkingDays counts the weekdays in the inclusive range. Saturdays and
// Sundays are excluded; public holidays are not consulted.
func CountWorkingDays(start, end time.Time) int {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return 0
	}

	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// Level buckets how close an employee's leave consumption is to the legal
// entitlement.
type Level string

const (
	LevelGood    Level = "good"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Cutoff is a month/day boundary inside the evaluated year.
type Cutoff struct {
	Month time.Month
	Day   int
}

// Thresholds carries the compliance policy constants. The day counts and
// cutoff dates are business constants with no documented legal citation, so
// they stay configurable rather than hard-coded.
type Thresholds struct {
	LegalDays       int
	DangerBelowDays int
	WarningCutoff   Cutoff
	DangerCutoff    Cutoff
}

// DefaultThresholds returns the stock compliance policy: 30 legal days, a
// danger floor of 20 days checked from October 1st, and a softer warning
// check from July 1st.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LegalDays:       30,
		DangerBelowDays: 20,
		WarningCutoff:   Cutoff{Month: time.July, Day: 1},
		DangerCutoff:    Cutoff{Month: time.October, Day: 1},
	}
}

// Summary is the derived per-employee, per-year leave state.
type Summary struct {
	EmployeeID     string
	Year           int
	TotalDaysTaken int
	LegalDays      int
	RemainingDays  int
	Compliance     Level
}

// Summarize folds an employee's leave records into the year's summary.
//
// A record contributes its full day count to every year its interval
// overlaps. Compliance depends on where "now" falls relative to the year's
// cutoff dates: before the warning cutoff everything is good; past the
// danger cutoff fewer than the danger floor of taken days means the
// remaining entitlement can no longer realistically fit before year end.
func Summarize(employeeID string, year int, records []Record, now time.Time, th Thresholds) Summary {
	total := 0
	for _, record := range records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.StartDate.Year() > year || record.EndDate.Year() < year {
			continue
		}
		total += record.DaysCount
	}

	summary := Summary{
		EmployeeID:     employeeID,
		Year:           year,
		TotalDaysTaken: total,
		LegalDays:      th.LegalDays,
		RemainingDays:  th.LegalDays - total,
	}

	dangerFrom := time.Date(year, th.DangerCutoff.Month, th.DangerCutoff.Day, 0, 0, 0, 0, time.UTC)
	warningFrom := time.Date(year, th.WarningCutoff.Month, th.WarningCutoff.Day, 0, 0, 0, 0, time.UTC)

	switch {
	case !now.Before(dangerFrom) && total < th.DangerBelowDays:
		summary.Compliance = LevelDanger
	case !now.Before(warningFrom) && total < th.LegalDays:
		summary.Compliance = LevelWarning
	default:
		summary.Compliance = LevelGood
	}

	return summary
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
