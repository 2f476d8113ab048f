package capacity

import (
	"fmt"
	"math"
)

// RoomType describes one category of rooms in the hotel inventory together
// with the time a cleaner needs for a single room of that category.
type RoomType struct {
	Label           string
	Count           int
	CleaningMinutes int
}

// Config carries the HR parameters the capacity computation depends on.
// SafetyMargin is a fraction: 0.15 adds 15% headcount on top of the minimum.
type Config struct {
	WorkingHoursPerDay  float64
	SafetyMargin        float64
	WeeklyHoursPerStaff float64
	RestDaysPerWeek     int
	AnnualLeaveDays     int
}

// DefaultConfig returns the process-wide staffing defaults. All values are
// editable by an operator; these only seed a fresh installation.
func DefaultConfig() Config {
	return Config{
		WorkingHoursPerDay:  7,
		SafetyMargin:        0.15,
		WeeklyHoursPerStaff: 35,
		RestDaysPerWeek:     2,
		AnnualLeaveDays:     30,
	}
}

// Result is the derived capacity state. It is recomputed on every room or
// configuration change and never persisted on its own.
type Result struct {
	TotalCleaningMinutes int
	DailyCleaningHours   float64
	WorkingDaysPerYear   int
	WorkingHoursPerYear  float64
	MinimumStaff         int
	RecommendedStaff     int
	EfficiencyPct        float64
}

// WarningCode identifies a configuration condition the calculator recovered
// from by clamping. Callers surface these to the operator for correction.
type WarningCode string

const (
	// WarnNoWorkingDays means rest days and annual leave consume the whole
	// year, leaving zero or negative working days.
	WarnNoWorkingDays WarningCode = "no_working_days"
	// WarnZeroCapacity means cleaning demand exists but the configuration
	// yields no supplied working hours to cover it.
	WarnZeroCapacity WarningCode = "zero_capacity"
)

// Warning reports a recovered configuration problem alongside a Result.
type Warning struct {
	Code    WarningCode
	Message string
}

// Compute converts the room inventory and staffing configuration into the
// required headcount and its derived metrics.
//
// The computation is pure and order independent over room types. Degenerate
// configurations never panic or divide by zero: derived values are clamped
// and the condition is reported as a warning so the caller can display it.
// Staff counts use ceiling rounding so a fractional need is never undershot.
func Compute(rooms []RoomType, cfg Config) (Result, []Warning) {
	var warnings []Warning

	total := 0
	for _, room := range rooms {
		total += room.Count * room.CleaningMinutes
	}

	result := Result{
		TotalCleaningMinutes: total,
		DailyCleaningHours:   float64(total) / 60,
	}

	workingDays := 365 - cfg.RestDaysPerWeek*52 - cfg.AnnualLeaveDays
	if workingDays <= 0 {
		warnings = append(warnings, Warning{
			Code: WarnNoWorkingDays,
			Message: fmt.Sprintf("rest days (%d/week) and annual leave (%d days) leave no working days in the year",
				cfg.RestDaysPerWeek, cfg.AnnualLeaveDays),
		})
		workingDays = 0
	}

	result.WorkingDaysPerYear = workingDays
	result.WorkingHoursPerYear = float64(workingDays) * cfg.WorkingHoursPerDay

	// Average hours one staff member supplies per calendar day.
	dailySupply := result.WorkingHoursPerYear / 365

	switch {
	case result.DailyCleaningHours == 0:
		// Empty inventory needs nobody.
	case dailySupply <= 0:
		warnings = append(warnings, Warning{
			Code:    WarnZeroCapacity,
			Message: "cleaning demand exists but the configuration supplies no working hours",
		})
	default:
		result.MinimumStaff = int(math.Ceil(result.DailyCleaningHours / dailySupply))
	}

	result.RecommendedStaff = result.MinimumStaff
	if result.MinimumStaff > 0 && cfg.SafetyMargin > 0 {
		result.RecommendedStaff += int(math.Ceil(float64(result.MinimumStaff) * cfg.SafetyMargin))
	}

	if supplied := float64(result.RecommendedStaff) * dailySupply; supplied > 0 {
		result.EfficiencyPct = result.DailyCleaningHours / supplied * 100
	}

	return result, warnings
}
