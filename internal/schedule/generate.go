package schedule

import (
	"fmt"
	"math"
	"time"
)

// Contract is the slice of an employee's contract the generator needs. It is
// immutable during a generation pass; roster edits trigger a fresh pass.
type Contract struct {
	EmployeeID  string
	Name        string
	WeeklyHours float64
	WorkingDays []time.Weekday
	DayStart    MinuteOfDay
}

// DaySlot is one employee day in a weekly schedule.
type DaySlot struct {
	Start   MinuteOfDay
	End     MinuteOfDay
	Working bool
}

// WeeklySchedule holds one employee's canonical week. Days is Monday-first.
type WeeklySchedule struct {
	EmployeeID       string
	Name             string
	Days             [7]DaySlot
	TotalWeeklyHours float64
}

// WarningCode identifies a recovered generation problem.
type WarningCode string

const (
	// WarnNegativeNet means the configured break eats more than the daily
	// envelope, so the day was clamped to zero working minutes.
	WarnNegativeNet WarningCode = "negative_net_minutes"
	// WarnNoWorkingDays means a contract lists no valid working days.
	WarnNoWorkingDays WarningCode = "no_working_days"
)

// Warning reports a configuration problem for one employee's schedule.
type Warning struct {
	EmployeeID string
	Code       WarningCode
	Message    string
}

// Generate expands employee contracts into canonical weekly schedules.
//
// Per working day the net working minutes are
// (weeklyHours*60 - breakMinutes*N) / N for N working days, floored to the
// minute; the slot end is start + net + break, so the break sits inside the
// shift envelope. Non-working days keep a zeroed slot. The pass is
// deterministic: identical inputs always yield identical schedules.
func Generate(contracts []Contract, breakMinutes int) ([]WeeklySchedule, []Warning) {
	if len(contracts) == 0 {
		return nil, nil
	}

	schedules := make([]WeeklySchedule, 0, len(contracts))
	var warnings []Warning

	for _, contract := range contracts {
		sched := WeeklySchedule{EmployeeID: contract.EmployeeID, Name: contract.Name}

		days := uniqueDayIndexes(contract.WorkingDays)
		if len(days) == 0 {
			warnings = append(warnings, Warning{
				EmployeeID: contract.EmployeeID,
				Code:       WarnNoWorkingDays,
				Message:    "contract lists no working days",
			})
			schedules = append(schedules, sched)
			continue
		}

		net := (int(contract.WeeklyHours*60) - breakMinutes*len(days)) / len(days)
		if net < 0 {
			warnings = append(warnings, Warning{
				EmployeeID: contract.EmployeeID,
				Code:       WarnNegativeNet,
				Message: fmt.Sprintf("break of %d minutes exceeds the daily envelope for a %vh week over %d days",
					breakMinutes, contract.WeeklyHours, len(days)),
			})
			net = 0
		}

		for _, idx := range days {
			sched.Days[idx] = DaySlot{
				Start:   contract.DayStart,
				End:     contract.DayStart + MinuteOfDay(net+breakMinutes),
				Working: true,
			}
		}

		sched.TotalWeeklyHours = roundHours(float64(net*len(days)) / 60)
		schedules = append(schedules, sched)
	}

	return schedules, warnings
}

func uniqueDayIndexes(days []time.Weekday) []int {
	seen := [7]bool{}
	out := make([]int, 0, len(days))
	for _, day := range days {
		idx := DayIndex(day)
		if idx < 0 || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
