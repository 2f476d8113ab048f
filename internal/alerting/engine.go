package alerting

import (
	"fmt"
	"math"
	"sort"

	"github.com/example/workforce-planner/internal/capacity"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/schedule"
)

// Type names the condition an alert reports.
type Type string

const (
	TypeCoverageGap Type = "coverage_gap"
	TypeHoursLow    Type = "hours_low"
	TypeHoursHigh   Type = "hours_high"
	TypeLeaveLow    Type = "leave_low"
	TypeLeaveUrgent Type = "leave_urgent"
	TypeCompliant   Type = "compliant"
)

// Priority orders alerts for display. Lower values sort first.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String returns the display label for a priority.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// Alert is one advisory finding. Alerts never block mutations elsewhere;
// they are regenerated wholesale on every relevant input change.
type Alert struct {
	Type      Type
	Priority  Priority
	SubjectID string
	Message   string
	Detail    string
	Value     float64
	Threshold float64
}

// Thresholds carries the hours-compliance ratios. They are business
// constants from the surrounding system, kept configurable on purpose.
type Thresholds struct {
	HoursLowRatio      float64
	CompliantLowRatio  float64
	DefaultWeeklyHours float64
}

// DefaultThresholds returns the stock ratios: under 80% of target flags low
// hours, 95%..100% of target counts as compliant, and recruitment
// suggestions assume a 35h contract.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoursLowRatio:      0.8,
		CompliantLowRatio:  0.95,
		DefaultWeeklyHours: 35,
	}
}

// Input gathers the producer outputs the engine derives alerts from.
type Input struct {
	Capacity       capacity.Result
	Schedules      []schedule.WeeklySchedule
	LeaveSummaries []leave.Summary
	Contracts      []schedule.Contract
}

// Generate derives the prioritized alert list from the current planning
// state. Output order is priority HIGH to LOW, stable within a priority:
// coverage first, then per-employee hours in schedule order, then leave in
// summary order.
func Generate(in Input, th Thresholds) []Alert {
	alerts := make([]Alert, 0)

	if alert, ok := coverageAlert(in, th); ok {
		alerts = append(alerts, alert)
	}
	alerts = append(alerts, hoursAlerts(in, th)...)
	alerts = append(alerts, leaveAlerts(in.LeaveSummaries)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Priority < alerts[j].Priority
	})
	return alerts
}

func coverageAlert(in Input, th Thresholds) (Alert, bool) {
	scheduledAnnual := 0.0
	for _, sched := range in.Schedules {
		scheduledAnnual += sched.TotalWeeklyHours * 52
	}
	demandAnnual := in.Capacity.DailyCleaningHours * 365
	if scheduledAnnual >= demandAnnual {
		return Alert{}, false
	}

	deficit := demandAnnual - scheduledAnnual
	weekly := th.DefaultWeeklyHours
	if weekly <= 0 {
		weekly = DefaultThresholds().DefaultWeeklyHours
	}
	additional := int(math.Ceil(deficit / (weekly * 52)))

	return Alert{
		Type:     TypeCoverageGap,
		Priority: PriorityHigh,
		Message:  "scheduled hours do not cover the cleaning demand",
		Detail: fmt.Sprintf("annual shortfall of %.0f hours; hiring %d more %vh employees would close it",
			deficit, additional, weekly),
		Value:     scheduledAnnual,
		Threshold: demandAnnual,
	}, true
}

func hoursAlerts(in Input, th Thresholds) []Alert {
	targets := make(map[string]float64, len(in.Contracts))
	for _, contract := range in.Contracts {
		targets[contract.EmployeeID] = contract.WeeklyHours
	}

	alerts := make([]Alert, 0)
	for _, sched := range in.Schedules {
		target, ok := targets[sched.EmployeeID]
		if !ok || target <= 0 {
			continue
		}
		worked := sched.TotalWeeklyHours

		switch {
		case worked > target:
			// Overtime is treated as a hard constraint to avoid.
			alerts = append(alerts, Alert{
				Type:      TypeHoursHigh,
				Priority:  PriorityHigh,
				SubjectID: sched.EmployeeID,
				Message:   fmt.Sprintf("%s is scheduled above the contracted hours", sched.Name),
				Detail:    fmt.Sprintf("%.2fh scheduled against a %.0fh contract", worked, target),
				Value:     worked,
				Threshold: target,
			})
		case worked < th.HoursLowRatio*target:
			alerts = append(alerts, Alert{
				Type:      TypeHoursLow,
				Priority:  PriorityMedium,
				SubjectID: sched.EmployeeID,
				Message:   fmt.Sprintf("%s is scheduled well below the contracted hours", sched.Name),
				Detail:    fmt.Sprintf("%.2fh scheduled against a %.0fh contract", worked, target),
				Value:     worked,
				Threshold: th.HoursLowRatio * target,
			})
		case worked >= th.CompliantLowRatio*target:
			alerts = append(alerts, Alert{
				Type:      TypeCompliant,
				Priority:  PriorityLow,
				SubjectID: sched.EmployeeID,
				Message:   fmt.Sprintf("%s matches the contracted hours", sched.Name),
				Value:     worked,
				Threshold: target,
			})
		}
	}
	return alerts
}

func leaveAlerts(summaries []leave.Summary) []Alert {
	alerts := make([]Alert, 0)
	for _, summary := range summaries {
		switch summary.Compliance {
		case leave.LevelDanger:
			alerts = append(alerts, Alert{
				Type:      TypeLeaveUrgent,
				Priority:  PriorityHigh,
				SubjectID: summary.EmployeeID,
				Message:   "legal leave can no longer realistically be taken before year end",
				Detail:    fmt.Sprintf("%d of %d days taken, %d remaining", summary.TotalDaysTaken, summary.LegalDays, summary.RemainingDays),
				Value:     float64(summary.TotalDaysTaken),
				Threshold: float64(summary.LegalDays),
			})
		case leave.LevelWarning:
			alerts = append(alerts, Alert{
				Type:      TypeLeaveLow,
				Priority:  PriorityMedium,
				SubjectID: summary.EmployeeID,
				Message:   "leave consumption is behind the yearly entitlement",
				Detail:    fmt.Sprintf("%d of %d days taken, %d remaining", summary.TotalDaysTaken, summary.LegalDays, summary.RemainingDays),
				Value:     float64(summary.TotalDaysTaken),
				Threshold: float64(summary.LegalDays),
			})
		}
	}
	return alerts
}
