package planning

import (
	"sort"
	"time"

	"github.com/example/workforce-planner/internal/alerting"
	"github.com/example/workforce-planner/internal/capacity"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/schedule"
)

// AnnualPlan is the per-employee yearly projection derived from the staffing
// configuration, the weekly schedule totals and the leave ledger.
type AnnualPlan struct {
	EmployeeID         string
	Name               string
	TargetAnnualHours  float64
	TotalAnnualHours   float64
	WorkingDaysPerYear int
	LeaveDaysUsed      int
	LeaveDaysRemaining int
	MonthlyHours       [12]float64
}

// Inputs is the complete declared input set of the planning engine. Any
// change to any field invalidates all derived state.
type Inputs struct {
	RoomTypes       []capacity.RoomType
	Staffing        capacity.Config
	Contracts       []schedule.Contract
	BreakMinutes    int
	LeaveRecords    []leave.Record
	Year            int
	Now             time.Time
	LeaveThresholds leave.Thresholds
	AlertThresholds alerting.Thresholds
}

// Snapshot is the derived state. It is recomputed wholesale; nothing in it
// is persisted unless an operator explicitly applies an edited schedule.
type Snapshot struct {
	Capacity         capacity.Result
	Schedules        []schedule.WeeklySchedule
	Annual           []AnnualPlan
	LeaveSummaries   []leave.Summary
	Alerts           []alerting.Alert
	CapacityWarnings []capacity.Warning
	ScheduleWarnings []schedule.Warning
}

// Recompute runs the whole derivation pipeline in one pass. The capacity,
// schedule, leave and alert formulas each live in exactly one place; every
// input change funnels through here instead of re-deriving at call sites.
// The function is pure and synchronous: a newer input set simply supersedes
// a stale snapshot.
func Recompute(in Inputs) Snapshot {
	snapshot := Snapshot{}
	snapshot.Capacity, snapshot.CapacityWarnings = capacity.Compute(in.RoomTypes, in.Staffing)
	snapshot.Schedules, snapshot.ScheduleWarnings = schedule.Generate(in.Contracts, in.BreakMinutes)

	leaveThresholds := in.LeaveThresholds
	if leaveThresholds.LegalDays == 0 {
		leaveThresholds = leave.DefaultThresholds()
	}
	if in.Staffing.AnnualLeaveDays > 0 {
		leaveThresholds.LegalDays = in.Staffing.AnnualLeaveDays
	}

	snapshot.LeaveSummaries = summarizeAll(in, leaveThresholds)
	snapshot.Annual = annualPlans(in, snapshot)

	alertThresholds := in.AlertThresholds
	if alertThresholds.HoursLowRatio == 0 {
		alertThresholds = alerting.DefaultThresholds()
	}
	snapshot.Alerts = alerting.Generate(alerting.Input{
		Capacity:       snapshot.Capacity,
		Schedules:      snapshot.Schedules,
		LeaveSummaries: snapshot.LeaveSummaries,
		Contracts:      in.Contracts,
	}, alertThresholds)

	return snapshot
}

func summarizeAll(in Inputs, th leave.Thresholds) []leave.Summary {
	ids := make([]string, 0, len(in.Contracts))
	seen := make(map[string]struct{}, len(in.Contracts))
	for _, contract := range in.Contracts {
		if _, ok := seen[contract.EmployeeID]; ok {
			continue
		}
		seen[contract.EmployeeID] = struct{}{}
		ids = append(ids, contract.EmployeeID)
	}
	sort.Strings(ids)

	summaries := make([]leave.Summary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, leave.Summarize(id, in.Year, in.LeaveRecords, in.Now, th))
	}
	return summaries
}

func annualPlans(in Inputs, snapshot Snapshot) []AnnualPlan {
	summaries := make(map[string]leave.Summary, len(snapshot.LeaveSummaries))
	for _, summary := range snapshot.LeaveSummaries {
		summaries[summary.EmployeeID] = summary
	}
	targets := make(map[string]float64, len(in.Contracts))
	for _, contract := range in.Contracts {
		targets[contract.EmployeeID] = contract.WeeklyHours
	}

	plans := make([]AnnualPlan, 0, len(snapshot.Schedules))
	for _, sched := range snapshot.Schedules {
		plan := AnnualPlan{
			EmployeeID:         sched.EmployeeID,
			Name:               sched.Name,
			TargetAnnualHours:  targets[sched.EmployeeID] * 52,
			TotalAnnualHours:   sched.TotalWeeklyHours * 52,
			WorkingDaysPerYear: snapshot.Capacity.WorkingDaysPerYear,
		}
		if summary, ok := summaries[sched.EmployeeID]; ok {
			plan.LeaveDaysUsed = summary.TotalDaysTaken
			plan.LeaveDaysRemaining = summary.RemainingDays
		}
		// No per-month calendar weighting exists upstream; the yearly load
		// spreads evenly.
		for month := range plan.MonthlyHours {
			plan.MonthlyHours[month] = plan.TotalAnnualHours / 12
		}
		plans = append(plans, plan)
	}
	return plans
}
