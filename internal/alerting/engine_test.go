package alerting

import (
	"testing"

	"github.com/example/workforce-planner/internal/capacity"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/schedule"
)

func hoursInput(worked float64) Input {
	return Input{
		Contracts: []schedule.Contract{{EmployeeID: "emp-1", Name: "Marie", WeeklyHours: 35}},
		Schedules: []schedule.WeeklySchedule{{EmployeeID: "emp-1", Name: "Marie", TotalWeeklyHours: worked}},
	}
}

func findType(alerts []Alert, typ Type) (Alert, bool) {
	for _, alert := range alerts {
		if alert.Type == typ {
			return alert, true
		}
	}
	return Alert{}, false
}

func TestGenerate_HoursAlerts(t *testing.T) {
	cases := []struct {
		name     string
		worked   float64
		want     Type
		priority Priority
		none     bool
	}{
		{name: "27h triggers hours_low", worked: 27, want: TypeHoursLow, priority: PriorityMedium},
		{name: "34h triggers compliant", worked: 34, want: TypeCompliant, priority: PriorityLow},
		{name: "36h triggers hours_high", worked: 36, want: TypeHoursHigh, priority: PriorityHigh},
		{name: "30h is between the bands and silent", worked: 30, none: true},
		{name: "exactly the target is compliant", worked: 35, want: TypeCompliant, priority: PriorityLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := Generate(hoursInput(tc.worked), DefaultThresholds())
			if tc.none {
				if len(alerts) != 0 {
					t.Fatalf("expected no alerts, got %v", alerts)
				}
				return
			}
			alert, ok := findType(alerts, tc.want)
			if !ok {
				t.Fatalf("expected a %s alert, got %v", tc.want, alerts)
			}
			if alert.Priority != tc.priority {
				t.Fatalf("expected priority %s, got %s", tc.priority, alert.Priority)
			}
			if alert.SubjectID != "emp-1" {
				t.Fatalf("expected subject emp-1, got %q", alert.SubjectID)
			}
		})
	}
}

func TestGenerate_LeaveAlerts(t *testing.T) {
	in := Input{
		LeaveSummaries: []leave.Summary{
			{EmployeeID: "emp-1", TotalDaysTaken: 10, LegalDays: 30, RemainingDays: 20, Compliance: leave.LevelDanger},
			{EmployeeID: "emp-2", TotalDaysTaken: 25, LegalDays: 30, RemainingDays: 5, Compliance: leave.LevelWarning},
			{EmployeeID: "emp-3", TotalDaysTaken: 30, LegalDays: 30, RemainingDays: 0, Compliance: leave.LevelGood},
		},
	}

	alerts := Generate(in, DefaultThresholds())
	if len(alerts) != 2 {
		t.Fatalf("expected two leave alerts, got %v", alerts)
	}

	urgent, ok := findType(alerts, TypeLeaveUrgent)
	if !ok || urgent.Priority != PriorityHigh || urgent.SubjectID != "emp-1" {
		t.Fatalf("expected HIGH leave_urgent for emp-1, got %+v", urgent)
	}
	low, ok := findType(alerts, TypeLeaveLow)
	if !ok || low.Priority != PriorityMedium || low.SubjectID != "emp-2" {
		t.Fatalf("expected MEDIUM leave_low for emp-2, got %+v", low)
	}
}

func TestGenerate_CoverageGap(t *testing.T) {
	t.Run("reports the shortfall and a recruitment suggestion", func(t *testing.T) {
		in := Input{
			// 21h daily demand = 7665 annual hours against one 35h employee
			// supplying 1820.
			Capacity:  capacity.Result{DailyCleaningHours: 21},
			Contracts: []schedule.Contract{{EmployeeID: "emp-1", WeeklyHours: 35}},
			Schedules: []schedule.WeeklySchedule{{EmployeeID: "emp-1", TotalWeeklyHours: 35}},
		}

		alerts := Generate(in, DefaultThresholds())
		alert, ok := findType(alerts, TypeCoverageGap)
		if !ok {
			t.Fatalf("expected a coverage_gap alert, got %v", alerts)
		}
		if alert.Priority != PriorityHigh {
			t.Fatalf("expected HIGH priority, got %s", alert.Priority)
		}
		// Deficit 5845h / 1820h per hire rounds up to 4.
		if alert.Detail == "" || alert.Value != 1820 || alert.Threshold != 7665 {
			t.Fatalf("unexpected coverage numbers: %+v", alert)
		}
	})

	t.Run("is silent when the demand is covered", func(t *testing.T) {
		in := Input{
			Capacity:  capacity.Result{DailyCleaningHours: 4},
			Schedules: []schedule.WeeklySchedule{{EmployeeID: "emp-1", TotalWeeklyHours: 35}},
		}
		if alerts := Generate(in, DefaultThresholds()); len(alerts) != 0 {
			t.Fatalf("expected no alerts, got %v", alerts)
		}
	})
}

func TestGenerate_Ordering(t *testing.T) {
	in := Input{
		Capacity: capacity.Result{DailyCleaningHours: 50},
		Contracts: []schedule.Contract{
			{EmployeeID: "emp-1", Name: "A", WeeklyHours: 35},
			{EmployeeID: "emp-2", Name: "B", WeeklyHours: 35},
		},
		Schedules: []schedule.WeeklySchedule{
			{EmployeeID: "emp-1", Name: "A", TotalWeeklyHours: 20}, // hours_low, MEDIUM
			{EmployeeID: "emp-2", Name: "B", TotalWeeklyHours: 34}, // compliant, LOW
		},
		LeaveSummaries: []leave.Summary{
			{EmployeeID: "emp-1", Compliance: leave.LevelDanger}, // HIGH
		},
	}

	alerts := Generate(in, DefaultThresholds())
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].Priority > alerts[i].Priority {
			t.Fatalf("alerts not sorted by priority: %+v", alerts)
		}
	}
	if alerts[0].Type != TypeCoverageGap {
		t.Fatalf("expected the coverage gap to lead the HIGH group, got %s", alerts[0].Type)
	}
	if last := alerts[len(alerts)-1]; last.Type != TypeCompliant {
		t.Fatalf("expected the compliant note to sort last, got %s", last.Type)
	}
}
