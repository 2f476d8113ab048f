package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/schedule"
)

type planningStoreStub struct {
	applied [][]persistence.AppliedSchedule
	saveErr error
}

func (s *planningStoreStub) SaveAppliedSchedules(ctx context.Context, schedules []persistence.AppliedSchedule) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.applied = append(s.applied, schedules)
	return nil
}

func (s *planningStoreStub) ListAppliedSchedules(ctx context.Context) ([]persistence.AppliedSchedule, error) {
	if len(s.applied) == 0 {
		return nil, nil
	}
	return s.applied[len(s.applied)-1], nil
}

func newPlanningFixture() (*PlanningService, *planningStoreStub) {
	employees := &employeeStoreStub{employees: map[string]persistence.Employee{
		"emp-1": {
			ID:          "emp-1",
			Name:        "Marie Dubois",
			WeeklyHours: "H35",
			WorkingDays: []int{1, 2, 3, 4, 5},
			DayStart:    "10:00",
		},
	}}
	housekeeping := &housekeepingStoreStub{
		rooms: []persistence.RoomType{
			{ID: "room-double", Label: "Double", Count: 20, CleaningMinutes: 30},
		},
		config: &persistence.StaffingConfig{
			WorkingHoursPerDay:  7,
			SafetyMargin:        0.15,
			WeeklyHoursPerStaff: 35,
			RestDaysPerWeek:     2,
			AnnualLeaveDays:     30,
			BreakMinutes:        60,
		},
	}
	leaveRecords := &leaveStoreStub{}
	applied := &planningStoreStub{}
	svc := NewPlanningService(employees, housekeeping, leaveRecords, applied, sequenceGenerator("plan"), fixedNow)
	return svc, applied
}

func TestPlanningService_Snapshot(t *testing.T) {
	svc, _ := newPlanningFixture()

	snapshot, err := svc.Snapshot(context.Background(), Principal{OperatorID: "op-1"}, 2025)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if len(snapshot.Schedules) != 1 {
		t.Fatalf("schedules = %d, want 1", len(snapshot.Schedules))
	}
	// 35h over five days with a 60 minute break nets 6h/day, 30h/week.
	if snapshot.Schedules[0].TotalWeeklyHours != 30 {
		t.Errorf("TotalWeeklyHours = %v, want 30", snapshot.Schedules[0].TotalWeeklyHours)
	}
	if snapshot.Capacity.WorkingDaysPerYear != 231 {
		t.Errorf("WorkingDaysPerYear = %d, want 231", snapshot.Capacity.WorkingDaysPerYear)
	}
	if len(snapshot.Annual) != 1 || snapshot.Annual[0].TotalAnnualHours != 1560 {
		t.Errorf("annual plans = %+v", snapshot.Annual)
	}
	// 30h/week over 52 weeks cannot cover 10h of cleaning every day.
	if len(snapshot.Alerts) == 0 || snapshot.Alerts[0].Type != "coverage_gap" {
		t.Errorf("alerts = %+v, want a leading coverage gap", snapshot.Alerts)
	}
}

func TestPlanningService_EditorLifecycle(t *testing.T) {
	admin := Principal{OperatorID: "op-1", IsAdmin: true}

	t.Run("start requires administrator privileges", func(t *testing.T) {
		svc, _ := newPlanningFixture()

		if _, err := svc.StartEditor(context.Background(), Principal{OperatorID: "op-2"}, 2025); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("edit, apply and persist the trace", func(t *testing.T) {
		svc, applied := newPlanningFixture()

		session, err := svc.StartEditor(context.Background(), admin, 2025)
		if err != nil {
			t.Fatalf("StartEditor: %v", err)
		}
		if session.State.Status != schedule.StatusEditing {
			t.Fatalf("Status = %s, want editing", session.State.Status)
		}

		end, _ := schedule.ParseClock("18:00")
		session, err = svc.UpdateEditor(context.Background(), admin, session.ID, schedule.Action{
			Kind:       schedule.ActionEditCell,
			EmployeeID: "emp-1",
			Day:        time.Monday,
			Field:      schedule.FieldEnd,
			Time:       end,
		})
		if err != nil {
			t.Fatalf("UpdateEditor: %v", err)
		}
		// Monday now runs 10:00 to 18:00 with a 60 minute break: 7h instead
		// of 6h, so the week totals 31h.
		if got := session.State.Schedules()[0].TotalWeeklyHours; got != 31 {
			t.Errorf("TotalWeeklyHours = %v, want 31", got)
		}

		session, err = svc.ApplyEditor(context.Background(), admin, session.ID)
		if err != nil {
			t.Fatalf("ApplyEditor: %v", err)
		}
		if session.State.Status != schedule.StatusApplied {
			t.Errorf("Status = %s, want applied", session.State.Status)
		}
		if len(applied.applied) != 1 {
			t.Fatalf("persisted batches = %d, want 1", len(applied.applied))
		}
		rows := applied.applied[0]
		if len(rows) != 1 || rows[0].EmployeeID != "emp-1" || rows[0].TotalWeeklyHours != 31 {
			t.Errorf("applied rows = %+v", rows)
		}
		if rows[0].BreakMinutes != 60 {
			t.Errorf("BreakMinutes = %d, want 60", rows[0].BreakMinutes)
		}
	})

	t.Run("a second apply conflicts", func(t *testing.T) {
		svc, _ := newPlanningFixture()

		session, err := svc.StartEditor(context.Background(), admin, 2025)
		if err != nil {
			t.Fatalf("StartEditor: %v", err)
		}
		if _, err = svc.ApplyEditor(context.Background(), admin, session.ID); err != nil {
			t.Fatalf("ApplyEditor: %v", err)
		}
		if _, err = svc.ApplyEditor(context.Background(), admin, session.ID); !errors.Is(err, ErrEditorConflict) {
			t.Fatalf("expected ErrEditorConflict, got %v", err)
		}
	})

	t.Run("apply actions are rejected on the update path", func(t *testing.T) {
		svc, _ := newPlanningFixture()

		session, err := svc.StartEditor(context.Background(), admin, 2025)
		if err != nil {
			t.Fatalf("StartEditor: %v", err)
		}
		if _, err = svc.UpdateEditor(context.Background(), admin, session.ID, schedule.Action{Kind: schedule.ActionApply}); !errors.Is(err, ErrEditorConflict) {
			t.Fatalf("expected ErrEditorConflict, got %v", err)
		}
	})

	t.Run("reset returns the session to readonly", func(t *testing.T) {
		svc, _ := newPlanningFixture()

		session, err := svc.StartEditor(context.Background(), admin, 2025)
		if err != nil {
			t.Fatalf("StartEditor: %v", err)
		}
		session, err = svc.UpdateEditor(context.Background(), admin, session.ID, schedule.Action{Kind: schedule.ActionReset})
		if err != nil {
			t.Fatalf("UpdateEditor: %v", err)
		}
		if session.State.Status != schedule.StatusReadonly {
			t.Errorf("Status = %s, want readonly", session.State.Status)
		}
	})

	t.Run("unknown sessions map to ErrNotFound", func(t *testing.T) {
		svc, _ := newPlanningFixture()

		if _, err := svc.GetEditor(context.Background(), admin, "absent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := svc.ApplyEditor(context.Background(), admin, "absent"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlanningService_Alerts(t *testing.T) {
	svc, _ := newPlanningFixture()

	alerts, err := svc.Alerts(context.Background(), Principal{OperatorID: "op-1"}, 2025)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].Priority > alerts[i].Priority {
			t.Fatalf("alerts not ordered by priority: %+v", alerts)
		}
	}
}
