package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/persistence"
)

type leaveStoreStub struct {
	records map[string]persistence.LeaveRecord
}

func (s *leaveStoreStub) CreateLeave(ctx context.Context, record persistence.LeaveRecord) error {
	if s.records == nil {
		s.records = make(map[string]persistence.LeaveRecord)
	}
	s.records[record.ID] = record
	return nil
}

func (s *leaveStoreStub) GetLeave(ctx context.Context, id string) (persistence.LeaveRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return persistence.LeaveRecord{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *leaveStoreStub) ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRecord, error) {
	var out []persistence.LeaveRecord
	for _, record := range s.records {
		if filter.EmployeeID != "" && record.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Year != 0 && record.StartDate.Year() != filter.Year && record.EndDate.Year() != filter.Year {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *leaveStoreStub) DeleteLeave(ctx context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type directoryStub struct {
	known map[string]struct{}
}

func (s *directoryStub) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if _, ok := s.known[id]; !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return persistence.Employee{ID: id}, nil
}

type entitlementStub struct {
	config *persistence.StaffingConfig
}

func (s *entitlementStub) GetStaffingConfig(ctx context.Context) (persistence.StaffingConfig, error) {
	if s.config == nil {
		return persistence.StaffingConfig{}, persistence.ErrNotFound
	}
	return *s.config, nil
}

func newLeaveFixture() (*LeaveService, *leaveStoreStub, *entitlementStub) {
	store := &leaveStoreStub{}
	directory := &directoryStub{known: map[string]struct{}{"emp-1": {}}}
	entitlement := &entitlementStub{}
	svc := NewLeaveService(store, directory, entitlement, sequenceGenerator("leave"), fixedNow)
	return svc, store, entitlement
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveService_CreateLeave(t *testing.T) {
	t.Run("derives the working day count", func(t *testing.T) {
		svc, store, _ := newLeaveFixture()

		// Monday June 2nd through Sunday June 8th spans five weekdays.
		record, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Principal: Principal{OperatorID: "op-1"},
			Input: LeaveInput{
				EmployeeID: "emp-1",
				StartDate:  day(2025, time.June, 2),
				EndDate:    day(2025, time.June, 8),
				Notes:      "  première semaine  ",
			},
		})
		if err != nil {
			t.Fatalf("CreateLeave: %v", err)
		}
		if record.DaysCount != 5 {
			t.Errorf("DaysCount = %d, want 5", record.DaysCount)
		}
		if record.Year != 2025 {
			t.Errorf("Year = %d", record.Year)
		}
		if record.Notes != "première semaine" {
			t.Errorf("Notes = %q", record.Notes)
		}
		if _, ok := store.records[record.ID]; !ok {
			t.Error("record was not persisted")
		}
	})

	t.Run("rejects an unknown employee", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()

		_, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{
				EmployeeID: "emp-absent",
				StartDate:  day(2025, time.June, 2),
				EndDate:    day(2025, time.June, 6),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["employee_id"]; !ok {
			t.Fatalf("expected employee_id error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()

		_, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{
				EmployeeID: "emp-1",
				StartDate:  day(2025, time.June, 6),
				EndDate:    day(2025, time.June, 2),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end_date"]; !ok {
			t.Fatalf("expected end_date error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects an interval overlapping a stored record", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()

		_, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{
				EmployeeID: "emp-1",
				StartDate:  day(2025, time.June, 2),
				EndDate:    day(2025, time.June, 6),
			},
		})
		if err != nil {
			t.Fatalf("CreateLeave: %v", err)
		}

		_, err = svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{
				EmployeeID: "emp-1",
				StartDate:  day(2025, time.June, 6),
				EndDate:    day(2025, time.June, 10),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["start_date"]; !ok {
			t.Fatalf("expected start_date error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()

		_, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{EmployeeID: "emp-1"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(vErr.FieldErrors) != 2 {
			t.Errorf("expected start and end errors, got %v", vErr.FieldErrors)
		}
	})
}

func TestLeaveService_Summarize(t *testing.T) {
	seed := func(t *testing.T, svc *LeaveService, start, end time.Time) {
		t.Helper()
		_, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
			Input: LeaveInput{EmployeeID: "emp-1", StartDate: start, EndDate: end},
		})
		if err != nil {
			t.Fatalf("CreateLeave: %v", err)
		}
	}

	t.Run("totals the year and applies the default entitlement", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()
		seed(t, svc, day(2025, time.June, 2), day(2025, time.June, 6))
		seed(t, svc, day(2025, time.August, 4), day(2025, time.August, 15))

		summary, err := svc.Summarize(context.Background(), Principal{}, "emp-1", 2025)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if summary.TotalDaysTaken != 15 {
			t.Errorf("TotalDaysTaken = %d, want 15", summary.TotalDaysTaken)
		}
		if summary.LegalDays != 30 || summary.RemainingDays != 15 {
			t.Errorf("entitlement = %d remaining %d", summary.LegalDays, summary.RemainingDays)
		}
		if summary.Compliance != leave.LevelGood {
			t.Errorf("Compliance = %s", summary.Compliance)
		}
	})

	t.Run("takes the entitlement from the staffing configuration", func(t *testing.T) {
		svc, _, entitlement := newLeaveFixture()
		entitlement.config = &persistence.StaffingConfig{AnnualLeaveDays: 25}
		seed(t, svc, day(2025, time.June, 2), day(2025, time.June, 6))

		summary, err := svc.Summarize(context.Background(), Principal{}, "emp-1", 2025)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if summary.LegalDays != 25 || summary.RemainingDays != 20 {
			t.Errorf("entitlement = %d remaining %d", summary.LegalDays, summary.RemainingDays)
		}
	})

	t.Run("defaults to the current year", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()
		seed(t, svc, day(2025, time.June, 2), day(2025, time.June, 6))

		summary, err := svc.Summarize(context.Background(), Principal{}, "emp-1", 0)
		if err != nil {
			t.Fatalf("Summarize: %v", err)
		}
		if summary.Year != 2025 {
			t.Errorf("Year = %d, want 2025", summary.Year)
		}
	})

	t.Run("requires an employee", func(t *testing.T) {
		svc, _, _ := newLeaveFixture()

		_, err := svc.Summarize(context.Background(), Principal{}, "", 2025)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestLeaveService_DeleteLeave(t *testing.T) {
	svc, store, _ := newLeaveFixture()
	record, err := svc.CreateLeave(context.Background(), CreateLeaveParams{
		Input: LeaveInput{
			EmployeeID: "emp-1",
			StartDate:  day(2025, time.June, 2),
			EndDate:    day(2025, time.June, 6),
		},
	})
	if err != nil {
		t.Fatalf("CreateLeave: %v", err)
	}

	if err := svc.DeleteLeave(context.Background(), Principal{}, record.ID); err != nil {
		t.Fatalf("DeleteLeave: %v", err)
	}
	if len(store.records) != 0 {
		t.Error("record still stored")
	}
	if err := svc.DeleteLeave(context.Background(), Principal{}, record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
