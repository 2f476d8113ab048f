package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/workforce-planner/internal/persistence"
)

type housekeepingStoreStub struct {
	rooms      []persistence.RoomType
	config     *persistence.StaffingConfig
	replaceErr error
}

func (s *housekeepingStoreStub) ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error) {
	return append([]persistence.RoomType(nil), s.rooms...), nil
}

func (s *housekeepingStoreStub) ReplaceRoomTypes(ctx context.Context, rooms []persistence.RoomType) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.rooms = append([]persistence.RoomType(nil), rooms...)
	return nil
}

func (s *housekeepingStoreStub) GetStaffingConfig(ctx context.Context) (persistence.StaffingConfig, error) {
	if s.config == nil {
		return persistence.StaffingConfig{}, persistence.ErrNotFound
	}
	return *s.config, nil
}

func (s *housekeepingStoreStub) SaveStaffingConfig(ctx context.Context, config persistence.StaffingConfig) error {
	s.config = &config
	return nil
}

func newHousekeepingFixture() (*HousekeepingService, *housekeepingStoreStub) {
	store := &housekeepingStoreStub{}
	svc := NewHousekeepingService(store, sequenceGenerator("room"), fixedNow)
	return svc, store
}

func TestHousekeepingService_ReplaceRooms(t *testing.T) {
	t.Run("requires administrator privileges", func(t *testing.T) {
		svc, _ := newHousekeepingFixture()

		_, err := svc.ReplaceRooms(context.Background(), ReplaceRoomsParams{
			Principal: Principal{OperatorID: "op-1"},
			Rooms:     []RoomTypeInput{{Label: "Double", Count: 10, CleaningMinutes: 30}},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("assigns identifiers to new rows", func(t *testing.T) {
		svc, store := newHousekeepingFixture()

		rooms, err := svc.ReplaceRooms(context.Background(), ReplaceRoomsParams{
			Principal: Principal{IsAdmin: true},
			Rooms: []RoomTypeInput{
				{Label: "Double", Count: 20, CleaningMinutes: 30},
				{ID: "room-suite", Label: "Suite", Count: 4, CleaningMinutes: 60},
			},
		})
		if err != nil {
			t.Fatalf("ReplaceRooms: %v", err)
		}
		if rooms[0].ID == "" {
			t.Error("expected a generated ID for the new row")
		}
		if rooms[1].ID != "room-suite" {
			t.Errorf("existing ID rewritten: %q", rooms[1].ID)
		}
		if len(store.rooms) != 2 {
			t.Errorf("stored rows = %d", len(store.rooms))
		}
	})

	t.Run("rejects duplicate labels and invalid rows", func(t *testing.T) {
		svc, _ := newHousekeepingFixture()

		_, err := svc.ReplaceRooms(context.Background(), ReplaceRoomsParams{
			Principal: Principal{IsAdmin: true},
			Rooms: []RoomTypeInput{
				{Label: "Double", Count: -1, CleaningMinutes: 30},
				{Label: "double", Count: 4, CleaningMinutes: 0},
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"rooms[0].count", "rooms[1].label", "rooms[1].cleaning_minutes"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestHousekeepingService_Config(t *testing.T) {
	t.Run("falls back to defaults when nothing is saved", func(t *testing.T) {
		svc, _ := newHousekeepingFixture()

		config, err := svc.GetConfig(context.Background(), Principal{})
		if err != nil {
			t.Fatalf("GetConfig: %v", err)
		}
		if config.WeeklyHoursPerStaff != 35 || config.RestDaysPerWeek != 2 || config.BreakMinutes != 60 {
			t.Errorf("defaults = %+v", config)
		}
	})

	t.Run("persists a valid configuration", func(t *testing.T) {
		svc, store := newHousekeepingFixture()

		config, err := svc.SaveConfig(context.Background(), SaveStaffingConfigParams{
			Principal: Principal{IsAdmin: true},
			Input: StaffingConfigInput{
				WorkingHoursPerDay:  8,
				SafetyMargin:        0.2,
				WeeklyHoursPerStaff: 39,
				RestDaysPerWeek:     2,
				AnnualLeaveDays:     25,
				BreakMinutes:        45,
			},
		})
		if err != nil {
			t.Fatalf("SaveConfig: %v", err)
		}
		if store.config == nil || store.config.WeeklyHoursPerStaff != 39 {
			t.Errorf("stored config = %+v", store.config)
		}
		if !config.UpdatedAt.Equal(fixedNow()) {
			t.Errorf("UpdatedAt = %v", config.UpdatedAt)
		}
	})

	t.Run("rejects out-of-range parameters", func(t *testing.T) {
		svc, _ := newHousekeepingFixture()

		_, err := svc.SaveConfig(context.Background(), SaveStaffingConfigParams{
			Principal: Principal{IsAdmin: true},
			Input: StaffingConfigInput{
				WorkingHoursPerDay:  25,
				SafetyMargin:        1.5,
				WeeklyHoursPerStaff: 0,
				RestDaysPerWeek:     7,
				AnnualLeaveDays:     -1,
				BreakMinutes:        -5,
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(vErr.FieldErrors) != 6 {
			t.Errorf("expected every field rejected, got %v", vErr.FieldErrors)
		}
	})
}

func TestHousekeepingService_Capacity(t *testing.T) {
	svc, store := newHousekeepingFixture()
	store.rooms = []persistence.RoomType{
		{ID: "room-double", Label: "Double", Count: 20, CleaningMinutes: 30},
		{ID: "room-suite", Label: "Suite", Count: 4, CleaningMinutes: 60},
	}

	report, err := svc.Capacity(context.Background(), Principal{OperatorID: "op-1"})
	if err != nil {
		t.Fatalf("Capacity: %v", err)
	}

	if report.Result.TotalCleaningMinutes != 840 {
		t.Errorf("TotalCleaningMinutes = %d, want 840", report.Result.TotalCleaningMinutes)
	}
	if report.Result.DailyCleaningHours != 14 {
		t.Errorf("DailyCleaningHours = %v, want 14", report.Result.DailyCleaningHours)
	}
	if report.Result.WorkingDaysPerYear != 231 {
		t.Errorf("WorkingDaysPerYear = %d, want 231", report.Result.WorkingDaysPerYear)
	}
	if report.Result.MinimumStaff != 4 {
		t.Errorf("MinimumStaff = %d, want 4", report.Result.MinimumStaff)
	}
	if report.Result.RecommendedStaff != 5 {
		t.Errorf("RecommendedStaff = %d, want 5", report.Result.RecommendedStaff)
	}
	if len(report.Rooms) != 2 {
		t.Errorf("report rooms = %d", len(report.Rooms))
	}
}
