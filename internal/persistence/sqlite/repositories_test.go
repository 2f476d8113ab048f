package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "planner_test.db")
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func testTime(day int) time.Time {
	return time.Date(2025, time.June, day, 9, 0, 0, 0, time.UTC)
}

func seedService(t *testing.T, db *DB, id, name string) {
	t.Helper()
	repo := NewServiceRepository(db)
	err := repo.CreateService(context.Background(), persistence.HotelService{
		ID: id, Name: name, Kind: "operational",
		CreatedAt: testTime(1), UpdatedAt: testTime(1),
	})
	if err != nil {
		t.Fatalf("CreateService %s: %v", id, err)
	}
}

func seedEmployee(t *testing.T, db *DB, id, serviceID string) {
	t.Helper()
	repo := NewEmployeeRepository(db)
	err := repo.CreateEmployee(context.Background(), persistence.Employee{
		ID: id, Name: "Marie Dubois", ContractType: "CDI", WeeklyHours: "H35",
		MainServiceID: serviceID, WorkingDays: []int{1, 2, 3, 4, 5}, DayStart: "10:00",
		CreatedAt: testTime(1), UpdatedAt: testTime(1),
	})
	if err != nil {
		t.Fatalf("CreateEmployee %s: %v", id, err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestOperatorRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewOperatorRepository(db)
	ctx := context.Background()

	operator := persistence.Operator{
		ID:           "op-1",
		Email:        "  Manager@Hotel.FR ",
		DisplayName:  "Directeur",
		PasswordHash: "$argon2id$stub",
		IsAdmin:      true,
		CreatedAt:    testTime(1),
		UpdatedAt:    testTime(1),
	}
	if err := repo.CreateOperator(ctx, operator); err != nil {
		t.Fatalf("CreateOperator: %v", err)
	}

	got, err := repo.GetOperatorByEmail(ctx, "manager@hotel.fr")
	if err != nil {
		t.Fatalf("GetOperatorByEmail: %v", err)
	}
	if got.Email != "manager@hotel.fr" {
		t.Errorf("email not normalized: %q", got.Email)
	}
	if !got.IsAdmin {
		t.Error("IsAdmin lost in round trip")
	}

	dup := operator
	dup.ID = "op-2"
	if err := repo.CreateOperator(ctx, dup); !errors.Is(err, persistence.ErrDuplicate) {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}

	if _, err := repo.GetOperator(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("missing operator: got %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewOperatorRepository(db)
	ctx := context.Background()

	if err := repo.CreateOperator(ctx, persistence.Operator{
		ID: "op-1", Email: "a@b.fr", DisplayName: "A", PasswordHash: "h",
		CreatedAt: testTime(1), UpdatedAt: testTime(1),
	}); err != nil {
		t.Fatalf("CreateOperator: %v", err)
	}

	session := persistence.Session{
		ID: "sess-1", OperatorID: "op-1", Token: "tok-1",
		ExpiresAt: testTime(2), CreatedAt: testTime(1),
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := repo.GetSession(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.RevokedAt != nil {
		t.Error("fresh session already revoked")
	}

	if err := repo.RevokeSession(ctx, "tok-1", testTime(1)); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if err := repo.RevokeSession(ctx, "tok-1", testTime(2)); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("second revoke: got %v, want ErrNotFound", err)
	}

	got, err = repo.GetSession(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetSession after revoke: %v", err)
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(testTime(1)) {
		t.Errorf("RevokedAt = %v, want first revoke timestamp", got.RevokedAt)
	}

	if err := repo.DeleteExpiredSessions(ctx, testTime(3)); err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if _, err := repo.GetSession(ctx, "tok-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("expired session still readable: %v", err)
	}
}

func TestEmployeeRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	seedService(t, db, "svc-housekeeping", "Housekeeping")
	seedService(t, db, "svc-reception", "Réception")

	employee := persistence.Employee{
		ID:                   "emp-1",
		Name:                 "Marie Dubois",
		ContractType:         "CDI",
		WeeklyHours:          "H39_MODULABLE",
		MainServiceID:        "svc-housekeeping",
		PolyvalentServiceIDs: []string{"svc-reception"},
		WorkingDays:          []int{1, 2, 3, 4, 5},
		DayStart:             "10:00",
		CreatedAt:            testTime(1),
		UpdatedAt:            testTime(1),
	}
	if err := repo.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}

	got, err := repo.GetEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	if got.WeeklyHours != "H39_MODULABLE" {
		t.Errorf("WeeklyHours = %q", got.WeeklyHours)
	}
	if len(got.WorkingDays) != 5 || got.WorkingDays[0] != 1 || got.WorkingDays[4] != 5 {
		t.Errorf("WorkingDays = %v", got.WorkingDays)
	}
	if len(got.PolyvalentServiceIDs) != 1 || got.PolyvalentServiceIDs[0] != "svc-reception" {
		t.Errorf("PolyvalentServiceIDs = %v", got.PolyvalentServiceIDs)
	}

	employee.WeeklyHours = "H35"
	employee.PolyvalentServiceIDs = nil
	employee.UpdatedAt = testTime(2)
	if err := repo.UpdateEmployee(ctx, employee); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	got, err = repo.GetEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("GetEmployee after update: %v", err)
	}
	if got.WeeklyHours != "H35" || len(got.PolyvalentServiceIDs) != 0 {
		t.Errorf("update not applied: hours=%q links=%v", got.WeeklyHours, got.PolyvalentServiceIDs)
	}

	if err := repo.CreateEmployee(ctx, persistence.Employee{
		ID: "emp-2", Name: "X", ContractType: "CDI", WeeklyHours: "H35",
		MainServiceID: "svc-unknown", DayStart: "09:00",
		CreatedAt: testTime(1), UpdatedAt: testTime(1),
	}); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Errorf("unknown service: got %v, want ErrForeignKeyViolation", err)
	}

	if err := repo.DeleteEmployee(ctx, "emp-1"); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if err := repo.DeleteEmployee(ctx, "emp-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestHousekeepingRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewHousekeepingRepository(db)
	ctx := context.Background()

	if _, err := repo.GetStaffingConfig(ctx); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("empty config: got %v, want ErrNotFound", err)
	}

	config := persistence.StaffingConfig{
		WorkingHoursPerDay:  7,
		SafetyMargin:        0.15,
		WeeklyHoursPerStaff: 35,
		RestDaysPerWeek:     2,
		AnnualLeaveDays:     30,
		BreakMinutes:        60,
		UpdatedAt:           testTime(1),
	}
	if err := repo.SaveStaffingConfig(ctx, config); err != nil {
		t.Fatalf("SaveStaffingConfig: %v", err)
	}
	config.SafetyMargin = 0.2
	config.UpdatedAt = testTime(2)
	if err := repo.SaveStaffingConfig(ctx, config); err != nil {
		t.Fatalf("SaveStaffingConfig upsert: %v", err)
	}
	got, err := repo.GetStaffingConfig(ctx)
	if err != nil {
		t.Fatalf("GetStaffingConfig: %v", err)
	}
	if got.SafetyMargin != 0.2 {
		t.Errorf("SafetyMargin = %v, want 0.2", got.SafetyMargin)
	}

	rooms := []persistence.RoomType{
		{ID: "room-double", Label: "Double", Count: 20, CleaningMinutes: 30, UpdatedAt: testTime(1)},
		{ID: "room-suite", Label: "Suite", Count: 4, CleaningMinutes: 60, UpdatedAt: testTime(1)},
	}
	if err := repo.ReplaceRoomTypes(ctx, rooms); err != nil {
		t.Fatalf("ReplaceRoomTypes: %v", err)
	}
	if err := repo.ReplaceRoomTypes(ctx, rooms[:1]); err != nil {
		t.Fatalf("ReplaceRoomTypes shrink: %v", err)
	}
	listed, err := repo.ListRoomTypes(ctx)
	if err != nil {
		t.Fatalf("ListRoomTypes: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "room-double" {
		t.Errorf("inventory after replace = %+v", listed)
	}

	bad := []persistence.RoomType{{ID: "room-bad", Label: "Bad", Count: -1, CleaningMinutes: 30, UpdatedAt: testTime(1)}}
	if err := repo.ReplaceRoomTypes(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Errorf("negative count: got %v, want ErrConstraintViolation", err)
	}
	listed, err = repo.ListRoomTypes(ctx)
	if err != nil {
		t.Fatalf("ListRoomTypes after failed replace: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("failed replace not rolled back, inventory = %+v", listed)
	}
}

func TestLeaveRepositoryFiltering(t *testing.T) {
	db := openTestDB(t)
	repo := NewLeaveRepository(db)
	ctx := context.Background()

	seedService(t, db, "svc-housekeeping", "Housekeeping")
	seedEmployee(t, db, "emp-1", "svc-housekeeping")
	seedEmployee(t, db, "emp-2", "svc-housekeeping")

	records := []persistence.LeaveRecord{
		{ID: "leave-1", EmployeeID: "emp-1",
			StartDate: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
			DaysCount: 5, Year: 2025, CreatedAt: testTime(1)},
		{ID: "leave-2", EmployeeID: "emp-1",
			StartDate: time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC),
			DaysCount: 5, Year: 2024, Notes: "pont du nouvel an", CreatedAt: testTime(1)},
		{ID: "leave-3", EmployeeID: "emp-2",
			StartDate: time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, time.August, 8, 0, 0, 0, 0, time.UTC),
			DaysCount: 5, Year: 2025, CreatedAt: testTime(1)},
	}
	for _, record := range records {
		if err := repo.CreateLeave(ctx, record); err != nil {
			t.Fatalf("CreateLeave %s: %v", record.ID, err)
		}
	}

	// A year filter must also return intervals that start the previous
	// year and spill into the requested one.
	got, err := repo.ListLeave(ctx, persistence.LeaveFilter{EmployeeID: "emp-1", Year: 2025})
	if err != nil {
		t.Fatalf("ListLeave: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("emp-1 2025 records = %d, want 2", len(got))
	}
	if got[0].ID != "leave-1" || got[1].ID != "leave-2" {
		t.Errorf("order = [%s %s], want most recent first", got[0].ID, got[1].ID)
	}
	if got[1].Notes != "pont du nouvel an" {
		t.Errorf("Notes lost: %q", got[1].Notes)
	}

	got, err = repo.ListLeave(ctx, persistence.LeaveFilter{Year: 2024})
	if err != nil {
		t.Fatalf("ListLeave year only: %v", err)
	}
	if len(got) != 1 || got[0].ID != "leave-2" {
		t.Errorf("2024 records = %+v", got)
	}

	all, err := repo.ListLeave(ctx, persistence.LeaveFilter{})
	if err != nil {
		t.Fatalf("ListLeave all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all records = %d, want 3", len(all))
	}

	record, err := repo.GetLeave(ctx, "leave-2")
	if err != nil {
		t.Fatalf("GetLeave: %v", err)
	}
	if !record.StartDate.Equal(time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v", record.StartDate)
	}

	if err := repo.DeleteLeave(ctx, "leave-1"); err != nil {
		t.Fatalf("DeleteLeave: %v", err)
	}
	if err := repo.DeleteLeave(ctx, "leave-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestPlanningRepositorySupersedesPerEmployee(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlanningRepository(db)
	ctx := context.Background()

	seedService(t, db, "svc-housekeeping", "Housekeeping")
	seedEmployee(t, db, "emp-1", "svc-housekeeping")
	seedEmployee(t, db, "emp-2", "svc-housekeeping")

	first := []persistence.AppliedSchedule{
		{ID: "apply-1", EmployeeID: "emp-1", TotalWeeklyHours: 30, BreakMinutes: 60, AppliedAt: testTime(1)},
		{ID: "apply-2", EmployeeID: "emp-2", TotalWeeklyHours: 35, BreakMinutes: 60, AppliedAt: testTime(1)},
	}
	if err := repo.SaveAppliedSchedules(ctx, first); err != nil {
		t.Fatalf("SaveAppliedSchedules: %v", err)
	}

	second := []persistence.AppliedSchedule{
		{ID: "apply-3", EmployeeID: "emp-1", TotalWeeklyHours: 32.5, BreakMinutes: 45, AppliedAt: testTime(2)},
	}
	if err := repo.SaveAppliedSchedules(ctx, second); err != nil {
		t.Fatalf("SaveAppliedSchedules again: %v", err)
	}

	got, err := repo.ListAppliedSchedules(ctx)
	if err != nil {
		t.Fatalf("ListAppliedSchedules: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("applied rows = %d, want 2", len(got))
	}
	if got[0].EmployeeID != "emp-1" || got[0].ID != "apply-3" || got[0].TotalWeeklyHours != 32.5 {
		t.Errorf("emp-1 trace = %+v, want superseding row", got[0])
	}
	if got[1].EmployeeID != "emp-2" || got[1].ID != "apply-2" {
		t.Errorf("emp-2 trace = %+v, want original row", got[1])
	}
}
