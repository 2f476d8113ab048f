package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Operators    persistence.OperatorRepository
	Sessions     persistence.SessionRepository
	Services     persistence.ServiceRepository
	Employees    persistence.EmployeeRepository
	Housekeeping persistence.HousekeepingRepository
	Leave        persistence.LeaveRepository
	Planning     persistence.PlanningRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated temporary database and wires every
// repository over it. Cleanup is registered with the provided testing.TB;
// calling Close earlier is allowed.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "planner.db")

	db, err := sqlite.Open("file:" + path + "?_foreign_keys=on")
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	operators := sqlite.NewOperatorRepository(db)
	harness := &SQLiteHarness{
		Operators:    operators,
		Sessions:     operators,
		Services:     sqlite.NewServiceRepository(db),
		Employees:    sqlite.NewEmployeeRepository(db),
		Housekeeping: sqlite.NewHousekeepingRepository(db),
		Leave:        sqlite.NewLeaveRepository(db),
		Planning:     sqlite.NewPlanningRepository(db),
		cleanup: func() {
			_ = db.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
