package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/workforce-planner/internal/persistence"
)

// PlanningRepository implements persistence.PlanningRepository on SQLite.
type PlanningRepository struct {
	db *DB
}

// NewPlanningRepository returns a repository bound to the database.
func NewPlanningRepository(db *DB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

// SaveAppliedSchedules stores one apply operation atomically. An employee's
// previous applied row is superseded, keeping one current trace per
// employee.
func (r *PlanningRepository) SaveAppliedSchedules(ctx context.Context, schedules []persistence.AppliedSchedule) error {
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, sched := range schedules {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM applied_schedules WHERE employee_id = ?`, sched.EmployeeID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO applied_schedules (id, employee_id, total_weekly_hours, break_minutes, applied_at)
				VALUES (?, ?, ?, ?, ?)`,
				sched.ID, sched.EmployeeID, sched.TotalWeeklyHours, sched.BreakMinutes,
				formatTime(sched.AppliedAt)); err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err)
}

// ListAppliedSchedules returns the current applied trace per employee.
func (r *PlanningRepository) ListAppliedSchedules(ctx context.Context) ([]persistence.AppliedSchedule, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, employee_id, total_weekly_hours, break_minutes, applied_at
		FROM applied_schedules ORDER BY employee_id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var schedules []persistence.AppliedSchedule
	for rows.Next() {
		var sched persistence.AppliedSchedule
		var appliedAt string
		if err := rows.Scan(&sched.ID, &sched.EmployeeID, &sched.TotalWeeklyHours, &sched.BreakMinutes, &appliedAt); err != nil {
			return nil, mapError(err)
		}
		if sched.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	return schedules, mapError(rows.Err())
}
