package sqlite

import (
	"context"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
)

// LeaveRepository implements persistence.LeaveRepository on SQLite.
type LeaveRepository struct {
	db *DB
}

// NewLeaveRepository returns a repository bound to the database.
func NewLeaveRepository(db *DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// dateOnly is the storage format for leave interval bounds.
const dateOnly = "2006-01-02"

// CreateLeave inserts a leave record.
func (r *LeaveRepository) CreateLeave(ctx context.Context, record persistence.LeaveRecord) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO leave_records (id, employee_id, start_date, end_date, days_count, year, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.EmployeeID,
		record.StartDate.UTC().Format(dateOnly),
		record.EndDate.UTC().Format(dateOnly),
		record.DaysCount, record.Year, record.Notes,
		formatTime(record.CreatedAt))
	return mapError(err)
}

// GetLeave retrieves one leave record.
func (r *LeaveRepository) GetLeave(ctx context.Context, id string) (persistence.LeaveRecord, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, employee_id, start_date, end_date, days_count, year, notes, created_at
		FROM leave_records WHERE id = ?`, id)
	return scanLeave(row)
}

// ListLeave returns leave records matching the filter, most recent first.
func (r *LeaveRepository) ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRecord, error) {
	query := `
		SELECT id, employee_id, start_date, end_date, days_count, year, notes, created_at
		FROM leave_records WHERE 1=1`
	args := make([]any, 0, 2)
	if filter.EmployeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, filter.EmployeeID)
	}
	if filter.Year != 0 {
		// Year-spanning intervals carry the start year in the year column
		// but still overlap the following year.
		query += " AND (year = ? OR CAST(strftime('%Y', end_date) AS INTEGER) = ?)"
		args = append(args, filter.Year, filter.Year)
	}
	query += " ORDER BY start_date DESC, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var records []persistence.LeaveRecord
	for rows.Next() {
		record, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, mapError(rows.Err())
}

// DeleteLeave removes a leave record.
func (r *LeaveRepository) DeleteLeave(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM leave_records WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanLeave(row rowScanner) (persistence.LeaveRecord, error) {
	var record persistence.LeaveRecord
	var startDate, endDate, createdAt string
	if err := row.Scan(&record.ID, &record.EmployeeID, &startDate, &endDate,
		&record.DaysCount, &record.Year, &record.Notes, &createdAt); err != nil {
		return persistence.LeaveRecord{}, mapError(err)
	}
	var err error
	if record.StartDate, err = time.ParseInLocation(dateOnly, startDate, time.UTC); err != nil {
		return persistence.LeaveRecord{}, err
	}
	if record.EndDate, err = time.ParseInLocation(dateOnly, endDate, time.UTC); err != nil {
		return persistence.LeaveRecord{}, err
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.LeaveRecord{}, err
	}
	return record, nil
}
