package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/workforce-planner/internal/persistence"
)

// HousekeepingRepository implements persistence.HousekeepingRepository on
// SQLite: the room inventory plus the staffing configuration singleton.
type HousekeepingRepository struct {
	db *DB
}

// NewHousekeepingRepository returns a repository bound to the database.
func NewHousekeepingRepository(db *DB) *HousekeepingRepository {
	return &HousekeepingRepository{db: db}
}

// ListRoomTypes returns the room inventory ordered by label.
func (r *HousekeepingRepository) ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, label, count, cleaning_minutes, updated_at FROM room_types ORDER BY label, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.RoomType
	for rows.Next() {
		var room persistence.RoomType
		var updatedAt string
		if err := rows.Scan(&room.ID, &room.Label, &room.Count, &room.CleaningMinutes, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, mapError(rows.Err())
}

// ReplaceRoomTypes swaps the whole inventory in one transaction. The
// operator edits the inventory as a single form, so partial updates never
// occur.
func (r *HousekeepingRepository) ReplaceRoomTypes(ctx context.Context, rooms []persistence.RoomType) error {
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_types`); err != nil {
			return err
		}
		for _, room := range rooms {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO room_types (id, label, count, cleaning_minutes, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				room.ID, room.Label, room.Count, room.CleaningMinutes, formatTime(room.UpdatedAt)); err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err)
}

// GetStaffingConfig reads the singleton configuration row.
func (r *HousekeepingRepository) GetStaffingConfig(ctx context.Context) (persistence.StaffingConfig, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT working_hours_per_day, safety_margin, weekly_hours_per_staff, rest_days_per_week, annual_leave_days, break_minutes, updated_at
		FROM staffing_config WHERE id = 1`)

	var config persistence.StaffingConfig
	var updatedAt string
	err := row.Scan(&config.WorkingHoursPerDay, &config.SafetyMargin, &config.WeeklyHoursPerStaff,
		&config.RestDaysPerWeek, &config.AnnualLeaveDays, &config.BreakMinutes, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.StaffingConfig{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.StaffingConfig{}, mapError(err)
	}
	if config.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.StaffingConfig{}, err
	}
	return config, nil
}

// SaveStaffingConfig upserts the singleton configuration row.
func (r *HousekeepingRepository) SaveStaffingConfig(ctx context.Context, config persistence.StaffingConfig) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO staffing_config (id, working_hours_per_day, safety_margin, weekly_hours_per_staff, rest_days_per_week, annual_leave_days, break_minutes, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			working_hours_per_day = excluded.working_hours_per_day,
			safety_margin = excluded.safety_margin,
			weekly_hours_per_staff = excluded.weekly_hours_per_staff,
			rest_days_per_week = excluded.rest_days_per_week,
			annual_leave_days = excluded.annual_leave_days,
			break_minutes = excluded.break_minutes,
			updated_at = excluded.updated_at`,
		config.WorkingHoursPerDay, config.SafetyMargin, config.WeeklyHoursPerStaff,
		config.RestDaysPerWeek, config.AnnualLeaveDays, config.BreakMinutes, formatTime(config.UpdatedAt))
	return mapError(err)
}
