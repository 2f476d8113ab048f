package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/example/workforce-planner/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository on SQLite.
// Polyvalent service links live in the employee_services join table and are
// rewritten atomically with the employee row.
type EmployeeRepository struct {
	db *DB
}

// NewEmployeeRepository returns a repository bound to the database.
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// CreateEmployee inserts a roster entry with its service links.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO employees (id, name, contract_type, weekly_hours, main_service_id, working_days, day_start, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			employee.ID, employee.Name, employee.ContractType, employee.WeeklyHours,
			employee.MainServiceID, joinDays(employee.WorkingDays), employee.DayStart,
			formatTime(employee.CreatedAt), formatTime(employee.UpdatedAt))
		if err != nil {
			return err
		}
		return insertServiceLinks(ctx, tx, employee.ID, employee.PolyvalentServiceIDs)
	})
	return mapError(err)
}

// UpdateEmployee rewrites a roster entry and its service links.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE employees
			SET name = ?, contract_type = ?, weekly_hours = ?, main_service_id = ?, working_days = ?, day_start = ?, updated_at = ?
			WHERE id = ?`,
			employee.Name, employee.ContractType, employee.WeeklyHours, employee.MainServiceID,
			joinDays(employee.WorkingDays), employee.DayStart, formatTime(employee.UpdatedAt), employee.ID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM employee_services WHERE employee_id = ?`, employee.ID); err != nil {
			return err
		}
		return insertServiceLinks(ctx, tx, employee.ID, employee.PolyvalentServiceIDs)
	})
	return mapError(err)
}

// GetEmployee retrieves one roster entry.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, name, contract_type, weekly_hours, main_service_id, working_days, day_start, created_at, updated_at
		FROM employees WHERE id = ?`, id)

	employee, err := scanEmployee(row)
	if err != nil {
		return persistence.Employee{}, err
	}
	employee.PolyvalentServiceIDs, err = r.serviceLinks(ctx, id)
	if err != nil {
		return persistence.Employee{}, err
	}
	return employee, nil
}

// ListEmployees returns the roster ordered by name.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, name, contract_type, weekly_hours, main_service_id, working_days, day_start, created_at, updated_at
		FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range employees {
		employees[i].PolyvalentServiceIDs, err = r.serviceLinks(ctx, employees[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return employees, nil
}

// DeleteEmployee removes a roster entry; service links cascade.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
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

func (r *EmployeeRepository) serviceLinks(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT service_id FROM employee_services WHERE employee_id = ? ORDER BY service_id`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

func insertServiceLinks(ctx context.Context, tx *sql.Tx, employeeID string, serviceIDs []string) error {
	for _, serviceID := range serviceIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO employee_services (employee_id, service_id) VALUES (?, ?)`,
			employeeID, serviceID); err != nil {
			return err
		}
	}
	return nil
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var workingDays, createdAt, updatedAt string
	if err := row.Scan(&employee.ID, &employee.Name, &employee.ContractType, &employee.WeeklyHours,
		&employee.MainServiceID, &workingDays, &employee.DayStart, &createdAt, &updatedAt); err != nil {
		return persistence.Employee{}, mapError(err)
	}
	employee.WorkingDays = splitDays(workingDays)
	var err error
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, err
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, err
	}
	return employee, nil
}

// joinDays serializes ISO weekday numbers as a comma list, e.g. "1,2,3,4,5".
func joinDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}

func splitDays(value string) []int {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	return days
}
