package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/schedule"
)

// contractHours maps the contract hour enum to its weekly hour target. The
// modulable variants carry the same weekly target; they differ only in how
// the hours may be spread over the year.
var contractHours = map[string]float64{
	"H35":           35,
	"H39":           39,
	"H35_MODULABLE": 35,
	"H39_MODULABLE": 39,
}

// ContractHours resolves a contract hour enum to its numeric weekly target.
func ContractHours(code string) (float64, bool) {
	hours, ok := contractHours[code]
	return hours, ok
}

// EmployeeStore captures the persistence operations needed by the employee service.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, employee persistence.Employee) error
	UpdateEmployee(ctx context.Context, employee persistence.Employee) error
	GetEmployee(ctx context.Context, id string) (persistence.Employee, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// ServiceCatalog is the read side of the catalog the employee service needs
// for referential checks.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (persistence.HotelService, error)
}

// EmployeeService orchestrates validation, authorization, and persistence for
// the roster.
type EmployeeService struct {
	employees   EmployeeStore
	catalog     ServiceCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEmployeeService constructs an employee service with the provided dependencies.
func NewEmployeeService(employees EmployeeStore, catalog ServiceCatalog, idGenerator func() string, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, catalog, idGenerator, now, nil)
}

// NewEmployeeServiceWithLogger constructs an employee service with a specified logger.
func NewEmployeeServiceWithLogger(employees EmployeeStore, catalog ServiceCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:   employees,
		catalog:     catalog,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee validates input and persists a new roster entry for administrators.
func (s *EmployeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (employee persistence.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "principal_id", params.Principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("employee_id", employee.ID).InfoContext(ctx, "employee created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee store not configured")
		return
	}

	normalized := normalizeEmployeeInput(params.Input)
	vErr := s.validateEmployeeInput(ctx, normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	employee = persistence.Employee{
		ID:                   s.idGenerator(),
		Name:                 normalized.Name,
		ContractType:         normalized.ContractType,
		WeeklyHours:          normalized.WeeklyHours,
		MainServiceID:        normalized.MainServiceID,
		PolyvalentServiceIDs: normalized.PolyvalentServiceIDs,
		WorkingDays:          normalized.WorkingDays,
		DayStart:             normalized.DayStart,
		CreatedAt:            s.now(),
	}
	employee.UpdatedAt = employee.CreatedAt

	if err = s.employees.CreateEmployee(ctx, employee); err != nil {
		err = mapRepoError(err)
		employee = persistence.Employee{}
	}
	return
}

// UpdateEmployee validates input and updates an existing roster entry for administrators.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, params UpdateEmployeeParams) (employee persistence.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.employees == nil {
		err = fmt.Errorf("employee store not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEmployee",
		"principal_id", params.Principal.OperatorID,
		"employee_id", params.EmployeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update employee", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "employee updated")
	}()

	var existing persistence.Employee
	existing, err = s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeEmployeeInput(params.Input)
	vErr := s.validateEmployeeInput(ctx, normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	employee = existing
	employee.Name = normalized.Name
	employee.ContractType = normalized.ContractType
	employee.WeeklyHours = normalized.WeeklyHours
	employee.MainServiceID = normalized.MainServiceID
	employee.PolyvalentServiceIDs = normalized.PolyvalentServiceIDs
	employee.WorkingDays = normalized.WorkingDays
	employee.DayStart = normalized.DayStart
	employee.UpdatedAt = s.now()

	if err = s.employees.UpdateEmployee(ctx, employee); err != nil {
		err = mapRepoError(err)
		employee = persistence.Employee{}
	}
	return
}

// DeleteEmployee removes a roster entry when requested by an administrator.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, principal Principal, employeeID string) error {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.employees == nil {
		return fmt.Errorf("employee store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEmployee",
		"principal_id", principal.OperatorID,
		"employee_id", employeeID,
	)

	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "employee deleted")
	return nil
}

// GetEmployee returns one roster entry for any authenticated operator.
func (s *EmployeeService) GetEmployee(ctx context.Context, principal Principal, employeeID string) (persistence.Employee, error) {
	if s == nil {
		return persistence.Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return persistence.Employee{}, ErrNotFound
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return persistence.Employee{}, mapRepoError(err)
	}
	return employee, nil
}

// ListEmployees returns the roster for any authenticated operator.
func (s *EmployeeService) ListEmployees(ctx context.Context, principal Principal) (employees []persistence.Employee, err error) {
	if s == nil {
		err = fmt.Errorf("EmployeeService is nil")
		return
	}
	if s.employees == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListEmployees", "principal_id", principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list employees", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(employees)).InfoContext(ctx, "employees listed")
	}()

	var raw []persistence.Employee
	raw, err = s.employees.ListEmployees(ctx)
	if err != nil {
		return
	}

	employees = make([]persistence.Employee, len(raw))
	copy(employees, raw)

	sort.Slice(employees, func(i, j int) bool {
		if strings.EqualFold(employees[i].Name, employees[j].Name) {
			return employees[i].ID < employees[j].ID
		}
		return strings.ToLower(employees[i].Name) < strings.ToLower(employees[j].Name)
	})

	return
}

func normalizeEmployeeInput(input EmployeeInput) EmployeeInput {
	normalized := EmployeeInput{
		Name:          strings.TrimSpace(input.Name),
		ContractType:  strings.TrimSpace(input.ContractType),
		WeeklyHours:   strings.ToUpper(strings.TrimSpace(input.WeeklyHours)),
		MainServiceID: strings.TrimSpace(input.MainServiceID),
		DayStart:      strings.TrimSpace(input.DayStart),
	}

	seen := make(map[string]struct{}, len(input.PolyvalentServiceIDs))
	for _, id := range input.PolyvalentServiceIDs {
		id = strings.TrimSpace(id)
		if id == "" || id == normalized.MainServiceID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized.PolyvalentServiceIDs = append(normalized.PolyvalentServiceIDs, id)
	}
	sort.Strings(normalized.PolyvalentServiceIDs)

	normalized.WorkingDays = append([]int(nil), input.WorkingDays...)
	sort.Ints(normalized.WorkingDays)

	return normalized
}

func (s *EmployeeService) validateEmployeeInput(ctx context.Context, input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.ContractType == "" {
		vErr.add("contract_type", "contract type is required")
	}
	if _, ok := ContractHours(input.WeeklyHours); !ok {
		vErr.add("weekly_hours", "weekly hours must be one of H35, H39, H35_MODULABLE, H39_MODULABLE")
	}

	if len(input.WorkingDays) == 0 {
		vErr.add("working_days", "at least one working day is required")
	}
	seen := make(map[int]struct{}, len(input.WorkingDays))
	for _, day := range input.WorkingDays {
		if day < 1 || day > 7 {
			vErr.add("working_days", "working days must be ISO weekday numbers between 1 and 7")
			break
		}
		if _, ok := seen[day]; ok {
			vErr.add("working_days", "working days must not repeat")
			break
		}
		seen[day] = struct{}{}
	}

	if _, err := schedule.ParseClock(input.DayStart); err != nil {
		vErr.add("day_start", "day start must be an HH:MM clock time")
	}

	if input.MainServiceID == "" {
		vErr.add("main_service_id", "main service is required")
	} else if s.catalog != nil {
		if _, err := s.catalog.GetService(ctx, input.MainServiceID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				vErr.add("main_service_id", "main service does not exist")
			}
		}
	}
	if s.catalog != nil {
		for _, id := range input.PolyvalentServiceIDs {
			if _, err := s.catalog.GetService(ctx, id); err != nil {
				if errors.Is(err, persistence.ErrNotFound) {
					vErr.add("polyvalent_service_ids", "unknown service: "+id)
				}
			}
		}
	}

	return vErr
}

// ContractFromEmployee projects a roster entry into the slice of contract
// data the schedule generator consumes. Roster rows with an unknown hour
// enum are reported by the second return value.
func ContractFromEmployee(employee persistence.Employee) (schedule.Contract, bool) {
	hours, ok := ContractHours(employee.WeeklyHours)
	if !ok {
		return schedule.Contract{}, false
	}

	start, err := schedule.ParseClock(employee.DayStart)
	if err != nil {
		return schedule.Contract{}, false
	}

	days := make([]time.Weekday, 0, len(employee.WorkingDays))
	for _, iso := range employee.WorkingDays {
		if iso < 1 || iso > 7 {
			continue
		}
		// ISO weekday 7 is Sunday, which time.Weekday numbers as 0.
		days = append(days, time.Weekday(iso%7))
	}

	return schedule.Contract{
		EmployeeID:  employee.ID,
		Name:        employee.Name,
		WeeklyHours: hours,
		WorkingDays: days,
		DayStart:    start,
	}, true
}
