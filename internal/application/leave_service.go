package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/persistence"
)

// LeaveStore captures the persistence operations needed by the leave service.
type LeaveStore interface {
	CreateLeave(ctx context.Context, record persistence.LeaveRecord) error
	GetLeave(ctx context.Context, id string) (persistence.LeaveRecord, error)
	ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRecord, error)
	DeleteLeave(ctx context.Context, id string) error
}

// EmployeeDirectory is the read side of the roster the leave service needs
// for referential checks.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (persistence.Employee, error)
}

// EntitlementSource yields the staffing configuration carrying the annual
// leave entitlement.
type EntitlementSource interface {
	GetStaffingConfig(ctx context.Context) (persistence.StaffingConfig, error)
}

// LeaveService records leave intervals and folds them into per-year
// compliance summaries.
type LeaveService struct {
	records     LeaveStore
	employees   EmployeeDirectory
	entitlement EntitlementSource
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	thresholds  leave.Thresholds
}

// NewLeaveService constructs a leave service with the provided dependencies.
func NewLeaveService(records LeaveStore, employees EmployeeDirectory, entitlement EntitlementSource, idGenerator func() string, now func() time.Time) *LeaveService {
	return NewLeaveServiceWithLogger(records, employees, entitlement, idGenerator, now, nil)
}

// NewLeaveServiceWithLogger constructs a leave service with a specified logger.
func NewLeaveServiceWithLogger(records LeaveStore, employees EmployeeDirectory, entitlement EntitlementSource, idGenerator func() string, now func() time.Time, logger *slog.Logger) *LeaveService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &LeaveService{
		records:     records,
		employees:   employees,
		entitlement: entitlement,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// ConfigurePolicy overrides the compliance thresholds used by Summarize.
// Zero-valued thresholds keep the built-in defaults. Call before serving
// requests.
func (s *LeaveService) ConfigurePolicy(thresholds leave.Thresholds) {
	if s == nil {
		return
	}
	s.thresholds = thresholds
}

func (s *LeaveService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LeaveService", operation, attrs...)
}

// CreateLeave validates a leave interval, derives its working-day count and
// persists it.
func (s *LeaveService) CreateLeave(ctx context.Context, params CreateLeaveParams) (record persistence.LeaveRecord, err error) {
	if s == nil {
		err = fmt.Errorf("LeaveService is nil")
		return
	}
	if s.records == nil {
		err = fmt.Errorf("leave store not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLeave",
		"principal_id", params.Principal.OperatorID,
		"employee_id", params.Input.EmployeeID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create leave record", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("leave_id", record.ID, "days_count", record.DaysCount).InfoContext(ctx, "leave record created")
	}()

	vErr := &ValidationError{}
	if params.Input.EmployeeID == "" {
		vErr.add("employee_id", "employee is required")
	} else if s.employees != nil {
		if _, lookupErr := s.employees.GetEmployee(ctx, params.Input.EmployeeID); lookupErr != nil {
			if errors.Is(lookupErr, persistence.ErrNotFound) {
				vErr.add("employee_id", "employee does not exist")
			} else {
				err = lookupErr
				return
			}
		}
	}
	if params.Input.StartDate.IsZero() {
		vErr.add("start_date", "start date is required")
	}
	if params.Input.EndDate.IsZero() {
		vErr.add("end_date", "end date is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	entry, rangeErr := leave.NewRecord(
		s.idGenerator(),
		params.Input.EmployeeID,
		params.Input.StartDate,
		params.Input.EndDate,
		params.Input.Notes,
	)
	if rangeErr != nil {
		vErr.add("end_date", "end date must not precede start date")
		err = vErr
		return
	}

	stored, listErr := s.records.ListLeave(ctx, persistence.LeaveFilter{EmployeeID: entry.EmployeeID})
	if listErr != nil {
		err = mapRepoError(listErr)
		return
	}
	existing := make([]leave.Record, 0, len(stored))
	for _, row := range stored {
		existing = append(existing, leave.Record{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
		})
	}
	if overlaps := leave.FindOverlaps(entry, existing); len(overlaps) > 0 {
		vErr.add("start_date", "leave overlaps an existing record")
		err = vErr
		return
	}

	record = persistence.LeaveRecord{
		ID:         entry.ID,
		EmployeeID: entry.EmployeeID,
		StartDate:  entry.StartDate,
		EndDate:    entry.EndDate,
		DaysCount:  entry.DaysCount,
		Year:       entry.Year,
		Notes:      entry.Notes,
		CreatedAt:  s.now(),
	}

	if err = s.records.CreateLeave(ctx, record); err != nil {
		err = mapRepoError(err)
		record = persistence.LeaveRecord{}
	}
	return
}

// ListLeave returns leave records matching the query for any authenticated operator.
func (s *LeaveService) ListLeave(ctx context.Context, principal Principal, query LeaveQuery) ([]persistence.LeaveRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("LeaveService is nil")
	}
	if s.records == nil {
		return nil, nil
	}

	records, err := s.records.ListLeave(ctx, persistence.LeaveFilter{
		EmployeeID: query.EmployeeID,
		Year:       query.Year,
	})
	if err != nil {
		return nil, mapRepoError(err)
	}
	return records, nil
}

// DeleteLeave removes a leave record.
func (s *LeaveService) DeleteLeave(ctx context.Context, principal Principal, leaveID string) error {
	if s == nil {
		return fmt.Errorf("LeaveService is nil")
	}
	if s.records == nil {
		return fmt.Errorf("leave store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteLeave",
		"principal_id", principal.OperatorID,
		"leave_id", leaveID,
	)

	if err := s.records.DeleteLeave(ctx, leaveID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete leave record", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "leave record deleted")
	return nil
}

// Summarize folds an employee's stored leave records into the compliance
// summary for one year. The legal entitlement comes from the staffing
// configuration when one is saved.
func (s *LeaveService) Summarize(ctx context.Context, principal Principal, employeeID string, year int) (leave.Summary, error) {
	if s == nil {
		return leave.Summary{}, fmt.Errorf("LeaveService is nil")
	}
	if s.records == nil {
		return leave.Summary{}, fmt.Errorf("leave store not configured")
	}
	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee is required")
		return leave.Summary{}, vErr
	}
	if year == 0 {
		year = s.now().Year()
	}

	stored, err := s.records.ListLeave(ctx, persistence.LeaveFilter{EmployeeID: employeeID, Year: year})
	if err != nil {
		return leave.Summary{}, mapRepoError(err)
	}

	records := make([]leave.Record, 0, len(stored))
	for _, row := range stored {
		records = append(records, leave.Record{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			StartDate:  row.StartDate,
			EndDate:    row.EndDate,
			DaysCount:  row.DaysCount,
			Year:       row.Year,
			Notes:      row.Notes,
		})
	}

	thresholds := s.thresholds
	if thresholds.LegalDays == 0 {
		thresholds = leave.DefaultThresholds()
	}
	if s.entitlement != nil {
		config, cfgErr := s.entitlement.GetStaffingConfig(ctx)
		if cfgErr == nil && config.AnnualLeaveDays > 0 {
			thresholds.LegalDays = config.AnnualLeaveDays
		} else if cfgErr != nil && !errors.Is(cfgErr, persistence.ErrNotFound) {
			return leave.Summary{}, cfgErr
		}
	}

	return leave.Summarize(employeeID, year, records, s.now(), thresholds), nil
}
