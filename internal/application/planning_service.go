package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/workforce-planner/internal/alerting"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/planning"
	"github.com/example/workforce-planner/internal/schedule"
)

// PlanningStore captures the persistence operations needed by the planning service.
type PlanningStore interface {
	SaveAppliedSchedules(ctx context.Context, schedules []persistence.AppliedSchedule) error
	ListAppliedSchedules(ctx context.Context) ([]persistence.AppliedSchedule, error)
}

// RosterSource is the read side of the roster the planning service consumes.
type RosterSource interface {
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
}

// LeaveSource is the read side of the leave ledger the planning service consumes.
type LeaveSource interface {
	ListLeave(ctx context.Context, filter persistence.LeaveFilter) ([]persistence.LeaveRecord, error)
}

// EditorSession is one in-memory schedule editing session. The working copy
// never touches storage; only an explicit apply persists its totals.
type EditorSession struct {
	ID    string
	Year  int
	State schedule.EditorState
}

// PlanningService derives the full planning snapshot from the stored inputs
// and hosts the schedule editor sessions.
type PlanningService struct {
	employees    RosterSource
	housekeeping HousekeepingStore
	leave        LeaveSource
	applied      PlanningStore
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	leaveThresholds leave.Thresholds
	alertThresholds alerting.Thresholds

	mu       sync.Mutex
	sessions map[string]EditorSession
}

// NewPlanningService constructs a planning service with the provided dependencies.
func NewPlanningService(employees RosterSource, housekeeping HousekeepingStore, leaveRecords LeaveSource, applied PlanningStore, idGenerator func() string, now func() time.Time) *PlanningService {
	return NewPlanningServiceWithLogger(employees, housekeeping, leaveRecords, applied, idGenerator, now, nil)
}

// NewPlanningServiceWithLogger constructs a planning service with a specified logger.
func NewPlanningServiceWithLogger(employees RosterSource, housekeeping HousekeepingStore, leaveRecords LeaveSource, applied PlanningStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlanningService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlanningService{
		employees:    employees,
		housekeeping: housekeeping,
		leave:        leaveRecords,
		applied:      applied,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
		sessions:     make(map[string]EditorSession),
	}
}

// ConfigurePolicy overrides the compliance thresholds used for snapshots.
// Zero-valued thresholds keep the built-in defaults. Call before serving
// requests; the fields are not guarded by the session mutex.
func (s *PlanningService) ConfigurePolicy(leaveThresholds leave.Thresholds, alertThresholds alerting.Thresholds) {
	if s == nil {
		return
	}
	s.leaveThresholds = leaveThresholds
	s.alertThresholds = alertThresholds
}

func (s *PlanningService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlanningService", operation, attrs...)
}

// Snapshot recomputes the complete planning state for one year: capacity,
// weekly schedules, annual projections, leave summaries and alerts.
func (s *PlanningService) Snapshot(ctx context.Context, principal Principal, year int) (snapshot planning.Snapshot, err error) {
	if s == nil {
		err = fmt.Errorf("PlanningService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Snapshot",
		"principal_id", principal.OperatorID,
		"year", year,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute planning snapshot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"schedule_count", len(snapshot.Schedules),
			"alert_count", len(snapshot.Alerts),
		).InfoContext(ctx, "planning snapshot computed")
	}()

	inputs, err := s.buildInputs(ctx, year)
	if err != nil {
		return
	}
	snapshot = planning.Recompute(inputs)
	return
}

// Alerts recomputes the snapshot and returns only its alert list.
func (s *PlanningService) Alerts(ctx context.Context, principal Principal, year int) ([]alerting.Alert, error) {
	snapshot, err := s.Snapshot(ctx, principal, year)
	if err != nil {
		return nil, err
	}
	return snapshot.Alerts, nil
}

// StartEditor generates the current weekly schedules and opens an editing
// session over them for administrators.
func (s *PlanningService) StartEditor(ctx context.Context, principal Principal, year int) (session EditorSession, err error) {
	if s == nil {
		err = fmt.Errorf("PlanningService is nil")
		return
	}

	logger := s.loggerWith(ctx, "StartEditor",
		"principal_id", principal.OperatorID,
		"year", year,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to start editor session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("editor_session_id", session.ID).InfoContext(ctx, "editor session started")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	inputs, err := s.buildInputs(ctx, year)
	if err != nil {
		return
	}
	schedules, _ := schedule.Generate(inputs.Contracts, inputs.BreakMinutes)

	state := schedule.NewEditorState(schedules, inputs.BreakMinutes)
	state = schedule.Reduce(state, schedule.Action{Kind: schedule.ActionStartEditing})

	session = EditorSession{
		ID:    s.idGenerator(),
		Year:  year,
		State: state,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return
}

// GetEditor returns the current state of an editing session.
func (s *PlanningService) GetEditor(ctx context.Context, principal Principal, sessionID string) (EditorSession, error) {
	if s == nil {
		return EditorSession{}, fmt.Errorf("PlanningService is nil")
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return EditorSession{}, ErrNotFound
	}
	return session, nil
}

// UpdateEditor dispatches one editor action against a session for
// administrators. Apply actions must go through ApplyEditor so the persisted
// trace and the state transition stay coupled.
func (s *PlanningService) UpdateEditor(ctx context.Context, principal Principal, sessionID string, action schedule.Action) (session EditorSession, err error) {
	if s == nil {
		err = fmt.Errorf("PlanningService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEditor",
		"principal_id", principal.OperatorID,
		"editor_session_id", sessionID,
		"action", string(action.Kind),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update editor session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("status", string(session.State.Status)).InfoContext(ctx, "editor session updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if action.Kind == schedule.ActionApply {
		err = ErrEditorConflict
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		err = ErrNotFound
		return
	}

	session.State = schedule.Reduce(session.State, action)
	s.sessions[sessionID] = session
	return
}

// ApplyEditor freezes the session's working copy and persists the applied
// weekly totals for administrators.
func (s *PlanningService) ApplyEditor(ctx context.Context, principal Principal, sessionID string) (session EditorSession, err error) {
	if s == nil {
		err = fmt.Errorf("PlanningService is nil")
		return
	}
	if s.applied == nil {
		err = fmt.Errorf("planning store not configured")
		return
	}

	logger := s.loggerWith(ctx, "ApplyEditor",
		"principal_id", principal.OperatorID,
		"editor_session_id", sessionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply editor session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "editor session applied")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		err = ErrNotFound
		return
	}
	if session.State.Status != schedule.StatusEditing {
		err = ErrEditorConflict
		return
	}

	next := schedule.Reduce(session.State, schedule.Action{Kind: schedule.ActionApply})

	appliedAt := s.now()
	schedules := next.Schedules()
	rows := make([]persistence.AppliedSchedule, 0, len(schedules))
	for _, sched := range schedules {
		rows = append(rows, persistence.AppliedSchedule{
			ID:               s.idGenerator(),
			EmployeeID:       sched.EmployeeID,
			TotalWeeklyHours: sched.TotalWeeklyHours,
			BreakMinutes:     next.BreakMinutes,
			AppliedAt:        appliedAt,
		})
	}

	if err = s.applied.SaveAppliedSchedules(ctx, rows); err != nil {
		err = mapRepoError(err)
		return
	}

	session.State = next
	s.sessions[sessionID] = session
	return
}

// AppliedSchedules returns the persisted apply trace.
func (s *PlanningService) AppliedSchedules(ctx context.Context, principal Principal) ([]persistence.AppliedSchedule, error) {
	if s == nil {
		return nil, fmt.Errorf("PlanningService is nil")
	}
	if s.applied == nil {
		return nil, nil
	}
	rows, err := s.applied.ListAppliedSchedules(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rows, nil
}

// buildInputs assembles the declared input set of the planning engine from
// the stores. Roster rows that cannot be projected into a contract (unknown
// hour enum, unparsable day start) are skipped rather than failing the whole
// snapshot.
func (s *PlanningService) buildInputs(ctx context.Context, year int) (planning.Inputs, error) {
	if year == 0 {
		year = s.now().Year()
	}

	inputs := planning.Inputs{
		Year:            year,
		Now:             s.now(),
		LeaveThresholds: s.leaveThresholds,
		AlertThresholds: s.alertThresholds,
	}

	config := defaultStaffingConfig()
	if s.housekeeping != nil {
		stored, err := s.housekeeping.GetStaffingConfig(ctx)
		switch {
		case err == nil:
			config = stored
		case errors.Is(err, persistence.ErrNotFound):
		default:
			return planning.Inputs{}, mapRepoError(err)
		}

		rooms, err := s.housekeeping.ListRoomTypes(ctx)
		if err != nil {
			return planning.Inputs{}, mapRepoError(err)
		}
		inputs.RoomTypes = CapacityRooms(rooms)
	}
	inputs.Staffing = CapacityConfig(config)
	inputs.BreakMinutes = config.BreakMinutes

	if s.employees != nil {
		roster, err := s.employees.ListEmployees(ctx)
		if err != nil {
			return planning.Inputs{}, mapRepoError(err)
		}
		for _, employee := range roster {
			contract, ok := ContractFromEmployee(employee)
			if !ok {
				s.logger.Warn("skipping roster entry with unusable contract data",
					"employee_id", employee.ID,
					"weekly_hours", employee.WeeklyHours,
				)
				continue
			}
			inputs.Contracts = append(inputs.Contracts, contract)
		}
	}

	if s.leave != nil {
		stored, err := s.leave.ListLeave(ctx, persistence.LeaveFilter{})
		if err != nil {
			return planning.Inputs{}, mapRepoError(err)
		}
		for _, row := range stored {
			inputs.LeaveRecords = append(inputs.LeaveRecords, leave.Record{
				ID:         row.ID,
				EmployeeID: row.EmployeeID,
				StartDate:  row.StartDate,
				EndDate:    row.EndDate,
				DaysCount:  row.DaysCount,
				Year:       row.Year,
				Notes:      row.Notes,
			})
		}
	}

	return inputs, nil
}
