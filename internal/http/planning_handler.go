package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/alerting"
	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/persistence"
	"github.com/example/workforce-planner/internal/planning"
	"github.com/example/workforce-planner/internal/schedule"
)

var (
	errInvalidYear         = errors.New("Le paramètre year doit être un nombre entier.")
	errInvalidEditorAction = errors.New("L'action d'édition demandée est inconnue.")
)

type planningService interface {
	Snapshot(ctx context.Context, principal application.Principal, year int) (planning.Snapshot, error)
	Alerts(ctx context.Context, principal application.Principal, year int) ([]alerting.Alert, error)
	StartEditor(ctx context.Context, principal application.Principal, year int) (application.EditorSession, error)
	GetEditor(ctx context.Context, principal application.Principal, sessionID string) (application.EditorSession, error)
	UpdateEditor(ctx context.Context, principal application.Principal, sessionID string, action schedule.Action) (application.EditorSession, error)
	ApplyEditor(ctx context.Context, principal application.Principal, sessionID string) (application.EditorSession, error)
	AppliedSchedules(ctx context.Context, principal application.Principal) ([]persistence.AppliedSchedule, error)
}

type PlanningHandler struct {
	service   planningService
	responder responder
	logger    *slog.Logger
}

func NewPlanningHandler(service planningService, logger *slog.Logger) *PlanningHandler {
	base := defaultLogger(logger)
	return &PlanningHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PlanningHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PlanningHandler", operation, attrs...)
}

func yearFromQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// Snapshot returns the full derived planning state for one year.
func (h *PlanningHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	year, err := yearFromQuery(r)
	if err != nil {
		h.log(r.Context(), "Snapshot", "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable year filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidYear)
		return
	}

	logger := h.log(r.Context(), "Snapshot", "principal_id", principal.OperatorID, "year", year)
	snapshot, err := h.service.Snapshot(r.Context(), principal, year)
	if err != nil {
		logger.ErrorContext(r.Context(), "planning snapshot failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSnapshotDTO(snapshot))
}

// Annual returns only the per-employee annual projections.
func (h *PlanningHandler) Annual(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	year, err := yearFromQuery(r)
	if err != nil {
		h.log(r.Context(), "Annual", "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable year filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidYear)
		return
	}

	logger := h.log(r.Context(), "Annual", "principal_id", principal.OperatorID, "year", year)
	snapshot, err := h.service.Snapshot(r.Context(), principal, year)
	if err != nil {
		logger.ErrorContext(r.Context(), "annual projection failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, annualResponse{Plans: toAnnualPlanDTOs(snapshot.Annual)})
}

// Alerts returns the prioritized alert list.
func (h *PlanningHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	year, err := yearFromQuery(r)
	if err != nil {
		h.log(r.Context(), "Alerts", "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable year filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidYear)
		return
	}

	logger := h.log(r.Context(), "Alerts", "principal_id", principal.OperatorID, "year", year)
	alerts, err := h.service.Alerts(r.Context(), principal, year)
	if err != nil {
		logger.ErrorContext(r.Context(), "alert generation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("alert_count", len(alerts)).InfoContext(r.Context(), "alerts generated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, alertsResponse{Alerts: toAlertDTOs(alerts)})
}

// StartEditor opens a new editing session over freshly generated schedules.
func (h *PlanningHandler) StartEditor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req startEditorRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log(r.Context(), "StartEditor", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode editor request", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
	}

	logger := h.log(r.Context(), "StartEditor", "principal_id", principal.OperatorID, "year", req.Year)
	session, err := h.service.StartEditor(r.Context(), principal, req.Year)
	if err != nil {
		logger.ErrorContext(r.Context(), "editor start failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("editor_session_id", session.ID).InfoContext(r.Context(), "editor session started")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, editorResponse{Session: toEditorSessionDTO(session)})
}

// GetEditor returns the current state of an editing session.
func (h *PlanningHandler) GetEditor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := EditorSessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.log(r.Context(), "GetEditor", "error_kind", "bad_request").ErrorContext(r.Context(), "missing editor session id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEditorID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	session, err := h.service.GetEditor(r.Context(), principal, sessionID)
	if err != nil {
		h.log(r.Context(), "GetEditor", "editor_session_id", sessionID).ErrorContext(r.Context(), "editor get failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, editorResponse{Session: toEditorSessionDTO(session)})
}

// UpdateEditor dispatches one action against an editing session.
func (h *PlanningHandler) UpdateEditor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := EditorSessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.log(r.Context(), "UpdateEditor", "error_kind", "bad_request").ErrorContext(r.Context(), "missing editor session id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEditorID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req editorActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateEditor", "principal_id", principal.OperatorID, "editor_session_id", sessionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode editor action", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	action, err := req.toAction()
	if err != nil {
		h.log(r.Context(), "UpdateEditor", "principal_id", principal.OperatorID, "editor_session_id", sessionID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid editor action", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "UpdateEditor",
		"principal_id", principal.OperatorID,
		"editor_session_id", sessionID,
		"action", string(action.Kind),
	)

	session, err := h.service.UpdateEditor(r.Context(), principal, sessionID, action)
	if err != nil {
		logger.ErrorContext(r.Context(), "editor update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(session.State.Status)).InfoContext(r.Context(), "editor session updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, editorResponse{Session: toEditorSessionDTO(session)})
}

// ApplyEditor freezes the working copy and persists its weekly totals.
func (h *PlanningHandler) ApplyEditor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := EditorSessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.log(r.Context(), "ApplyEditor", "error_kind", "bad_request").ErrorContext(r.Context(), "missing editor session id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEditorID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ApplyEditor", "principal_id", principal.OperatorID, "editor_session_id", sessionID)
	session, err := h.service.ApplyEditor(r.Context(), principal, sessionID)
	if err != nil {
		logger.ErrorContext(r.Context(), "editor apply failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "editor session applied")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, editorResponse{Session: toEditorSessionDTO(session)})
}

// Applied returns the persisted apply trace.
func (h *PlanningHandler) Applied(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Applied", "principal_id", principal.OperatorID)
	rows, err := h.service.AppliedSchedules(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "applied schedule list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, appliedResponse{Applied: toAppliedDTOs(rows)})
}

type startEditorRequest struct {
	Year int `json:"year"`
}

type editorActionRequest struct {
	Action     string `json:"action"`
	EmployeeID string `json:"employee_id"`
	Day        int    `json:"day"`
	Field      string `json:"field"`
	Time       string `json:"time"`
	Working    bool   `json:"working"`
}

func (r editorActionRequest) toAction() (schedule.Action, error) {
	action := schedule.Action{EmployeeID: strings.TrimSpace(r.EmployeeID)}

	switch schedule.ActionKind(r.Action) {
	case schedule.ActionStartEditing:
		action.Kind = schedule.ActionStartEditing
	case schedule.ActionReset:
		action.Kind = schedule.ActionReset
	case schedule.ActionApply:
		action.Kind = schedule.ActionApply
	case schedule.ActionEditCell:
		action.Kind = schedule.ActionEditCell
		if r.Day < 1 || r.Day > 7 {
			return schedule.Action{}, errors.New("Le jour doit être un numéro ISO entre 1 et 7.")
		}
		// ISO weekday 7 is Sunday, which time.Weekday numbers as 0.
		action.Day = time.Weekday(r.Day % 7)
		switch schedule.Field(r.Field) {
		case schedule.FieldStart, schedule.FieldEnd:
			action.Field = schedule.Field(r.Field)
			parsed, err := schedule.ParseClock(strings.TrimSpace(r.Time))
			if err != nil {
				return schedule.Action{}, errors.New("L'heure doit être au format HH:MM.")
			}
			action.Time = parsed
		case schedule.FieldWorking:
			action.Field = schedule.FieldWorking
			action.Working = r.Working
		default:
			return schedule.Action{}, errors.New("Le champ modifiable est inconnu.")
		}
	default:
		return schedule.Action{}, errInvalidEditorAction
	}

	return action, nil
}

type editorResponse struct {
	Session editorSessionDTO `json:"session"`
}

type editorSessionDTO struct {
	ID           string              `json:"id"`
	Year         int                 `json:"year"`
	Status       string              `json:"status"`
	BreakMinutes int                 `json:"break_minutes"`
	Schedules    []weeklyScheduleDTO `json:"schedules"`
}

func toEditorSessionDTO(session application.EditorSession) editorSessionDTO {
	return editorSessionDTO{
		ID:           session.ID,
		Year:         session.Year,
		Status:       string(session.State.Status),
		BreakMinutes: session.State.BreakMinutes,
		Schedules:    toWeeklyScheduleDTOs(session.State.Schedules()),
	}
}

type weeklyScheduleDTO struct {
	EmployeeID       string       `json:"employee_id"`
	Name             string       `json:"name"`
	Days             []daySlotDTO `json:"days"`
	TotalWeeklyHours float64      `json:"total_weekly_hours"`
}

type daySlotDTO struct {
	Day     int    `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Working bool   `json:"working"`
}

func toWeeklyScheduleDTO(sched schedule.WeeklySchedule) weeklyScheduleDTO {
	dto := weeklyScheduleDTO{
		EmployeeID:       sched.EmployeeID,
		Name:             sched.Name,
		TotalWeeklyHours: sched.TotalWeeklyHours,
		Days:             make([]daySlotDTO, 0, len(sched.Days)),
	}
	for idx, slot := range sched.Days {
		// Slots are Monday-first, so index 0 is ISO weekday 1.
		dto.Days = append(dto.Days, daySlotDTO{
			Day:     idx + 1,
			Start:   slot.Start.String(),
			End:     slot.End.String(),
			Working: slot.Working,
		})
	}
	return dto
}

func toWeeklyScheduleDTOs(schedules []schedule.WeeklySchedule) []weeklyScheduleDTO {
	if len(schedules) == 0 {
		return nil
	}
	out := make([]weeklyScheduleDTO, 0, len(schedules))
	for _, sched := range schedules {
		out = append(out, toWeeklyScheduleDTO(sched))
	}
	return out
}

type snapshotDTO struct {
	Capacity         capacityResultDTO    `json:"capacity"`
	Schedules        []weeklyScheduleDTO  `json:"schedules"`
	Annual           []annualPlanDTO      `json:"annual"`
	LeaveSummaries   []leaveSummaryDTO    `json:"leave_summaries"`
	Alerts           []alertDTO           `json:"alerts"`
	CapacityWarnings []capacityWarningDTO `json:"capacity_warnings,omitempty"`
	ScheduleWarnings []scheduleWarningDTO `json:"schedule_warnings,omitempty"`
}

func toSnapshotDTO(snapshot planning.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		Capacity:         toCapacityResultDTO(snapshot.Capacity),
		Schedules:        toWeeklyScheduleDTOs(snapshot.Schedules),
		Annual:           toAnnualPlanDTOs(snapshot.Annual),
		Alerts:           toAlertDTOs(snapshot.Alerts),
		CapacityWarnings: toCapacityWarningDTOs(snapshot.CapacityWarnings),
	}
	for _, summary := range snapshot.LeaveSummaries {
		dto.LeaveSummaries = append(dto.LeaveSummaries, toLeaveSummaryDTO(summary))
	}
	for _, warning := range snapshot.ScheduleWarnings {
		dto.ScheduleWarnings = append(dto.ScheduleWarnings, scheduleWarningDTO{
			EmployeeID: warning.EmployeeID,
			Code:       string(warning.Code),
			Message:    warning.Message,
		})
	}
	return dto
}

type scheduleWarningDTO struct {
	EmployeeID string `json:"employee_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

type annualResponse struct {
	Plans []annualPlanDTO `json:"plans"`
}

type annualPlanDTO struct {
	EmployeeID         string      `json:"employee_id"`
	Name               string      `json:"name"`
	TargetAnnualHours  float64     `json:"target_annual_hours"`
	TotalAnnualHours   float64     `json:"total_annual_hours"`
	WorkingDaysPerYear int         `json:"working_days_per_year"`
	LeaveDaysUsed      int         `json:"leave_days_used"`
	LeaveDaysRemaining int         `json:"leave_days_remaining"`
	MonthlyHours       [12]float64 `json:"monthly_hours"`
}

func toAnnualPlanDTOs(plans []planning.AnnualPlan) []annualPlanDTO {
	if len(plans) == 0 {
		return nil
	}
	out := make([]annualPlanDTO, 0, len(plans))
	for _, plan := range plans {
		out = append(out, annualPlanDTO{
			EmployeeID:         plan.EmployeeID,
			Name:               plan.Name,
			TargetAnnualHours:  plan.TargetAnnualHours,
			TotalAnnualHours:   plan.TotalAnnualHours,
			WorkingDaysPerYear: plan.WorkingDaysPerYear,
			LeaveDaysUsed:      plan.LeaveDaysUsed,
			LeaveDaysRemaining: plan.LeaveDaysRemaining,
			MonthlyHours:       plan.MonthlyHours,
		})
	}
	return out
}

type alertsResponse struct {
	Alerts []alertDTO `json:"alerts"`
}

type alertDTO struct {
	Type      string  `json:"type"`
	Priority  string  `json:"priority"`
	SubjectID string  `json:"subject_id,omitempty"`
	Message   string  `json:"message"`
	Detail    string  `json:"detail,omitempty"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

func toAlertDTOs(alerts []alerting.Alert) []alertDTO {
	if len(alerts) == 0 {
		return nil
	}
	out := make([]alertDTO, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, alertDTO{
			Type:      string(alert.Type),
			Priority:  alert.Priority.String(),
			SubjectID: alert.SubjectID,
			Message:   alert.Message,
			Detail:    alert.Detail,
			Value:     alert.Value,
			Threshold: alert.Threshold,
		})
	}
	return out
}

type appliedResponse struct {
	Applied []appliedScheduleDTO `json:"applied"`
}

type appliedScheduleDTO struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	TotalWeeklyHours float64 `json:"total_weekly_hours"`
	BreakMinutes     int     `json:"break_minutes"`
	AppliedAt        string  `json:"applied_at"`
}

func toAppliedDTOs(rows []persistence.AppliedSchedule) []appliedScheduleDTO {
	if len(rows) == 0 {
		return nil
	}
	out := make([]appliedScheduleDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, appliedScheduleDTO{
			ID:               row.ID,
			EmployeeID:       row.EmployeeID,
			TotalWeeklyHours: row.TotalWeeklyHours,
			BreakMinutes:     row.BreakMinutes,
			AppliedAt:        row.AppliedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}
