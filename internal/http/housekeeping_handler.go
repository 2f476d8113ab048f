package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/capacity"
	"github.com/example/workforce-planner/internal/persistence"
)

type housekeepingService interface {
	ListRooms(ctx context.Context, principal application.Principal) ([]persistence.RoomType, error)
	ReplaceRooms(ctx context.Context, params application.ReplaceRoomsParams) ([]persistence.RoomType, error)
	GetConfig(ctx context.Context, principal application.Principal) (persistence.StaffingConfig, error)
	SaveConfig(ctx context.Context, params application.SaveStaffingConfigParams) (persistence.StaffingConfig, error)
	Capacity(ctx context.Context, principal application.Principal) (application.CapacityReport, error)
}

type HousekeepingHandler struct {
	service   housekeepingService
	responder responder
	logger    *slog.Logger
}

func NewHousekeepingHandler(service housekeepingService, logger *slog.Logger) *HousekeepingHandler {
	base := defaultLogger(logger)
	return &HousekeepingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *HousekeepingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "HousekeepingHandler", operation, attrs...)
}

func (h *HousekeepingHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ListRooms", "principal_id", principal.OperatorID)
	rooms, err := h.service.ListRooms(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *HousekeepingHandler) ReplaceRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req replaceRoomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ReplaceRooms", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room inventory", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "ReplaceRooms", "principal_id", principal.OperatorID, "room_count", len(req.Rooms))

	rooms, err := h.service.ReplaceRooms(r.Context(), application.ReplaceRoomsParams{
		Principal: principal,
		Rooms:     req.toInputs(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room inventory replace failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room inventory replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *HousekeepingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "GetConfig", "principal_id", principal.OperatorID)
	config, err := h.service.GetConfig(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "staffing config get failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffingConfigResponse{Config: toStaffingConfigDTO(config)})
}

func (h *HousekeepingHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req staffingConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SaveConfig", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode staffing config", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SaveConfig", "principal_id", principal.OperatorID)

	config, err := h.service.SaveConfig(r.Context(), application.SaveStaffingConfigParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "staffing config save failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staffing config saved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffingConfigResponse{Config: toStaffingConfigDTO(config)})
}

func (h *HousekeepingHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Capacity", "principal_id", principal.OperatorID)
	report, err := h.service.Capacity(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "capacity report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With(
		"minimum_staff", report.Result.MinimumStaff,
		"recommended_staff", report.Result.RecommendedStaff,
	).InfoContext(r.Context(), "capacity report computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, capacityResponse{
		Rooms:    toRoomDTOs(report.Rooms),
		Config:   toStaffingConfigDTO(report.Config),
		Result:   toCapacityResultDTO(report.Result),
		Warnings: toCapacityWarningDTOs(report.Warnings),
	})
}

type roomDTO struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Count           int    `json:"count"`
	CleaningMinutes int    `json:"cleaning_minutes"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type replaceRoomsRequest struct {
	Rooms []roomDTO `json:"rooms"`
}

func (r replaceRoomsRequest) toInputs() []application.RoomTypeInput {
	out := make([]application.RoomTypeInput, 0, len(r.Rooms))
	for _, room := range r.Rooms {
		out = append(out, application.RoomTypeInput{
			ID:              strings.TrimSpace(room.ID),
			Label:           strings.TrimSpace(room.Label),
			Count:           room.Count,
			CleaningMinutes: room.CleaningMinutes,
		})
	}
	return out
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

func toRoomDTOs(rooms []persistence.RoomType) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dto := roomDTO{
			ID:              room.ID,
			Label:           room.Label,
			Count:           room.Count,
			CleaningMinutes: room.CleaningMinutes,
		}
		if !room.UpdatedAt.IsZero() {
			dto.UpdatedAt = room.UpdatedAt.UTC().Format(time.RFC3339Nano)
		}
		out = append(out, dto)
	}
	return out
}

type staffingConfigRequest struct {
	WorkingHoursPerDay  float64 `json:"working_hours_per_day"`
	SafetyMargin        float64 `json:"safety_margin"`
	WeeklyHoursPerStaff float64 `json:"weekly_hours_per_staff"`
	RestDaysPerWeek     int     `json:"rest_days_per_week"`
	AnnualLeaveDays     int     `json:"annual_leave_days"`
	BreakMinutes        int     `json:"break_minutes"`
}

func (r staffingConfigRequest) toInput() application.StaffingConfigInput {
	return application.StaffingConfigInput{
		WorkingHoursPerDay:  r.WorkingHoursPerDay,
		SafetyMargin:        r.SafetyMargin,
		WeeklyHoursPerStaff: r.WeeklyHoursPerStaff,
		RestDaysPerWeek:     r.RestDaysPerWeek,
		AnnualLeaveDays:     r.AnnualLeaveDays,
		BreakMinutes:        r.BreakMinutes,
	}
}

type staffingConfigResponse struct {
	Config staffingConfigDTO `json:"config"`
}

type staffingConfigDTO struct {
	WorkingHoursPerDay  float64 `json:"working_hours_per_day"`
	SafetyMargin        float64 `json:"safety_margin"`
	WeeklyHoursPerStaff float64 `json:"weekly_hours_per_staff"`
	RestDaysPerWeek     int     `json:"rest_days_per_week"`
	AnnualLeaveDays     int     `json:"annual_leave_days"`
	BreakMinutes        int     `json:"break_minutes"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
}

func toStaffingConfigDTO(config persistence.StaffingConfig) staffingConfigDTO {
	dto := staffingConfigDTO{
		WorkingHoursPerDay:  config.WorkingHoursPerDay,
		SafetyMargin:        config.SafetyMargin,
		WeeklyHoursPerStaff: config.WeeklyHoursPerStaff,
		RestDaysPerWeek:     config.RestDaysPerWeek,
		AnnualLeaveDays:     config.AnnualLeaveDays,
		BreakMinutes:        config.BreakMinutes,
	}
	if !config.UpdatedAt.IsZero() {
		dto.UpdatedAt = config.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

type capacityResponse struct {
	Rooms    []roomDTO            `json:"rooms"`
	Config   staffingConfigDTO    `json:"config"`
	Result   capacityResultDTO    `json:"result"`
	Warnings []capacityWarningDTO `json:"warnings,omitempty"`
}

type capacityResultDTO struct {
	TotalCleaningMinutes int     `json:"total_cleaning_minutes"`
	DailyCleaningHours   float64 `json:"daily_cleaning_hours"`
	WorkingDaysPerYear   int     `json:"working_days_per_year"`
	WorkingHoursPerYear  float64 `json:"working_hours_per_year"`
	MinimumStaff         int     `json:"minimum_staff"`
	RecommendedStaff     int     `json:"recommended_staff"`
	EfficiencyPct        float64 `json:"efficiency_pct"`
}

func toCapacityResultDTO(result capacity.Result) capacityResultDTO {
	return capacityResultDTO{
		TotalCleaningMinutes: result.TotalCleaningMinutes,
		DailyCleaningHours:   result.DailyCleaningHours,
		WorkingDaysPerYear:   result.WorkingDaysPerYear,
		WorkingHoursPerYear:  result.WorkingHoursPerYear,
		MinimumStaff:         result.MinimumStaff,
		RecommendedStaff:     result.RecommendedStaff,
		EfficiencyPct:        result.EfficiencyPct,
	}
}

type capacityWarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toCapacityWarningDTOs(warnings []capacity.Warning) []capacityWarningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]capacityWarningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, capacityWarningDTO{Code: string(warning.Code), Message: warning.Message})
	}
	return out
}
