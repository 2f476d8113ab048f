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

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/persistence"
)

const leaveDateLayout = "2006-01-02"

var errInvalidLeaveDate = errors.New("Les dates de congé doivent être au format AAAA-MM-JJ.")

type leaveService interface {
	CreateLeave(ctx context.Context, params application.CreateLeaveParams) (persistence.LeaveRecord, error)
	ListLeave(ctx context.Context, principal application.Principal, query application.LeaveQuery) ([]persistence.LeaveRecord, error)
	DeleteLeave(ctx context.Context, principal application.Principal, leaveID string) error
	Summarize(ctx context.Context, principal application.Principal, employeeID string, year int) (leave.Summary, error)
}

type LeaveHandler struct {
	service   leaveService
	responder responder
	logger    *slog.Logger
}

func NewLeaveHandler(service leaveService, logger *slog.Logger) *LeaveHandler {
	base := defaultLogger(logger)
	return &LeaveHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LeaveHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LeaveHandler", operation, attrs...)
}

func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode leave request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable leave dates", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLeaveDate)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OperatorID, "employee_id", input.EmployeeID)

	record, err := h.service.CreateLeave(r.Context(), application.CreateLeaveParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "leave creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("leave_id", record.ID, "days_count", record.DaysCount).InfoContext(r.Context(), "leave record created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, leaveResponse{Leave: toLeaveDTO(record)})
}

func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	query := application.LeaveQuery{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employee_id")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable year filter", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidYear)
			return
		}
		query.Year = year
	}

	logger := h.log(r.Context(), "List", "principal_id", principal.OperatorID)
	records, err := h.service.ListLeave(r.Context(), principal, query)
	if err != nil {
		logger.ErrorContext(r.Context(), "leave list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(records)).InfoContext(r.Context(), "leave records listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLeaveResponse{Leave: toLeaveDTOs(records)})
}

func (h *LeaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	leaveID, ok := LeaveIDFromContext(r.Context())
	if !ok || strings.TrimSpace(leaveID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing leave id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLeaveID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OperatorID, "leave_id", leaveID)
	if err := h.service.DeleteLeave(r.Context(), principal, leaveID); err != nil {
		logger.ErrorContext(r.Context(), "leave delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "leave record deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *LeaveHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))

	year := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.log(r.Context(), "Summary", "error_kind", "bad_request").ErrorContext(r.Context(), "unparsable year filter", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidYear)
			return
		}
		year = parsed
	}

	logger := h.log(r.Context(), "Summary", "principal_id", principal.OperatorID, "employee_id", employeeID)
	summary, err := h.service.Summarize(r.Context(), principal, employeeID, year)
	if err != nil {
		logger.ErrorContext(r.Context(), "leave summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, leaveSummaryResponse{Summary: toLeaveSummaryDTO(summary)})
}

type leaveRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Notes      string `json:"notes"`
}

func (r leaveRequest) toInput() (application.LeaveInput, error) {
	input := application.LeaveInput{
		EmployeeID: strings.TrimSpace(r.EmployeeID),
		Notes:      r.Notes,
	}

	if raw := strings.TrimSpace(r.StartDate); raw != "" {
		start, err := time.Parse(leaveDateLayout, raw)
		if err != nil {
			return application.LeaveInput{}, err
		}
		input.StartDate = start
	}
	if raw := strings.TrimSpace(r.EndDate); raw != "" {
		end, err := time.Parse(leaveDateLayout, raw)
		if err != nil {
			return application.LeaveInput{}, err
		}
		input.EndDate = end
	}
	return input, nil
}

type leaveResponse struct {
	Leave leaveDTO `json:"leave"`
}

type listLeaveResponse struct {
	Leave []leaveDTO `json:"leave"`
}

type leaveDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	DaysCount  int    `json:"days_count"`
	Year       int    `json:"year"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toLeaveDTO(record persistence.LeaveRecord) leaveDTO {
	return leaveDTO{
		ID:         record.ID,
		EmployeeID: record.EmployeeID,
		StartDate:  record.StartDate.UTC().Format(leaveDateLayout),
		EndDate:    record.EndDate.UTC().Format(leaveDateLayout),
		DaysCount:  record.DaysCount,
		Year:       record.Year,
		Notes:      record.Notes,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toLeaveDTOs(records []persistence.LeaveRecord) []leaveDTO {
	if len(records) == 0 {
		return nil
	}
	out := make([]leaveDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toLeaveDTO(record))
	}
	return out
}

type leaveSummaryResponse struct {
	Summary leaveSummaryDTO `json:"summary"`
}

type leaveSummaryDTO struct {
	EmployeeID     string `json:"employee_id"`
	Year           int    `json:"year"`
	TotalDaysTaken int    `json:"total_days_taken"`
	LegalDays      int    `json:"legal_days"`
	RemainingDays  int    `json:"remaining_days"`
	Compliance     string `json:"compliance"`
}

func toLeaveSummaryDTO(summary leave.Summary) leaveSummaryDTO {
	return leaveSummaryDTO{
		EmployeeID:     summary.EmployeeID,
		Year:           summary.Year,
		TotalDaysTaken: summary.TotalDaysTaken,
		LegalDays:      summary.LegalDays,
		RemainingDays:  summary.RemainingDays,
		Compliance:     string(summary.Compliance),
	}
}
