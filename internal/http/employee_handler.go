package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/persistence"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, params application.CreateEmployeeParams) (persistence.Employee, error)
	UpdateEmployee(ctx context.Context, params application.UpdateEmployeeParams) (persistence.Employee, error)
	DeleteEmployee(ctx context.Context, principal application.Principal, employeeID string) error
	GetEmployee(ctx context.Context, principal application.Principal, employeeID string) (persistence.Employee, error)
	ListEmployees(ctx context.Context, principal application.Principal) ([]persistence.Employee, error)
}

type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OperatorID)

	employee, err := h.service.CreateEmployee(r.Context(), application.CreateEmployeeParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("employee_id", employee.ID).InfoContext(r.Context(), "employee created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OperatorID, "employee_id", employeeID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OperatorID, "employee_id", employeeID)

	employee, err := h.service.UpdateEmployee(r.Context(), application.UpdateEmployeeParams{
		Principal:  principal,
		EmployeeID: employeeID,
		Input:      req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OperatorID, "employee_id", employeeID)
	if err := h.service.DeleteEmployee(r.Context(), principal, employeeID); err != nil {
		logger.ErrorContext(r.Context(), "employee delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing employee id for get")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEmployeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.OperatorID, "employee_id", employeeID)
	employee, err := h.service.GetEmployee(r.Context(), principal, employeeID)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee get failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeResponse{Employee: toEmployeeDTO(employee)})
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.OperatorID)
	employees, err := h.service.ListEmployees(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "employee list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(employees)).InfoContext(r.Context(), "employees listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEmployeesResponse{Employees: toEmployeeDTOs(employees)})
}

type employeeRequest struct {
	Name                 string   `json:"name"`
	ContractType         string   `json:"contract_type"`
	WeeklyHours          string   `json:"weekly_hours"`
	MainServiceID        string   `json:"main_service_id"`
	PolyvalentServiceIDs []string `json:"polyvalent_service_ids"`
	WorkingDays          []int    `json:"working_days"`
	DayStart             string   `json:"day_start"`
}

func (r employeeRequest) toInput() application.EmployeeInput {
	return application.EmployeeInput{
		Name:                 strings.TrimSpace(r.Name),
		ContractType:         strings.TrimSpace(r.ContractType),
		WeeklyHours:          strings.TrimSpace(r.WeeklyHours),
		MainServiceID:        strings.TrimSpace(r.MainServiceID),
		PolyvalentServiceIDs: r.PolyvalentServiceIDs,
		WorkingDays:          r.WorkingDays,
		DayStart:             strings.TrimSpace(r.DayStart),
	}
}

type employeeResponse struct {
	Employee employeeDTO `json:"employee"`
}

type listEmployeesResponse struct {
	Employees []employeeDTO `json:"employees"`
}

type employeeDTO struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	ContractType         string   `json:"contract_type"`
	WeeklyHours          string   `json:"weekly_hours"`
	WeeklyHoursValue     float64  `json:"weekly_hours_value"`
	MainServiceID        string   `json:"main_service_id"`
	PolyvalentServiceIDs []string `json:"polyvalent_service_ids"`
	WorkingDays          []int    `json:"working_days"`
	DayStart             string   `json:"day_start"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

func toEmployeeDTO(employee persistence.Employee) employeeDTO {
	hours, _ := application.ContractHours(employee.WeeklyHours)
	return employeeDTO{
		ID:                   employee.ID,
		Name:                 employee.Name,
		ContractType:         employee.ContractType,
		WeeklyHours:          employee.WeeklyHours,
		WeeklyHoursValue:     hours,
		MainServiceID:        employee.MainServiceID,
		PolyvalentServiceIDs: employee.PolyvalentServiceIDs,
		WorkingDays:          employee.WorkingDays,
		DayStart:             employee.DayStart,
		CreatedAt:            employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:            employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toEmployeeDTOs(employees []persistence.Employee) []employeeDTO {
	if len(employees) == 0 {
		return nil
	}
	out := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeDTO(employee))
	}
	return out
}
