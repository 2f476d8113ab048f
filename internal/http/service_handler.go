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

type catalogService interface {
	CreateService(ctx context.Context, params application.CreateServiceParams) (persistence.HotelService, error)
	UpdateService(ctx context.Context, params application.UpdateServiceParams) (persistence.HotelService, error)
	DeleteService(ctx context.Context, principal application.Principal, serviceID string) error
	ListServices(ctx context.Context, principal application.Principal) ([]persistence.HotelService, error)
}

type ServiceHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewServiceHandler(service catalogService, logger *slog.Logger) *ServiceHandler {
	base := defaultLogger(logger)
	return &ServiceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ServiceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ServiceHandler", operation, attrs...)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.OperatorID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode service request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.OperatorID)

	service, err := h.service.CreateService(r.Context(), application.CreateServiceParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "service creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("service_id", service.ID).InfoContext(r.Context(), "service created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, serviceResponse{Service: toServiceDTO(service)})
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID, ok := ServiceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(serviceID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing service id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.OperatorID, "service_id", serviceID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode service update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.OperatorID, "service_id", serviceID)

	service, err := h.service.UpdateService(r.Context(), application.UpdateServiceParams{
		Principal: principal,
		ServiceID: serviceID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "service update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "service updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, serviceResponse{Service: toServiceDTO(service)})
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	serviceID, ok := ServiceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(serviceID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing service id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidServiceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.OperatorID, "service_id", serviceID)
	if err := h.service.DeleteService(r.Context(), principal, serviceID); err != nil {
		logger.ErrorContext(r.Context(), "service delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "service deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.OperatorID)
	services, err := h.service.ListServices(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "service list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(services)).InfoContext(r.Context(), "services listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listServicesResponse{Services: toServiceDTOs(services)})
}

type serviceRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (r serviceRequest) toInput() application.ServiceInput {
	return application.ServiceInput{
		Name: strings.TrimSpace(r.Name),
		Kind: strings.TrimSpace(r.Kind),
	}
}

type serviceResponse struct {
	Service serviceDTO `json:"service"`
}

type listServicesResponse struct {
	Services []serviceDTO `json:"services"`
}

type serviceDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toServiceDTO(service persistence.HotelService) serviceDTO {
	return serviceDTO{
		ID:        service.ID,
		Name:      service.Name,
		Kind:      service.Kind,
		CreatedAt: service.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: service.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toServiceDTOs(services []persistence.HotelService) []serviceDTO {
	if len(services) == 0 {
		return nil
	}
	out := make([]serviceDTO, 0, len(services))
	for _, service := range services {
		out = append(out, toServiceDTO(service))
	}
	return out
}
