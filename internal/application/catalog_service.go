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
)

// ServiceStore captures the persistence operations needed by the catalog service.
type ServiceStore interface {
	CreateService(ctx context.Context, service persistence.HotelService) error
	UpdateService(ctx context.Context, service persistence.HotelService) error
	GetService(ctx context.Context, id string) (persistence.HotelService, error)
	ListServices(ctx context.Context) ([]persistence.HotelService, error)
	DeleteService(ctx context.Context, id string) error
}

// CatalogService orchestrates validation, authorization, and persistence for
// the hotel service catalog.
type CatalogService struct {
	services    ServiceStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService constructs a catalog service with the provided dependencies.
func NewCatalogService(services ServiceStore, idGenerator func() string, now func() time.Time) *CatalogService {
	return NewCatalogServiceWithLogger(services, idGenerator, now, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(services ServiceStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{services: services, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// CreateService validates input and persists a new catalog entry for administrators.
func (s *CatalogService) CreateService(ctx context.Context, params CreateServiceParams) (service persistence.HotelService, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateService", "principal_id", params.Principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create service", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("service_id", service.ID).InfoContext(ctx, "service created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.services == nil {
		err = fmt.Errorf("service store not configured")
		return
	}

	vErr := validateServiceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	service = persistence.HotelService{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(params.Input.Name),
		Kind:      strings.TrimSpace(params.Input.Kind),
		CreatedAt: s.now(),
	}
	service.UpdatedAt = service.CreatedAt

	if err = s.services.CreateService(ctx, service); err != nil {
		err = mapRepoError(err)
		service = persistence.HotelService{}
	}
	return
}

// UpdateService validates input and updates an existing catalog entry for administrators.
func (s *CatalogService) UpdateService(ctx context.Context, params UpdateServiceParams) (service persistence.HotelService, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.services == nil {
		err = fmt.Errorf("service store not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateService",
		"principal_id", params.Principal.OperatorID,
		"service_id", params.ServiceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update service", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "service updated")
	}()

	var existing persistence.HotelService
	existing, err = s.services.GetService(ctx, params.ServiceID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateServiceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	service = existing
	service.Name = strings.TrimSpace(params.Input.Name)
	service.Kind = strings.TrimSpace(params.Input.Kind)
	service.UpdatedAt = s.now()

	if err = s.services.UpdateService(ctx, service); err != nil {
		err = mapRepoError(err)
		service = persistence.HotelService{}
	}
	return
}

// DeleteService removes a catalog entry when requested by an administrator.
// Entries still referenced by roster rows cannot be removed.
func (s *CatalogService) DeleteService(ctx context.Context, principal Principal, serviceID string) error {
	if s == nil {
		return fmt.Errorf("CatalogService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.services == nil {
		return fmt.Errorf("service store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteService",
		"principal_id", principal.OperatorID,
		"service_id", serviceID,
	)

	if err := s.services.DeleteService(ctx, serviceID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete service", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "service deleted")
	return nil
}

// ListServices returns the catalog for any authenticated operator.
func (s *CatalogService) ListServices(ctx context.Context, principal Principal) (services []persistence.HotelService, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	if s.services == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListServices", "principal_id", principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list services", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(services)).InfoContext(ctx, "services listed")
	}()

	var raw []persistence.HotelService
	raw, err = s.services.ListServices(ctx)
	if err != nil {
		return
	}

	services = make([]persistence.HotelService, len(raw))
	copy(services, raw)

	sort.Slice(services, func(i, j int) bool {
		if strings.EqualFold(services[i].Name, services[j].Name) {
			return services[i].ID < services[j].ID
		}
		return strings.ToLower(services[i].Name) < strings.ToLower(services[j].Name)
	})

	return
}

func validateServiceInput(input ServiceInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.Kind) == "" {
		vErr.add("kind", "kind is required")
	}

	return vErr
}

// mapRepoError translates persistence sentinels into application sentinels.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("reference", "referenced resource does not exist or is still in use")
		return vErr
	default:
		return err
	}
}
