package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/workforce-planner/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) idFunc(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) nowFunc(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}

// CatalogServiceDeps captures dependencies for constructing a catalog service.
type CatalogServiceDeps struct {
	Services    application.ServiceStore
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCatalogService builds a catalog service from the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewCatalogService(deps CatalogServiceDeps) *application.CatalogService {
	return application.NewCatalogServiceWithLogger(
		deps.Services,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// EmployeeServiceDeps captures dependencies for constructing an employee service.
type EmployeeServiceDeps struct {
	Employees   application.EmployeeStore
	Catalog     application.ServiceCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewEmployeeService builds an employee service from the supplied dependencies.
func (f *ServiceFactory) NewEmployeeService(deps EmployeeServiceDeps) *application.EmployeeService {
	return application.NewEmployeeServiceWithLogger(
		deps.Employees,
		deps.Catalog,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// HousekeepingServiceDeps captures dependencies for constructing a
// housekeeping service.
type HousekeepingServiceDeps struct {
	Store       application.HousekeepingStore
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewHousekeepingService builds a housekeeping service from the supplied
// dependencies.
func (f *ServiceFactory) NewHousekeepingService(deps HousekeepingServiceDeps) *application.HousekeepingService {
	return application.NewHousekeepingServiceWithLogger(
		deps.Store,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// LeaveServiceDeps captures dependencies for constructing a leave service.
type LeaveServiceDeps struct {
	Records     application.LeaveStore
	Employees   application.EmployeeDirectory
	Entitlement application.EntitlementSource
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewLeaveService builds a leave service from the supplied dependencies.
func (f *ServiceFactory) NewLeaveService(deps LeaveServiceDeps) *application.LeaveService {
	return application.NewLeaveServiceWithLogger(
		deps.Records,
		deps.Employees,
		deps.Entitlement,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// PlanningServiceDeps captures dependencies for constructing a planning service.
type PlanningServiceDeps struct {
	Employees    application.RosterSource
	Housekeeping application.HousekeepingStore
	Leave        application.LeaveSource
	Applied      application.PlanningStore
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewPlanningService builds a planning service from the supplied dependencies.
func (f *ServiceFactory) NewPlanningService(deps PlanningServiceDeps) *application.PlanningService {
	return application.NewPlanningServiceWithLogger(
		deps.Employees,
		deps.Housekeeping,
		deps.Leave,
		deps.Applied,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Operators      application.OperatorStore
	Sessions       application.SessionStore
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service from the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	return application.NewAuthServiceWithLogger(
		deps.Operators,
		deps.Sessions,
		deps.PasswordVerify,
		f.idFunc(deps.TokenGenerator),
		f.nowFunc(deps.Now),
		deps.SessionTTL,
		deps.Logger,
	)
}
