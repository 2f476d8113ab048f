package persistence

import (
	"context"
	"time"
)

// OperatorRepository exposes CRUD operations for back-office accounts.
type OperatorRepository interface {
	CreateOperator(ctx context.Context, operator Operator) error
	GetOperator(ctx context.Context, id string) (Operator, error)
	GetOperatorByEmail(ctx context.Context, email string) (Operator, error)
	ListOperators(ctx context.Context) ([]Operator, error)
}

// SessionRepository stores operator session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// ServiceRepository exposes CRUD operations for the hotel service catalog.
type ServiceRepository interface {
	CreateService(ctx context.Context, service HotelService) error
	UpdateService(ctx context.Context, service HotelService) error
	GetService(ctx context.Context, id string) (HotelService, error)
	ListServices(ctx context.Context) ([]HotelService, error)
	DeleteService(ctx context.Context, id string) error
}

// EmployeeRepository exposes CRUD operations for the roster.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// HousekeepingRepository stores the room inventory and the staffing
// configuration singleton.
type HousekeepingRepository interface {
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	ReplaceRoomTypes(ctx context.Context, rooms []RoomType) error
	GetStaffingConfig(ctx context.Context) (StaffingConfig, error)
	SaveStaffingConfig(ctx context.Context, config StaffingConfig) error
}

// LeaveRepository stores leave records.
type LeaveRepository interface {
	CreateLeave(ctx context.Context, record LeaveRecord) error
	GetLeave(ctx context.Context, id string) (LeaveRecord, error)
	ListLeave(ctx context.Context, filter LeaveFilter) ([]LeaveRecord, error)
	DeleteLeave(ctx context.Context, id string) error
}

// LeaveFilter narrows leave queries. A zero filter lists everything.
type LeaveFilter struct {
	EmployeeID string
	Year       int
}

// PlanningRepository stores the applied schedule trace.
type PlanningRepository interface {
	SaveAppliedSchedules(ctx context.Context, schedules []AppliedSchedule) error
	ListAppliedSchedules(ctx context.Context) ([]AppliedSchedule, error)
}
