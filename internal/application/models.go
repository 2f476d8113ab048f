package application

import "time"

// Principal represents the authenticated operator invoking a service method.
type Principal struct {
	OperatorID string
	IsAdmin    bool
}

// Operator is a back-office account as exposed by the application services.
// The stored password hash never leaves the persistence layer boundary.
type Operator struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuthenticateParams captures the data required to authenticate an operator.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	Operator  Operator
	Token     string
	ExpiresAt time.Time
}

// ServiceInput captures caller provided hotel service fields.
type ServiceInput struct {
	Name string
	Kind string
}

// CreateServiceParams wraps the data required to create a catalog entry.
type CreateServiceParams struct {
	Principal Principal
	Input     ServiceInput
}

// UpdateServiceParams wraps the data required to update a catalog entry.
type UpdateServiceParams struct {
	Principal Principal
	ServiceID string
	Input     ServiceInput
}

// EmployeeInput captures caller provided roster fields. WeeklyHours is the
// contract hour enum (H35, H39, H35_MODULABLE, H39_MODULABLE); WorkingDays
// holds ISO weekday numbers (1=Monday .. 7=Sunday); DayStart is an HH:MM
// clock string.
type EmployeeInput struct {
	Name                 string
	ContractType         string
	WeeklyHours          string
	MainServiceID        string
	PolyvalentServiceIDs []string
	WorkingDays          []int
	DayStart             string
}

// CreateEmployeeParams wraps the data required to create a roster entry.
type CreateEmployeeParams struct {
	Principal Principal
	Input     EmployeeInput
}

// UpdateEmployeeParams wraps the data required to update a roster entry.
type UpdateEmployeeParams struct {
	Principal  Principal
	EmployeeID string
	Input      EmployeeInput
}

// RoomTypeInput captures one caller provided room inventory row.
type RoomTypeInput struct {
	ID              string
	Label           string
	Count           int
	CleaningMinutes int
}

// ReplaceRoomsParams wraps the data required to replace the room inventory.
type ReplaceRoomsParams struct {
	Principal Principal
	Rooms     []RoomTypeInput
}

// StaffingConfigInput captures caller provided HR parameters.
type StaffingConfigInput struct {
	WorkingHoursPerDay  float64
	SafetyMargin        float64
	WeeklyHoursPerStaff float64
	RestDaysPerWeek     int
	AnnualLeaveDays     int
	BreakMinutes        int
}

// SaveStaffingConfigParams wraps the data required to save HR parameters.
type SaveStaffingConfigParams struct {
	Principal Principal
	Input     StaffingConfigInput
}

// LeaveInput captures caller provided leave interval fields.
type LeaveInput struct {
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Notes      string
}

// CreateLeaveParams wraps the data required to record a leave interval.
type CreateLeaveParams struct {
	Principal Principal
	Input     LeaveInput
}

// LeaveQuery narrows leave listings. A zero query lists everything.
type LeaveQuery struct {
	EmployeeID string
	Year       int
}
