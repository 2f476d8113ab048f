package persistence

import "time"

// Operator represents a back-office account allowed to steer the planner.
type Operator struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authenticated operator session.
type Session struct {
	ID         string
	OperatorID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	RevokedAt  *time.Time
}

// HotelService is a catalog entry for a hotel department employees belong
// to (housekeeping, reception, restaurant...).
type HotelService struct {
	ID        string
	Name      string
	Kind      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee is a roster entry. WeeklyHours stores the contract enum
// (H35, H39, H35_MODULABLE, H39_MODULABLE); the numeric target is derived
// when schedules are generated. WorkingDays holds ISO weekday numbers
// (1=Monday .. 7=Sunday) and DayStart an HH:MM clock string.
type Employee struct {
	ID                   string
	Name                 string
	ContractType         string
	WeeklyHours          string
	MainServiceID        string
	PolyvalentServiceIDs []string
	WorkingDays          []int
	DayStart             string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RoomType is one row of the housekeeping room inventory.
type RoomType struct {
	ID              string
	Label           string
	Count           int
	CleaningMinutes int
	UpdatedAt       time.Time
}

// StaffingConfig is the singleton row of HR parameters.
type StaffingConfig struct {
	WorkingHoursPerDay  float64
	SafetyMargin        float64
	WeeklyHoursPerStaff float64
	RestDaysPerWeek     int
	AnnualLeaveDays     int
	BreakMinutes        int
	UpdatedAt           time.Time
}

// LeaveRecord is one stored leave interval. DaysCount is computed once at
// creation and stored; it is never re-derived elsewhere.
type LeaveRecord struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	DaysCount  int
	Year       int
	Notes      string
	CreatedAt  time.Time
}

// AppliedSchedule is the persisted trace of an operator applying an edited
// weekly schedule. Only the totals survive the apply; the working copy
// itself stays session local.
type AppliedSchedule struct {
	ID               string
	EmployeeID       string
	TotalWeeklyHours float64
	BreakMinutes     int
	AppliedAt        time.Time
}
