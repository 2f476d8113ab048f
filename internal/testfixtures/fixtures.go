package testfixtures

import (
	"time"

	"github.com/example/workforce-planner/internal/application"
	"github.com/example/workforce-planner/internal/leave"
	"github.com/example/workforce-planner/internal/persistence"
)

// OperatorFixture builds back-office accounts. The default operator is an
// administrator with a placeholder hash no verifier accepts; override the
// hash when a test needs real authentication.
type OperatorFixture struct {
	operator persistence.Operator
}

// OperatorOption mutates an operator fixture.
type OperatorOption func(*OperatorFixture)

// NewOperatorFixture constructs an operator fixture with defaults applied.
func NewOperatorFixture(opts ...OperatorOption) OperatorFixture {
	fixture := OperatorFixture{operator: persistence.Operator{
		ID:           "op-1",
		Email:        "gouvernante@hotel.example",
		DisplayName:  "Gouvernante générale",
		PasswordHash: "$placeholder$not-a-real-hash",
		IsAdmin:      true,
		CreatedAt:    ReferenceTime(),
		UpdatedAt:    ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOperatorID overrides the operator identifier.
func WithOperatorID(id string) OperatorOption {
	return func(f *OperatorFixture) { f.operator.ID = id }
}

// WithOperatorEmail overrides the login email.
func WithOperatorEmail(email string) OperatorOption {
	return func(f *OperatorFixture) { f.operator.Email = email }
}

// WithOperatorPasswordHash overrides the stored password hash.
func WithOperatorPasswordHash(hash string) OperatorOption {
	return func(f *OperatorFixture) { f.operator.PasswordHash = hash }
}

// WithOperatorAdmin toggles the administrator flag.
func WithOperatorAdmin(isAdmin bool) OperatorOption {
	return func(f *OperatorFixture) { f.operator.IsAdmin = isAdmin }
}

// Persistence returns the stored representation.
func (f OperatorFixture) Persistence() persistence.Operator {
	return f.operator
}

// Principal returns the principal an authenticated session would carry.
func (f OperatorFixture) Principal() application.Principal {
	return application.Principal{OperatorID: f.operator.ID, IsAdmin: f.operator.IsAdmin}
}

// ServiceFixture builds hotel service catalog entries.
type ServiceFixture struct {
	service persistence.HotelService
}

// ServiceOption mutates a service fixture.
type ServiceOption func(*ServiceFixture)

// NewServiceFixture constructs a housekeeping catalog entry by default.
func NewServiceFixture(opts ...ServiceOption) ServiceFixture {
	fixture := ServiceFixture{service: persistence.HotelService{
		ID:        "svc-1",
		Name:      "Étages",
		Kind:      "housekeeping",
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithServiceID overrides the catalog identifier.
func WithServiceID(id string) ServiceOption {
	return func(f *ServiceFixture) { f.service.ID = id }
}

// WithServiceName overrides the display name.
func WithServiceName(name string) ServiceOption {
	return func(f *ServiceFixture) { f.service.Name = name }
}

// WithServiceKind overrides the service kind.
func WithServiceKind(kind string) ServiceOption {
	return func(f *ServiceFixture) { f.service.Kind = kind }
}

// Persistence returns the stored representation.
func (f ServiceFixture) Persistence() persistence.HotelService {
	return f.service
}

// Input returns the caller-provided shape for create and update calls.
func (f ServiceFixture) Input() application.ServiceInput {
	return application.ServiceInput{Name: f.service.Name, Kind: f.service.Kind}
}

// EmployeeFixture builds roster entries. The default employee works a
// five-day H35 week starting at 09:00 in service svc-1.
type EmployeeFixture struct {
	employee persistence.Employee
}

// EmployeeOption mutates an employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture constructs an employee fixture with defaults applied.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	fixture := EmployeeFixture{employee: persistence.Employee{
		ID:            "emp-1",
		Name:          "Claire Moreau",
		ContractType:  "CDI",
		WeeklyHours:   "H35",
		MainServiceID: "svc-1",
		WorkingDays:   []int{1, 2, 3, 4, 5},
		DayStart:      "09:00",
		CreatedAt:     ReferenceTime(),
		UpdatedAt:     ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the roster identifier.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.ID = id }
}

// WithEmployeeName overrides the display name.
func WithEmployeeName(name string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.Name = name }
}

// WithWeeklyHours sets the contract hour enum (H35, H39, H35_MODULABLE,
// H39_MODULABLE).
func WithWeeklyHours(enum string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.WeeklyHours = enum }
}

// WithContractType overrides the contract type label.
func WithContractType(contractType string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.ContractType = contractType }
}

// WithMainService overrides the employee's main service.
func WithMainService(serviceID string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.MainServiceID = serviceID }
}

// WithPolyvalentServices sets the secondary service assignments.
func WithPolyvalentServices(serviceIDs ...string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.PolyvalentServiceIDs = serviceIDs }
}

// WithWorkingDays sets the ISO weekday numbers the employee works.
func WithWorkingDays(days ...int) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.WorkingDays = days }
}

// WithDayStart sets the HH:MM start of the employee's working day.
func WithDayStart(clock string) EmployeeOption {
	return func(f *EmployeeFixture) { f.employee.DayStart = clock }
}

// Persistence returns the stored representation.
func (f EmployeeFixture) Persistence() persistence.Employee {
	return f.employee
}

// Input returns the caller-provided shape for create and update calls.
func (f EmployeeFixture) Input() application.EmployeeInput {
	return application.EmployeeInput{
		Name:                 f.employee.Name,
		ContractType:         f.employee.ContractType,
		WeeklyHours:          f.employee.WeeklyHours,
		MainServiceID:        f.employee.MainServiceID,
		PolyvalentServiceIDs: f.employee.PolyvalentServiceIDs,
		WorkingDays:          f.employee.WorkingDays,
		DayStart:             f.employee.DayStart,
	}
}

// RoomTypeFixture builds room inventory rows.
type RoomTypeFixture struct {
	room persistence.RoomType
}

// RoomTypeOption mutates a room type fixture.
type RoomTypeOption func(*RoomTypeFixture)

// NewRoomTypeFixture constructs a standard double-room row by default.
func NewRoomTypeFixture(opts ...RoomTypeOption) RoomTypeFixture {
	fixture := RoomTypeFixture{room: persistence.RoomType{
		ID:              "room-std",
		Label:           "Chambre double",
		Count:           40,
		CleaningMinutes: 25,
		UpdatedAt:       ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomTypeID overrides the inventory row identifier.
func WithRoomTypeID(id string) RoomTypeOption {
	return func(f *RoomTypeFixture) { f.room.ID = id }
}

// WithRoomLabel overrides the display label.
func WithRoomLabel(label string) RoomTypeOption {
	return func(f *RoomTypeFixture) { f.room.Label = label }
}

// WithRoomCount sets the number of rooms of this type.
func WithRoomCount(count int) RoomTypeOption {
	return func(f *RoomTypeFixture) { f.room.Count = count }
}

// WithCleaningMinutes sets the per-room cleaning duration.
func WithCleaningMinutes(minutes int) RoomTypeOption {
	return func(f *RoomTypeFixture) { f.room.CleaningMinutes = minutes }
}

// Persistence returns the stored representation.
func (f RoomTypeFixture) Persistence() persistence.RoomType {
	return f.room
}

// Input returns the caller-provided shape for inventory replacement.
func (f RoomTypeFixture) Input() application.RoomTypeInput {
	return application.RoomTypeInput{
		ID:              f.room.ID,
		Label:           f.room.Label,
		Count:           f.room.Count,
		CleaningMinutes: f.room.CleaningMinutes,
	}
}

// StaffingConfigFixture builds the HR parameter singleton.
type StaffingConfigFixture struct {
	config persistence.StaffingConfig
}

// StaffingConfigOption mutates a staffing config fixture.
type StaffingConfigOption func(*StaffingConfigFixture)

// NewStaffingConfigFixture constructs a config fixture with the stock HR
// parameters.
func NewStaffingConfigFixture(opts ...StaffingConfigOption) StaffingConfigFixture {
	fixture := StaffingConfigFixture{config: persistence.StaffingConfig{
		WorkingHoursPerDay:  7,
		SafetyMargin:        0.15,
		WeeklyHoursPerStaff: 35,
		RestDaysPerWeek:     2,
		AnnualLeaveDays:     30,
		BreakMinutes:        30,
		UpdatedAt:           ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAnnualLeaveDays overrides the annual leave entitlement.
func WithAnnualLeaveDays(days int) StaffingConfigOption {
	return func(f *StaffingConfigFixture) { f.config.AnnualLeaveDays = days }
}

// WithBreakMinutes overrides the daily break duration.
func WithBreakMinutes(minutes int) StaffingConfigOption {
	return func(f *StaffingConfigFixture) { f.config.BreakMinutes = minutes }
}

// WithSafetyMargin overrides the capacity safety margin.
func WithSafetyMargin(margin float64) StaffingConfigOption {
	return func(f *StaffingConfigFixture) { f.config.SafetyMargin = margin }
}

// Persistence returns the stored representation.
func (f StaffingConfigFixture) Persistence() persistence.StaffingConfig {
	return f.config
}

// Input returns the caller-provided shape for saving the configuration.
func (f StaffingConfigFixture) Input() application.StaffingConfigInput {
	return application.StaffingConfigInput{
		WorkingHoursPerDay:  f.config.WorkingHoursPerDay,
		SafetyMargin:        f.config.SafetyMargin,
		WeeklyHoursPerStaff: f.config.WeeklyHoursPerStaff,
		RestDaysPerWeek:     f.config.RestDaysPerWeek,
		AnnualLeaveDays:     f.config.AnnualLeaveDays,
		BreakMinutes:        f.config.BreakMinutes,
	}
}

// LeaveFixture builds stored leave intervals. DaysCount and Year are derived
// from the interval the same way the ledger derives them at creation.
type LeaveFixture struct {
	record persistence.LeaveRecord
}

// LeaveOption mutates a leave fixture.
type LeaveOption func(*LeaveFixture)

// NewLeaveFixture constructs a one-week leave for emp-1 starting at the
// reference Monday.
func NewLeaveFixture(opts ...LeaveOption) LeaveFixture {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	fixture := LeaveFixture{record: persistence.LeaveRecord{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 6),
		CreatedAt:  ReferenceTime(),
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	fixture.record.DaysCount = leave.CountWorkingDays(fixture.record.StartDate, fixture.record.EndDate)
	fixture.record.Year = fixture.record.EndDate.Year()
	return fixture
}

// WithLeaveID overrides the record identifier.
func WithLeaveID(id string) LeaveOption {
	return func(f *LeaveFixture) { f.record.ID = id }
}

// WithLeaveEmployee overrides the employee the interval belongs to.
func WithLeaveEmployee(employeeID string) LeaveOption {
	return func(f *LeaveFixture) { f.record.EmployeeID = employeeID }
}

// WithLeaveInterval sets the inclusive interval bounds.
func WithLeaveInterval(start, end time.Time) LeaveOption {
	return func(f *LeaveFixture) {
		f.record.StartDate = start
		f.record.EndDate = end
	}
}

// WithLeaveNotes sets the free-form note.
func WithLeaveNotes(notes string) LeaveOption {
	return func(f *LeaveFixture) { f.record.Notes = notes }
}

// Persistence returns the stored representation.
func (f LeaveFixture) Persistence() persistence.LeaveRecord {
	return f.record
}

// Input returns the caller-provided shape for recording the interval.
func (f LeaveFixture) Input() application.LeaveInput {
	return application.LeaveInput{
		EmployeeID: f.record.EmployeeID,
		StartDate:  f.record.StartDate,
		EndDate:    f.record.EndDate,
		Notes:      f.record.Notes,
	}
}
