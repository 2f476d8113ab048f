package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/workforce-planner/internal/capacity"
	"github.com/example/workforce-planner/internal/persistence"
)

// HousekeepingStore captures the persistence operations needed by the
// housekeeping service.
type HousekeepingStore interface {
	ListRoomTypes(ctx context.Context) ([]persistence.RoomType, error)
	ReplaceRoomTypes(ctx context.Context, rooms []persistence.RoomType) error
	GetStaffingConfig(ctx context.Context) (persistence.StaffingConfig, error)
	SaveStaffingConfig(ctx context.Context, config persistence.StaffingConfig) error
}

// CapacityReport bundles the computed staffing needs with the inputs they
// were derived from, so the caller can render both side by side.
type CapacityReport struct {
	Rooms    []persistence.RoomType
	Config   persistence.StaffingConfig
	Result   capacity.Result
	Warnings []capacity.Warning
}

// HousekeepingService manages the room inventory and the HR staffing
// parameters, and derives the housekeeping capacity report from them.
type HousekeepingService struct {
	store       HousekeepingStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewHousekeepingService constructs a housekeeping service with the provided dependencies.
func NewHousekeepingService(store HousekeepingStore, idGenerator func() string, now func() time.Time) *HousekeepingService {
	return NewHousekeepingServiceWithLogger(store, idGenerator, now, nil)
}

// NewHousekeepingServiceWithLogger constructs a housekeeping service with a specified logger.
func NewHousekeepingServiceWithLogger(store HousekeepingStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *HousekeepingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &HousekeepingService{store: store, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *HousekeepingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HousekeepingService", operation, attrs...)
}

// ListRooms returns the room inventory for any authenticated operator.
func (s *HousekeepingService) ListRooms(ctx context.Context, principal Principal) ([]persistence.RoomType, error) {
	if s == nil {
		return nil, fmt.Errorf("HousekeepingService is nil")
	}
	if s.store == nil {
		return nil, nil
	}
	rooms, err := s.store.ListRoomTypes(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rooms, nil
}

// ReplaceRooms validates and replaces the whole room inventory for
// administrators. Rows without an ID are treated as new and get one assigned.
func (s *HousekeepingService) ReplaceRooms(ctx context.Context, params ReplaceRoomsParams) (rooms []persistence.RoomType, err error) {
	if s == nil {
		err = fmt.Errorf("HousekeepingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ReplaceRooms",
		"principal_id", params.Principal.OperatorID,
		"room_count", len(params.Rooms),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to replace room inventory", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room inventory replaced")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.store == nil {
		err = fmt.Errorf("housekeeping store not configured")
		return
	}

	vErr := validateRoomInputs(params.Rooms)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	rooms = make([]persistence.RoomType, 0, len(params.Rooms))
	for _, input := range params.Rooms {
		id := strings.TrimSpace(input.ID)
		if id == "" {
			id = s.idGenerator()
		}
		rooms = append(rooms, persistence.RoomType{
			ID:              id,
			Label:           strings.TrimSpace(input.Label),
			Count:           input.Count,
			CleaningMinutes: input.CleaningMinutes,
			UpdatedAt:       now,
		})
	}

	if err = s.store.ReplaceRoomTypes(ctx, rooms); err != nil {
		err = mapRepoError(err)
		rooms = nil
	}
	return
}

// GetConfig returns the staffing configuration, falling back to the stock
// defaults when nothing was saved yet.
func (s *HousekeepingService) GetConfig(ctx context.Context, principal Principal) (persistence.StaffingConfig, error) {
	if s == nil {
		return persistence.StaffingConfig{}, fmt.Errorf("HousekeepingService is nil")
	}
	if s.store == nil {
		return defaultStaffingConfig(), nil
	}

	config, err := s.store.GetStaffingConfig(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return defaultStaffingConfig(), nil
		}
		return persistence.StaffingConfig{}, mapRepoError(err)
	}
	return config, nil
}

// SaveConfig validates and persists the staffing configuration for administrators.
func (s *HousekeepingService) SaveConfig(ctx context.Context, params SaveStaffingConfigParams) (config persistence.StaffingConfig, err error) {
	if s == nil {
		err = fmt.Errorf("HousekeepingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SaveConfig", "principal_id", params.Principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to save staffing config", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "staffing config saved")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.store == nil {
		err = fmt.Errorf("housekeeping store not configured")
		return
	}

	vErr := validateStaffingConfigInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	config = persistence.StaffingConfig{
		WorkingHoursPerDay:  params.Input.WorkingHoursPerDay,
		SafetyMargin:        params.Input.SafetyMargin,
		WeeklyHoursPerStaff: params.Input.WeeklyHoursPerStaff,
		RestDaysPerWeek:     params.Input.RestDaysPerWeek,
		AnnualLeaveDays:     params.Input.AnnualLeaveDays,
		BreakMinutes:        params.Input.BreakMinutes,
		UpdatedAt:           s.now(),
	}

	if err = s.store.SaveStaffingConfig(ctx, config); err != nil {
		err = mapRepoError(err)
		config = persistence.StaffingConfig{}
	}
	return
}

// Capacity derives the housekeeping staffing report from the current room
// inventory and staffing configuration.
func (s *HousekeepingService) Capacity(ctx context.Context, principal Principal) (report CapacityReport, err error) {
	if s == nil {
		err = fmt.Errorf("HousekeepingService is nil")
		return
	}
	if s.store == nil {
		err = fmt.Errorf("housekeeping store not configured")
		return
	}

	logger := s.loggerWith(ctx, "Capacity", "principal_id", principal.OperatorID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute capacity", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"minimum_staff", report.Result.MinimumStaff,
			"recommended_staff", report.Result.RecommendedStaff,
		).InfoContext(ctx, "capacity computed")
	}()

	report.Rooms, err = s.store.ListRoomTypes(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	report.Config, err = s.GetConfig(ctx, principal)
	if err != nil {
		return
	}

	report.Result, report.Warnings = capacity.Compute(
		CapacityRooms(report.Rooms),
		CapacityConfig(report.Config),
	)
	return
}

// CapacityRooms projects stored inventory rows into calculator inputs.
func CapacityRooms(rooms []persistence.RoomType) []capacity.RoomType {
	out := make([]capacity.RoomType, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, capacity.RoomType{
			Label:           room.Label,
			Count:           room.Count,
			CleaningMinutes: room.CleaningMinutes,
		})
	}
	return out
}

// CapacityConfig projects the stored staffing row into calculator inputs.
func CapacityConfig(config persistence.StaffingConfig) capacity.Config {
	return capacity.Config{
		WorkingHoursPerDay:  config.WorkingHoursPerDay,
		SafetyMargin:        config.SafetyMargin,
		WeeklyHoursPerStaff: config.WeeklyHoursPerStaff,
		RestDaysPerWeek:     config.RestDaysPerWeek,
		AnnualLeaveDays:     config.AnnualLeaveDays,
	}
}

func defaultStaffingConfig() persistence.StaffingConfig {
	defaults := capacity.DefaultConfig()
	return persistence.StaffingConfig{
		WorkingHoursPerDay:  defaults.WorkingHoursPerDay,
		SafetyMargin:        defaults.SafetyMargin,
		WeeklyHoursPerStaff: defaults.WeeklyHoursPerStaff,
		RestDaysPerWeek:     defaults.RestDaysPerWeek,
		AnnualLeaveDays:     defaults.AnnualLeaveDays,
		BreakMinutes:        60,
	}
}

func validateRoomInputs(rooms []RoomTypeInput) *ValidationError {
	vErr := &ValidationError{}

	labels := make(map[string]struct{}, len(rooms))
	for i, room := range rooms {
		field := fmt.Sprintf("rooms[%d]", i)
		label := strings.TrimSpace(room.Label)
		if label == "" {
			vErr.add(field+".label", "label is required")
		} else if _, ok := labels[strings.ToLower(label)]; ok {
			vErr.add(field+".label", "label must be unique")
		} else {
			labels[strings.ToLower(label)] = struct{}{}
		}
		if room.Count < 0 {
			vErr.add(field+".count", "count must not be negative")
		}
		if room.CleaningMinutes <= 0 {
			vErr.add(field+".cleaning_minutes", "cleaning minutes must be positive")
		}
	}

	return vErr
}

func validateStaffingConfigInput(input StaffingConfigInput) *ValidationError {
	vErr := &ValidationError{}

	if input.WorkingHoursPerDay <= 0 || input.WorkingHoursPerDay > 24 {
		vErr.add("working_hours_per_day", "working hours per day must be between 0 and 24")
	}
	if input.SafetyMargin < 0 || input.SafetyMargin > 1 {
		vErr.add("safety_margin", "safety margin must be a fraction between 0 and 1")
	}
	if input.WeeklyHoursPerStaff <= 0 {
		vErr.add("weekly_hours_per_staff", "weekly hours per staff must be positive")
	}
	if input.RestDaysPerWeek < 0 || input.RestDaysPerWeek > 6 {
		vErr.add("rest_days_per_week", "rest days per week must be between 0 and 6")
	}
	if input.AnnualLeaveDays < 0 {
		vErr.add("annual_leave_days", "annual leave days must not be negative")
	}
	if input.BreakMinutes < 0 {
		vErr.add("break_minutes", "break minutes must not be negative")
	}

	return vErr
}
