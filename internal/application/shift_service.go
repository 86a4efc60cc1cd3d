package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ShiftStore captures the writes shift intake needs.
type ShiftStore interface {
	CreateShift(ctx context.Context, shift Shift) error
	GetShift(ctx context.Context, id string) (Shift, error)
}

// EmployeeStore captures the writes directory intake needs.
type EmployeeStore interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
}

// ShiftService is the intake boundary for schedule management: it validates
// and persists shift records and directory entries. The negotiation engine
// never creates shifts itself.
type ShiftService struct {
	shifts      ShiftStore
	employees   EmployeeStore
	limits      ShiftLimits
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewShiftService wires dependencies for shift intake.
func NewShiftService(shifts ShiftStore, employees EmployeeStore, limits ShiftLimits, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ShiftService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if limits.MaxLength == 0 && limits.MaxLocationLength == 0 {
		limits = DefaultShiftLimits()
	}
	return &ShiftService{
		shifts:      shifts,
		employees:   employees,
		limits:      limits,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateShift validates the input before delegating to persistence. An
// initial assignee may be named; it must exist in the directory.
func (s *ShiftService) CreateShift(ctx context.Context, params CreateShiftParams) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift service not configured")
	}

	input := params.Input
	if input.EmployeeID != nil && *input.EmployeeID == "" {
		input.EmployeeID = nil
	}

	vErr := &ValidationError{}
	validateShiftInput(input, s.limits, vErr)

	if input.EmployeeID != nil && s.employees != nil {
		if _, err := s.employees.GetEmployee(ctx, *input.EmployeeID); err != nil {
			if errors.Is(mapStoreError(err), ErrNotFound) {
				vErr.add("employee_id", "employee does not exist")
			} else {
				return Shift{}, err
			}
		}
	}

	if vErr.HasErrors() {
		return Shift{}, vErr
	}

	createdAt := s.now()
	shift := Shift{
		ID:           s.idGenerator(),
		Period:       TimeRange{Start: input.Start, End: input.End},
		Location:     strings.TrimSpace(input.Location),
		RequiredRole: input.RequiredRole,
		EmployeeID:   input.EmployeeID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	if err := s.shifts.CreateShift(ctx, shift); err != nil {
		return Shift{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "shifts", "CreateShift", "shift_id", shift.ID).
		InfoContext(ctx, "shift created")
	return shift, nil
}

// GetShift fetches a single shift by id.
func (s *ShiftService) GetShift(ctx context.Context, id string) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("shift service not configured")
	}
	shift, err := s.shifts.GetShift(ctx, id)
	if err != nil {
		return Shift{}, mapStoreError(err)
	}
	return shift, nil
}

// RegisterEmployee records a directory entry. Account provisioning happens
// elsewhere; only the reference data needed for eligibility checks lives here.
func (s *ShiftService) RegisterEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	if s == nil || s.employees == nil {
		return Employee{}, fmt.Errorf("shift service not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if strings.TrimSpace(input.Role) == "" {
		vErr.add("role", "role is required")
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	createdAt := s.now()
	employee := Employee{
		ID:          s.idGenerator(),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        strings.TrimSpace(input.Role),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		return Employee{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "shifts", "RegisterEmployee", "employee_id", employee.ID).
		InfoContext(ctx, "employee registered")
	return employee, nil
}
