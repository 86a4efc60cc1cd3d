package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/shift-exchange/internal/scheduling"
)

// AvailabilityShiftSource captures the reads availability checks need.
type AvailabilityShiftSource interface {
	GetShift(ctx context.Context, id string) (Shift, error)
	ListShifts(ctx context.Context, options ShiftQueryOptions) ([]Shift, error)
}

// EmployeeDirectory exposes employee lookups for eligibility checks.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
}

// AvailabilityService decides whether assigning a candidate shift to an
// employee would overlap their existing assignments or violate the shift's
// role requirement.
type AvailabilityService struct {
	shifts    AvailabilityShiftSource
	employees EmployeeDirectory
	logger    *slog.Logger
}

// NewAvailabilityService wires dependencies for availability checks.
func NewAvailabilityService(shifts AvailabilityShiftSource, employees EmployeeDirectory, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{shifts: shifts, employees: employees, logger: defaultLogger(logger)}
}

// IsEmployeeSchedulableForShift reports whether the employee may take the
// shift. An unknown employee or a role mismatch yields false; a missing shift
// is an error because callers always name one that should exist.
func (s *AvailabilityService) IsEmployeeSchedulableForShift(ctx context.Context, employeeID, shiftID string) (bool, error) {
	if s == nil || s.shifts == nil {
		return false, fmt.Errorf("availability service not configured")
	}

	shift, err := s.shifts.GetShift(ctx, shiftID)
	if err != nil {
		return false, mapStoreError(err)
	}

	logger := serviceLogger(ctx, s.logger, "availability", "IsEmployeeSchedulableForShift",
		"employee_id", employeeID, "shift_id", shiftID)

	if s.employees != nil {
		employee, err := s.employees.GetEmployee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(mapStoreError(err), ErrNotFound) {
				logger.InfoContext(ctx, "employee not in directory")
				return false, nil
			}
			return false, err
		}
		if shift.RequiredRole != "" && employee.Role != shift.RequiredRole {
			logger.InfoContext(ctx, "role mismatch", "required_role", shift.RequiredRole, "employee_role", employee.Role)
			return false, nil
		}
	}

	held, err := s.shifts.ListShifts(ctx, ShiftQueryOptions{EmployeeID: &employeeID})
	if err != nil {
		return false, mapStoreError(err)
	}

	existing := make([]scheduling.Shift, 0, len(held))
	for _, h := range held {
		existing = append(existing, toSchedulingShift(h))
	}

	conflicts := scheduling.DetectConflicts(existing, toSchedulingShift(shift))
	if len(conflicts) > 0 {
		logger.InfoContext(ctx, "overlap with held shift", "conflicting_shift_id", conflicts[0].WithShiftID)
		return false, nil
	}

	return true, nil
}

func toSchedulingShift(shift Shift) scheduling.Shift {
	converted := scheduling.Shift{
		ID:    shift.ID,
		Start: shift.Period.Start,
		End:   shift.Period.End,
	}
	if shift.EmployeeID != nil {
		converted.EmployeeID = *shift.EmployeeID
	}
	return converted
}
