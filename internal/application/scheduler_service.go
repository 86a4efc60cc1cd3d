package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/shift-exchange/internal/persistence"
)

// AssignmentStore captures the shift writes the scheduler needs.
type AssignmentStore interface {
	GetShift(ctx context.Context, id string) (Shift, error)
	SetShiftEmployee(ctx context.Context, shiftID string, employeeID *string) error
}

// SwapStore applies the two-shift reassignment of a trade atomically.
type SwapStore interface {
	ApplySwap(ctx context.Context, swap SwapRequest) error
}

// AvailabilityChecker gates assignments that would double-book an employee.
type AvailabilityChecker interface {
	IsEmployeeSchedulableForShift(ctx context.Context, employeeID, shiftID string) (bool, error)
}

// SchedulerService is the sole writer of shift-to-employee assignment. A
// shift has at most one holder before and after every call.
type SchedulerService struct {
	shifts       AssignmentStore
	swaps        SwapStore
	availability AvailabilityChecker
	logger       *slog.Logger
}

// NewSchedulerService wires dependencies for assignment operations. The
// availability checker may be nil, in which case assignments are gated only
// by the single-holder rule.
func NewSchedulerService(shifts AssignmentStore, swaps SwapStore, availability AvailabilityChecker, logger *slog.Logger) *SchedulerService {
	return &SchedulerService{
		shifts:       shifts,
		swaps:        swaps,
		availability: availability,
		logger:       defaultLogger(logger),
	}
}

// AssignShift sets the shift's employee reference. Re-applying an identical
// assignment is a no-op; assigning a shift held by someone else fails with
// ErrConflict, as does an assignment the availability checker rejects.
func (s *SchedulerService) AssignShift(ctx context.Context, assignment ShiftAssignment) error {
	if s == nil || s.shifts == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if assignment.EmployeeID == nil || *assignment.EmployeeID == "" {
		return fmt.Errorf("%w: assignment requires an employee", ErrInvalidOperation)
	}

	shift, err := s.shifts.GetShift(ctx, assignment.ShiftID)
	if err != nil {
		return mapStoreError(err)
	}

	if shift.Assigned() {
		if *shift.EmployeeID == *assignment.EmployeeID {
			// Retried application of the same assignment.
			return nil
		}
		return fmt.Errorf("%w: shift is already assigned", ErrConflict)
	}

	if s.availability != nil {
		ok, err := s.availability.IsEmployeeSchedulableForShift(ctx, *assignment.EmployeeID, assignment.ShiftID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: employee is not schedulable for this shift", ErrConflict)
		}
	}

	if err := s.shifts.SetShiftEmployee(ctx, assignment.ShiftID, assignment.EmployeeID); err != nil {
		return mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "scheduler", "AssignShift", "shift_id", assignment.ShiftID).
		InfoContext(ctx, "shift assigned")
	return nil
}

// UnassignShift clears the shift's employee reference. It fails with
// ErrNotFound when the shift does not exist rather than silently no-opping.
func (s *SchedulerService) UnassignShift(ctx context.Context, shiftID string) error {
	if s == nil || s.shifts == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if err := s.shifts.SetShiftEmployee(ctx, shiftID, nil); err != nil {
		return mapStoreError(err)
	}
	serviceLogger(ctx, s.logger, "scheduler", "UnassignShift", "shift_id", shiftID).
		InfoContext(ctx, "shift unassigned")
	return nil
}

// ApplySwap exchanges the holders of two shifts as one atomic unit. The
// shifts already belong to their respective holders, so availability is not
// re-validated on this path.
func (s *SchedulerService) ApplySwap(ctx context.Context, swap SwapRequest) error {
	if s == nil || s.swaps == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if err := s.swaps.ApplySwap(ctx, swap); err != nil {
		return mapStoreError(err)
	}
	serviceLogger(ctx, s.logger, "scheduler", "ApplySwap",
		"trade_offer_id", swap.TradeOfferID,
		"shift_a", swap.ShiftA,
		"shift_b", swap.ShiftB,
	).InfoContext(ctx, "swap applied")
	return nil
}

// mapStoreError translates persistence sentinels into application errors.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return fmt.Errorf("%w: duplicate record", ErrInvalidOperation)
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: referenced record does not exist", ErrInvalidOperation)
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return fmt.Errorf("%w: record violates a store constraint", ErrInvalidOperation)
	}
	return err
}
