package persistence

import (
	"context"
	"time"
)

// ShiftFilter narrows shift queries. Nil fields are ignored.
type ShiftFilter struct {
	EmployeeID   *string
	RequiredRole *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}

// ShiftRepository stores shift records. Assignment changes go through
// SetShiftEmployee so a shift never carries more than one holder.
type ShiftRepository interface {
	CreateShift(ctx context.Context, shift Shift) error
	GetShift(ctx context.Context, id string) (Shift, error)
	ListShifts(ctx context.Context, filter ShiftFilter) ([]Shift, error)
	// ListOpenShifts returns unassigned shifts plus shifts under a coverage
	// request whose type permits pickup, intersected with the filter.
	ListOpenShifts(ctx context.Context, filter ShiftFilter) ([]Shift, error)
	// SetShiftEmployee atomically updates the assigned employee reference.
	// A nil employeeID clears the assignment. Returns ErrNotFound when the
	// shift does not exist.
	SetShiftEmployee(ctx context.Context, shiftID string, employeeID *string) error
}

// CoverageRequestRepository stores coverage requests.
type CoverageRequestRepository interface {
	CreateCoverageRequest(ctx context.Context, request CoverageRequest) error
	GetCoverageRequest(ctx context.Context, id string) (CoverageRequest, error)
	ListCoverageRequestsForShift(ctx context.Context, shiftID string) ([]CoverageRequest, error)
}

// TradeOfferRepository stores trade offers and applies their approval
// transitions as single conditional updates.
type TradeOfferRepository interface {
	CreateTradeOffer(ctx context.Context, offer TradeOffer) error
	GetTradeOffer(ctx context.Context, id string) (TradeOffer, error)
	// ApproveTradeOffer sets exactly one approval dimension to approved and
	// returns the post-update record, so callers observe the combined state
	// the store committed. Returns ErrNotFound when the offer does not exist.
	ApproveTradeOffer(ctx context.Context, id, dimension string) (TradeOffer, error)
	// DeleteTradeOffer removes the offer and returns the deleted record.
	DeleteTradeOffer(ctx context.Context, id string) (TradeOffer, error)
}

// PickupOfferRepository stores pickup offers.
type PickupOfferRepository interface {
	CreatePickupOffer(ctx context.Context, offer PickupOffer) error
	GetPickupOffer(ctx context.Context, id string) (PickupOffer, error)
	// CountLivePickupOffers counts undecided offers for a (shift, employee)
	// pair; used to reject duplicate submissions.
	CountLivePickupOffers(ctx context.Context, shiftID, employeeID string) (int, error)
	// DecidePickupOffer records the manager decision on a still-pending offer
	// and returns the post-update record. Returns ErrNotFound when no pending
	// offer with the id exists; callers distinguish missing from
	// already-decided via GetPickupOffer.
	DecidePickupOffer(ctx context.Context, id string, approved bool) (PickupOffer, error)
}

// EmployeeRepository stores directory entries for eligibility checks.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
}

// SwapApplier performs the two-shift reassignment of a fully approved trade as
// a single atomic unit. Implementations must either apply every write or none,
// and must guarantee the swap executes at most once per trade offer. Returns
// ErrNotFound when the trade offer row is already gone, which signals that a
// concurrent call executed the swap first.
type SwapApplier interface {
	ApplySwap(ctx context.Context, swap Swap) error
}
