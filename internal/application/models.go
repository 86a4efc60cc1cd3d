package application

import "time"

// Principal represents the authenticated employee invoking a service method.
// Identity is established upstream; only the reference and the manager flag
// travel into this core.
type Principal struct {
	EmployeeID string
	IsManager  bool
}

// TimeRange is the half-open interval a shift occupies.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Shift represents a persisted work shift.
type Shift struct {
	ID           string
	Period       TimeRange
	Location     string
	RequiredRole string
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assigned reports whether the shift currently has a holder.
func (s Shift) Assigned() bool {
	return s.EmployeeID != nil && *s.EmployeeID != ""
}

// ShiftInput captures caller provided shift fields.
type ShiftInput struct {
	Start        time.Time
	End          time.Time
	Location     string
	RequiredRole string
	EmployeeID   *string
}

// CreateShiftParams wraps the data required to create a shift.
type CreateShiftParams struct {
	Principal Principal
	Input     ShiftInput
}

// Employee represents a directory entry used for eligibility checks.
type Employee struct {
	ID          string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeInput captures caller provided employee directory fields.
type EmployeeInput struct {
	DisplayName string
	Role        string
}

// CoverageType states how a shift may leave its holder: picked up by another
// employee, traded for one of theirs, or either.
type CoverageType string

const (
	CoveragePickupOnly CoverageType = "pickup_only"
	CoverageTradeOnly  CoverageType = "trade_only"
	CoverageBoth       CoverageType = "both"
)

// Valid reports whether the value is one of the declared coverage types.
func (t CoverageType) Valid() bool {
	switch t {
	case CoveragePickupOnly, CoverageTradeOnly, CoverageBoth:
		return true
	}
	return false
}

// CanTrade reports whether the coverage type permits trade offers.
func (t CoverageType) CanTrade() bool {
	return t == CoverageTradeOnly || t == CoverageBoth
}

// CanPickup reports whether the coverage type permits pickup offers.
func (t CoverageType) CanPickup() bool {
	return t == CoveragePickupOnly || t == CoverageBoth
}

// CoverageRequest records that a shift's holder wants it covered and/or traded
// away. Requests are immutable after creation.
type CoverageRequest struct {
	ID           string
	ShiftID      string
	EmployeeID   string
	CoverageType CoverageType
	Note         *string
	CreatedAt    time.Time
}

// CanTrade reports whether trade offers may target this request.
func (r CoverageRequest) CanTrade() bool {
	return r.CoverageType.CanTrade()
}

// CanPickup reports whether the covered shift may be picked up.
func (r CoverageRequest) CanPickup() bool {
	return r.CoverageType.CanPickup()
}

// RequestCoverageParams wraps the data required to open a coverage request.
type RequestCoverageParams struct {
	Principal    Principal
	ShiftID      string
	CoverageType CoverageType
	Note         *string
}

// Approval is one decision dimension of an offer. Pending is the initial
// state; approved and denied are terminal for that dimension.
type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalDenied   Approval = "denied"
)

// ApprovalDimension selects which flag an approval call acts on.
type ApprovalDimension string

const (
	DimensionEmployee ApprovalDimension = "employee"
	DimensionManager  ApprovalDimension = "manager"
)

// TradeState is the explicit state of a trade offer derived from its two
// approval dimensions.
type TradeState string

const (
	TradeStatePending          TradeState = "pending"
	TradeStateEmployeeApproved TradeState = "employee_approved"
	TradeStateManagerApproved  TradeState = "manager_approved"
	// TradeStateExecuted means both dimensions are approved; the swap runs
	// exactly once at the transition into this state and the record is then
	// removed.
	TradeStateExecuted TradeState = "executed"
	// TradeStateDenied is terminal; denied offers are deleted, so the state
	// is observed only as the outcome of DenyTrade.
	TradeStateDenied TradeState = "denied"
)

// TradeOffer is a proposal to exchange the offered shift for the shift under
// a coverage request. Execution requires independent approval from the
// requesting employee and from a manager; the order does not matter.
type TradeOffer struct {
	ID                string
	CoverageRequestID string
	ShiftOfferedID    string
	EmployeeApproval  Approval
	ManagerApproval   Approval
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// State derives the explicit trade state from the approval pair.
func (o TradeOffer) State() TradeState {
	switch {
	case o.EmployeeApproval == ApprovalApproved && o.ManagerApproval == ApprovalApproved:
		return TradeStateExecuted
	case o.EmployeeApproval == ApprovalApproved:
		return TradeStateEmployeeApproved
	case o.ManagerApproval == ApprovalApproved:
		return TradeStateManagerApproved
	default:
		return TradeStatePending
	}
}

// OfferTradeParams wraps the data required to submit a trade offer.
type OfferTradeParams struct {
	Principal         Principal
	CoverageRequestID string
	ShiftOfferedID    string
}

// PickupOffer is a proposal to take over an open shift. A single manager
// decision resolves it; acting on a decided offer is rejected.
type PickupOffer struct {
	ID              string
	ShiftID         string
	EmployeeID      string
	ManagerApproval Approval
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Decided reports whether a manager has already acted on the offer.
func (o PickupOffer) Decided() bool {
	return o.ManagerApproval != ApprovalPending
}

// PickupShiftParams wraps the data required to submit a pickup offer.
type PickupShiftParams struct {
	Principal  Principal
	ShiftID    string
	EmployeeID string
}

// ShiftAssignment is the only legal way to change a shift's holder: a
// (shift, employee) pair handed to the scheduler. A nil EmployeeID clears
// the assignment.
type ShiftAssignment struct {
	ShiftID    string
	EmployeeID *string
}

// SwapRequest names the atomic two-shift reassignment triggered by a fully
// approved trade offer.
type SwapRequest struct {
	TradeOfferID string
	// ShiftA is the shift under the coverage request, ShiftB the offered one.
	ShiftA string
	ShiftB string
	// NewHolderA receives ShiftA (the previous holder of ShiftB), and vice
	// versa.
	NewHolderA *string
	NewHolderB *string
}

// ShiftQueryOptions narrows shift queries. A nil TimeFilter defaults to
// "starts at or after now" so past shifts are never surfaced.
type ShiftQueryOptions struct {
	EmployeeID   *string
	RequiredRole *string
	TimeFilter   *TimeRange
}

// ShiftLimits carries the configured validation bounds for shift records.
type ShiftLimits struct {
	MaxLength         time.Duration
	MaxLocationLength int
}

// DefaultShiftLimits mirrors the operational defaults: 16 hour shifts and 70
// character locations.
func DefaultShiftLimits() ShiftLimits {
	return ShiftLimits{MaxLength: 16 * time.Hour, MaxLocationLength: 70}
}

func validateShiftInput(input ShiftInput, limits ShiftLimits, vErr *ValidationError) {
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() {
		if !input.Start.Before(input.End) {
			vErr.add("period", "a shift may not start after it ends")
		} else if limits.MaxLength > 0 && input.End.Sub(input.Start) > limits.MaxLength {
			vErr.add("period", "shift length exceeds the maximum")
		}
	}
	if limits.MaxLocationLength > 0 && len(input.Location) > limits.MaxLocationLength {
		vErr.add("location", "location is too long")
	}
	if input.RequiredRole == "" {
		vErr.add("required_role", "required role is required")
	}
}
