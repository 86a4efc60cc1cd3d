package persistence

import "time"

// Shift represents a work shift record stored in persistence. EmployeeID is
// nil while the shift is unassigned; it is mutated only through
// SetShiftEmployee or ApplySwap.
type Shift struct {
	ID           string
	Start        time.Time
	End          time.Time
	Location     string
	RequiredRole string
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CoverageRequest records that a shift's holder wants it covered or traded.
// Requests are immutable after creation.
type CoverageRequest struct {
	ID           string
	ShiftID      string
	EmployeeID   string
	CoverageType string
	Note         *string
	CreatedAt    time.Time
}

// TradeOffer represents a proposed exchange of one shift for another. Each
// approval dimension holds one of the approval values declared below.
type TradeOffer struct {
	ID                string
	CoverageRequestID string
	ShiftOfferedID    string
	EmployeeApproval  string
	ManagerApproval   string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PickupOffer represents a proposal to take over an open shift. Decision is
// pending until a manager acts on the offer exactly once.
type PickupOffer struct {
	ID         string
	ShiftID    string
	EmployeeID string
	Decision   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Employee represents a directory entry used for role eligibility checks.
// Account registration and authentication live outside this service.
type Employee struct {
	ID          string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Approval dimension and state values stored on offer records.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalDenied   = "denied"

	DimensionEmployee = "employee"
	DimensionManager  = "manager"
)

// Coverage type values stored on coverage requests.
const (
	CoveragePickupOnly = "pickup_only"
	CoverageTradeOnly  = "trade_only"
	CoverageBoth       = "both"
)

// Swap names the atomic reassignment applied when a trade offer becomes fully
// approved: the coverage shift and the offered shift exchange holders.
type Swap struct {
	TradeOfferID string
	ShiftA       string
	ShiftB       string
	NewHolderA   *string
	NewHolderB   *string
}
