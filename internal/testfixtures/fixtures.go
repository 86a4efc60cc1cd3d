package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/shift-exchange/internal/application"
)

var (
	employeeCounter uint64
	shiftCounter    uint64
	requestCounter  uint64
	tradeCounter    uint64
	pickupCounter   uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

func fixtureID(namespace byte, idx uint64) string {
	return fmt.Sprintf("%02x%022x", namespace, idx)
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*application.Employee)

// NewEmployeeFixture returns a deterministic directory entry with optional
// overrides.
func NewEmployeeFixture(opts ...EmployeeOption) application.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	created := referenceTime.Add(-time.Duration(idx) * time.Hour)
	employee := application.Employee{
		ID:          fixtureID(0xe0, idx),
		DisplayName: fmt.Sprintf("Employee %03d", idx),
		Role:        "cashier",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&employee)
	}
	return employee
}

// WithEmployeeRole overrides the fixture role.
func WithEmployeeRole(role string) EmployeeOption {
	return func(e *application.Employee) {
		e.Role = role
	}
}

// ----------------------------- Shift fixtures -----------------------------

// ShiftOption configures the generated shift fixture.
type ShiftOption func(*application.Shift)

// NewShiftFixture returns a deterministic future shift with optional
// overrides. Each fixture occupies its own day so fixtures never overlap
// unless a test asks them to.
func NewShiftFixture(opts ...ShiftOption) application.Shift {
	idx := atomic.AddUint64(&shiftCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	created := referenceTime.Add(-time.Hour)
	shift := application.Shift{
		ID:           fixtureID(0xf0, idx),
		Period:       application.TimeRange{Start: start, End: start.Add(8 * time.Hour)},
		Location:     "Front Desk",
		RequiredRole: "cashier",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&shift)
	}
	return shift
}

// WithShiftHolder assigns the shift to the given employee.
func WithShiftHolder(employeeID string) ShiftOption {
	return func(s *application.Shift) {
		s.EmployeeID = &employeeID
	}
}

// WithShiftPeriod overrides the shift window.
func WithShiftPeriod(start, end time.Time) ShiftOption {
	return func(s *application.Shift) {
		s.Period = application.TimeRange{Start: start, End: end}
	}
}

// WithShiftRole overrides the required role.
func WithShiftRole(role string) ShiftOption {
	return func(s *application.Shift) {
		s.RequiredRole = role
	}
}

// ------------------------ Coverage request fixtures ------------------------

// CoverageRequestOption configures the generated coverage request fixture.
type CoverageRequestOption func(*application.CoverageRequest)

// NewCoverageRequestFixture returns a deterministic coverage request targeting
// the given shift.
func NewCoverageRequestFixture(shift application.Shift, opts ...CoverageRequestOption) application.CoverageRequest {
	idx := atomic.AddUint64(&requestCounter, 1)
	employeeID := ""
	if shift.EmployeeID != nil {
		employeeID = *shift.EmployeeID
	}
	request := application.CoverageRequest{
		ID:           fixtureID(0xa0, idx),
		ShiftID:      shift.ID,
		EmployeeID:   employeeID,
		CoverageType: application.CoverageBoth,
		CreatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&request)
	}
	return request
}

// WithCoverageType overrides the coverage type.
func WithCoverageType(coverageType application.CoverageType) CoverageRequestOption {
	return func(r *application.CoverageRequest) {
		r.CoverageType = coverageType
	}
}

// -------------------------- Trade offer fixtures --------------------------

// TradeOfferOption configures the generated trade offer fixture.
type TradeOfferOption func(*application.TradeOffer)

// NewTradeOfferFixture returns a deterministic pending trade offer linking the
// coverage request with the offered shift.
func NewTradeOfferFixture(request application.CoverageRequest, offered application.Shift, opts ...TradeOfferOption) application.TradeOffer {
	idx := atomic.AddUint64(&tradeCounter, 1)
	offer := application.TradeOffer{
		ID:                fixtureID(0xb0, idx),
		CoverageRequestID: request.ID,
		ShiftOfferedID:    offered.ID,
		EmployeeApproval:  application.ApprovalPending,
		ManagerApproval:   application.ApprovalPending,
		CreatedAt:         referenceTime,
		UpdatedAt:         referenceTime,
	}
	for _, opt := range opts {
		opt(&offer)
	}
	return offer
}

// WithEmployeeApproval overrides the employee approval dimension.
func WithEmployeeApproval(approval application.Approval) TradeOfferOption {
	return func(o *application.TradeOffer) {
		o.EmployeeApproval = approval
	}
}

// WithManagerApproval overrides the manager approval dimension.
func WithManagerApproval(approval application.Approval) TradeOfferOption {
	return func(o *application.TradeOffer) {
		o.ManagerApproval = approval
	}
}

// -------------------------- Pickup offer fixtures --------------------------

// PickupOfferOption configures the generated pickup offer fixture.
type PickupOfferOption func(*application.PickupOffer)

// NewPickupOfferFixture returns a deterministic pending pickup offer from the
// employee for the shift.
func NewPickupOfferFixture(shift application.Shift, employeeID string, opts ...PickupOfferOption) application.PickupOffer {
	idx := atomic.AddUint64(&pickupCounter, 1)
	offer := application.PickupOffer{
		ID:              fixtureID(0xc0, idx),
		ShiftID:         shift.ID,
		EmployeeID:      employeeID,
		ManagerApproval: application.ApprovalPending,
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&offer)
	}
	return offer
}

// WithPickupDecision overrides the manager decision.
func WithPickupDecision(approval application.Approval) PickupOfferOption {
	return func(o *application.PickupOffer) {
		o.ManagerApproval = approval
	}
}
