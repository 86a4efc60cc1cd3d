package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
	"github.com/example/shift-exchange/internal/testfixtures"
)

func seedEmployee(t *testing.T, harness *testfixtures.SQLiteHarness, id, role string) persistence.Employee {
	t.Helper()
	now := testfixtures.ReferenceTime()
	employee := persistence.Employee{
		ID:          id,
		DisplayName: "Employee " + id[len(id)-4:],
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := harness.Employees.CreateEmployee(context.Background(), employee); err != nil {
		t.Fatalf("failed to seed employee %s: %v", id, err)
	}
	return employee
}

func seedShift(t *testing.T, harness *testfixtures.SQLiteHarness, id string, holder *string, dayOffset int) persistence.Shift {
	t.Helper()
	now := testfixtures.ReferenceTime()
	start := now.Add(time.Duration(dayOffset) * 24 * time.Hour)
	shift := persistence.Shift{
		ID:           id,
		Start:        start,
		End:          start.Add(8 * time.Hour),
		Location:     "Front Desk",
		RequiredRole: "cashier",
		EmployeeID:   holder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := harness.Shifts.CreateShift(context.Background(), shift); err != nil {
		t.Fatalf("failed to seed shift %s: %v", id, err)
	}
	return shift
}

// TestTradeLifecycle drives a whole trade through the repository interfaces:
// coverage request, offer, both approvals and the holder swap.
func TestTradeLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)
	defer harness.Close()

	requester := seedEmployee(t, harness, "e10000000000000000000001", "cashier")
	offerer := seedEmployee(t, harness, "e10000000000000000000002", "cashier")
	requested := seedShift(t, harness, "f10000000000000000000001", &requester.ID, 1)
	offered := seedShift(t, harness, "f10000000000000000000002", &offerer.ID, 2)

	now := testfixtures.ReferenceTime()
	request := persistence.CoverageRequest{
		ID:           "a10000000000000000000001",
		ShiftID:      requested.ID,
		EmployeeID:   requester.ID,
		CoverageType: persistence.CoverageTradeOnly,
		CreatedAt:    now,
	}
	if err := harness.CoverageRequests.CreateCoverageRequest(ctx, request); err != nil {
		t.Fatalf("CreateCoverageRequest failed: %v", err)
	}

	offer := persistence.TradeOffer{
		ID:                "b10000000000000000000001",
		CoverageRequestID: request.ID,
		ShiftOfferedID:    offered.ID,
		EmployeeApproval:  persistence.ApprovalPending,
		ManagerApproval:   persistence.ApprovalPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := harness.TradeOffers.CreateTradeOffer(ctx, offer); err != nil {
		t.Fatalf("CreateTradeOffer failed: %v", err)
	}

	first, err := harness.TradeOffers.ApproveTradeOffer(ctx, offer.ID, persistence.DimensionEmployee)
	if err != nil {
		t.Fatalf("first approval failed: %v", err)
	}
	if first.EmployeeApproval != persistence.ApprovalApproved || first.ManagerApproval != persistence.ApprovalPending {
		t.Fatalf("unexpected post-image after first approval: %#v", first)
	}

	second, err := harness.TradeOffers.ApproveTradeOffer(ctx, offer.ID, persistence.DimensionManager)
	if err != nil {
		t.Fatalf("second approval failed: %v", err)
	}
	if second.EmployeeApproval != persistence.ApprovalApproved || second.ManagerApproval != persistence.ApprovalApproved {
		t.Fatalf("unexpected post-image after second approval: %#v", second)
	}

	swap := persistence.Swap{
		TradeOfferID: offer.ID,
		ShiftA:       requested.ID,
		ShiftB:       offered.ID,
		NewHolderA:   &offerer.ID,
		NewHolderB:   &requester.ID,
	}
	if err := harness.Swaps.ApplySwap(ctx, swap); err != nil {
		t.Fatalf("ApplySwap failed: %v", err)
	}

	shiftA, err := harness.Shifts.GetShift(ctx, requested.ID)
	if err != nil {
		t.Fatalf("GetShift failed: %v", err)
	}
	if shiftA.EmployeeID == nil || *shiftA.EmployeeID != offerer.ID {
		t.Fatalf("expected requested shift held by the offerer, got %#v", shiftA.EmployeeID)
	}
	shiftB, err := harness.Shifts.GetShift(ctx, offered.ID)
	if err != nil {
		t.Fatalf("GetShift failed: %v", err)
	}
	if shiftB.EmployeeID == nil || *shiftB.EmployeeID != requester.ID {
		t.Fatalf("expected offered shift held by the requester, got %#v", shiftB.EmployeeID)
	}

	// The swap consumed the offer; replaying it must not move the shifts again.
	if err := harness.Swaps.ApplySwap(ctx, swap); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on replay, got %v", err)
	}
	if _, err := harness.TradeOffers.GetTradeOffer(ctx, offer.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected the executed offer to be gone, got %v", err)
	}
}

// TestPickupLifecycle drives a pickup offer through its single-decision flow.
func TestPickupLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)
	defer harness.Close()

	employee := seedEmployee(t, harness, "e10000000000000000000003", "cashier")
	shift := seedShift(t, harness, "f10000000000000000000003", nil, 1)

	now := testfixtures.ReferenceTime()
	offer := persistence.PickupOffer{
		ID:         "c10000000000000000000001",
		ShiftID:    shift.ID,
		EmployeeID: employee.ID,
		Decision:   persistence.ApprovalPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := harness.PickupOffers.CreatePickupOffer(ctx, offer); err != nil {
		t.Fatalf("CreatePickupOffer failed: %v", err)
	}

	live, err := harness.PickupOffers.CountLivePickupOffers(ctx, shift.ID, employee.ID)
	if err != nil {
		t.Fatalf("CountLivePickupOffers failed: %v", err)
	}
	if live != 1 {
		t.Fatalf("expected one live offer, got %d", live)
	}

	decided, err := harness.PickupOffers.DecidePickupOffer(ctx, offer.ID, true)
	if err != nil {
		t.Fatalf("DecidePickupOffer failed: %v", err)
	}
	if decided.Decision != persistence.ApprovalApproved {
		t.Fatalf("expected approved decision, got %q", decided.Decision)
	}

	if err := harness.Shifts.SetShiftEmployee(ctx, shift.ID, &employee.ID); err != nil {
		t.Fatalf("SetShiftEmployee failed: %v", err)
	}
	assigned, err := harness.Shifts.GetShift(ctx, shift.ID)
	if err != nil {
		t.Fatalf("GetShift failed: %v", err)
	}
	if assigned.EmployeeID == nil || *assigned.EmployeeID != employee.ID {
		t.Fatalf("expected shift assigned to %s, got %#v", employee.ID, assigned.EmployeeID)
	}

	// Decided offers are no longer live and cannot be decided again.
	live, err = harness.PickupOffers.CountLivePickupOffers(ctx, shift.ID, employee.ID)
	if err != nil {
		t.Fatalf("CountLivePickupOffers failed: %v", err)
	}
	if live != 0 {
		t.Fatalf("expected no live offers after the decision, got %d", live)
	}
	if _, err := harness.PickupOffers.DecidePickupOffer(ctx, offer.ID, false); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on a second decision, got %v", err)
	}
}
