package application_test

import (
	"testing"

	"github.com/example/shift-exchange/internal/application"
)

func TestCoverageType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		coverageType application.CoverageType
		valid        bool
		canTrade     bool
		canPickup    bool
	}{
		{application.CoveragePickupOnly, true, false, true},
		{application.CoverageTradeOnly, true, true, false},
		{application.CoverageBoth, true, true, true},
		{application.CoverageType(""), false, false, false},
		{application.CoverageType("whenever"), false, false, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.coverageType), func(t *testing.T) {
			t.Parallel()

			if got := tc.coverageType.Valid(); got != tc.valid {
				t.Errorf("Valid() = %v, want %v", got, tc.valid)
			}
			if got := tc.coverageType.CanTrade(); got != tc.canTrade {
				t.Errorf("CanTrade() = %v, want %v", got, tc.canTrade)
			}
			if got := tc.coverageType.CanPickup(); got != tc.canPickup {
				t.Errorf("CanPickup() = %v, want %v", got, tc.canPickup)
			}
		})
	}
}

func TestTradeOfferState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		employee application.Approval
		manager  application.Approval
		want     application.TradeState
	}{
		{"both pending", application.ApprovalPending, application.ApprovalPending, application.TradeStatePending},
		{"employee approved", application.ApprovalApproved, application.ApprovalPending, application.TradeStateEmployeeApproved},
		{"manager approved", application.ApprovalPending, application.ApprovalApproved, application.TradeStateManagerApproved},
		{"both approved", application.ApprovalApproved, application.ApprovalApproved, application.TradeStateExecuted},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			offer := application.TradeOffer{EmployeeApproval: tc.employee, ManagerApproval: tc.manager}
			if got := offer.State(); got != tc.want {
				t.Fatalf("State() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPickupOfferDecided(t *testing.T) {
	t.Parallel()

	pending := application.PickupOffer{ManagerApproval: application.ApprovalPending}
	if pending.Decided() {
		t.Error("pending offer must not be decided")
	}
	approved := application.PickupOffer{ManagerApproval: application.ApprovalApproved}
	if !approved.Decided() {
		t.Error("approved offer must be decided")
	}
	denied := application.PickupOffer{ManagerApproval: application.ApprovalDenied}
	if !denied.Decided() {
		t.Error("denied offer must be decided")
	}
}

func TestShiftAssigned(t *testing.T) {
	t.Parallel()

	var shift application.Shift
	if shift.Assigned() {
		t.Error("shift without an employee reference must not be assigned")
	}
	empty := ""
	shift.EmployeeID = &empty
	if shift.Assigned() {
		t.Error("an empty employee reference must not count as assigned")
	}
	holder := "6f000000000000000000000d"
	shift.EmployeeID = &holder
	if !shift.Assigned() {
		t.Error("shift with a holder must be assigned")
	}
}
