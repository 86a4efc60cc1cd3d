package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/testfixtures"
)

func newSchedulerUnderTest(store *memoryStore, availability application.AvailabilityChecker) *application.SchedulerService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return application.NewSchedulerService(store, store, availability, logger)
}

func TestSchedulerService_AssignShift(t *testing.T) {
	t.Parallel()

	t.Run("assigns an open shift", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		shift := testfixtures.NewShiftFixture()
		store.seedEmployee(employee)
		store.seedShift(shift)
		scheduler := newSchedulerUnderTest(store, nil)

		if err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: shift.ID, EmployeeID: &employee.ID}); err != nil {
			t.Fatalf("AssignShift failed: %v", err)
		}
		if holder := store.holder(t, shift.ID); holder == nil || *holder != employee.ID {
			t.Fatalf("expected holder %s, got %v", employee.ID, holder)
		}
	})

	t.Run("re-applying the same assignment is a no-op", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		shift := testfixtures.NewShiftFixture(testfixtures.WithShiftHolder(employee.ID))
		store.seedEmployee(employee)
		store.seedShift(shift)
		scheduler := newSchedulerUnderTest(store, nil)

		if err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: shift.ID, EmployeeID: &employee.ID}); err != nil {
			t.Fatalf("expected idempotent re-assignment, got %v", err)
		}
	})

	t.Run("a shift held by someone else conflicts", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		holder := testfixtures.NewEmployeeFixture()
		other := testfixtures.NewEmployeeFixture()
		shift := testfixtures.NewShiftFixture(testfixtures.WithShiftHolder(holder.ID))
		store.seedShift(shift)
		scheduler := newSchedulerUnderTest(store, nil)

		err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: shift.ID, EmployeeID: &other.ID})
		if !errors.Is(err, application.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if holder := store.holder(t, shift.ID); holder == nil || *holder == other.ID {
			t.Fatal("conflicting assignment must not change the holder")
		}
	})

	t.Run("an availability rejection conflicts", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		shift := testfixtures.NewShiftFixture()
		store.seedShift(shift)
		scheduler := newSchedulerUnderTest(store, neverAvailable{})

		err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: shift.ID, EmployeeID: &employee.ID})
		if !errors.Is(err, application.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("a missing employee reference is invalid", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		shift := testfixtures.NewShiftFixture()
		store.seedShift(shift)
		scheduler := newSchedulerUnderTest(store, nil)

		if err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: shift.ID}); !errors.Is(err, application.ErrInvalidOperation) {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("an unknown shift maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		scheduler := newSchedulerUnderTest(store, nil)

		err := scheduler.AssignShift(context.Background(), application.ShiftAssignment{ShiftID: "6f0000000000000000000005", EmployeeID: &employee.ID})
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSchedulerService_UnassignShift(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	employee := testfixtures.NewEmployeeFixture()
	shift := testfixtures.NewShiftFixture(testfixtures.WithShiftHolder(employee.ID))
	store.seedShift(shift)
	scheduler := newSchedulerUnderTest(store, nil)

	if err := scheduler.UnassignShift(context.Background(), shift.ID); err != nil {
		t.Fatalf("UnassignShift failed: %v", err)
	}
	if holder := store.holder(t, shift.ID); holder != nil {
		t.Fatalf("expected cleared holder, got %v", holder)
	}

	if err := scheduler.UnassignShift(context.Background(), "6f0000000000000000000006"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown shift, got %v", err)
	}
}

func TestSchedulerService_ApplySwap(t *testing.T) {
	t.Parallel()

	t.Run("exchanges the holders through the store", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		first := testfixtures.NewEmployeeFixture()
		second := testfixtures.NewEmployeeFixture()
		shiftA := testfixtures.NewShiftFixture(testfixtures.WithShiftHolder(first.ID))
		shiftB := testfixtures.NewShiftFixture(testfixtures.WithShiftHolder(second.ID))
		request := testfixtures.NewCoverageRequestFixture(shiftA)
		offer := testfixtures.NewTradeOfferFixture(request, shiftB)
		store.seedShift(shiftA)
		store.seedShift(shiftB)
		store.seedCoverageRequest(request)
		store.seedTradeOffer(offer)
		scheduler := newSchedulerUnderTest(store, nil)

		err := scheduler.ApplySwap(context.Background(), application.SwapRequest{
			TradeOfferID: offer.ID,
			ShiftA:       shiftA.ID,
			ShiftB:       shiftB.ID,
			NewHolderA:   &second.ID,
			NewHolderB:   &first.ID,
		})
		if err != nil {
			t.Fatalf("ApplySwap failed: %v", err)
		}
		if holder := store.holder(t, shiftA.ID); holder == nil || *holder != second.ID {
			t.Fatalf("expected shift A held by %s, got %v", second.ID, holder)
		}
		if holder := store.holder(t, shiftB.ID); holder == nil || *holder != first.ID {
			t.Fatalf("expected shift B held by %s, got %v", first.ID, holder)
		}
	})

	t.Run("a consumed offer maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		scheduler := newSchedulerUnderTest(store, nil)

		err := scheduler.ApplySwap(context.Background(), application.SwapRequest{TradeOfferID: "6f0000000000000000000007"})
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

type neverAvailable struct{}

func (neverAvailable) IsEmployeeSchedulableForShift(context.Context, string, string) (bool, error) {
	return false, nil
}
