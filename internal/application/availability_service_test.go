package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/testfixtures"
)

func newAvailabilityUnderTest(store *memoryStore) *application.AvailabilityService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return application.NewAvailabilityService(store, store, logger)
}

func TestAvailabilityService_IsEmployeeSchedulableForShift(t *testing.T) {
	t.Parallel()

	t.Run("a free employee with the required role is schedulable", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		shift := testfixtures.NewShiftFixture()
		store.seedEmployee(employee)
		store.seedShift(shift)

		ok, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), employee.ID, shift.ID)
		if err != nil {
			t.Fatalf("availability check failed: %v", err)
		}
		if !ok {
			t.Fatal("expected the employee to be schedulable")
		}
	})

	t.Run("an employee missing from the directory is not schedulable", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		shift := testfixtures.NewShiftFixture()
		store.seedShift(shift)

		ok, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), "6f0000000000000000000008", shift.ID)
		if err != nil {
			t.Fatalf("expected no error for an unknown employee, got %v", err)
		}
		if ok {
			t.Fatal("unknown employees must not be schedulable")
		}
	})

	t.Run("a role mismatch is not schedulable", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		nurse := testfixtures.NewEmployeeFixture(testfixtures.WithEmployeeRole("nurse"))
		shift := testfixtures.NewShiftFixture(testfixtures.WithShiftRole("cashier"))
		store.seedEmployee(nurse)
		store.seedShift(shift)

		ok, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), nurse.ID, shift.ID)
		if err != nil {
			t.Fatalf("availability check failed: %v", err)
		}
		if ok {
			t.Fatal("role mismatch must not be schedulable")
		}
	})

	t.Run("an overlapping held shift is not schedulable", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		candidate := testfixtures.NewShiftFixture()
		overlapping := testfixtures.NewShiftFixture(
			testfixtures.WithShiftHolder(employee.ID),
			testfixtures.WithShiftPeriod(candidate.Period.Start.Add(4*time.Hour), candidate.Period.End.Add(4*time.Hour)),
		)
		store.seedEmployee(employee)
		store.seedShift(candidate)
		store.seedShift(overlapping)

		ok, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), employee.ID, candidate.ID)
		if err != nil {
			t.Fatalf("availability check failed: %v", err)
		}
		if ok {
			t.Fatal("overlapping shifts must not be schedulable")
		}
	})

	t.Run("back-to-back shifts do not conflict", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		candidate := testfixtures.NewShiftFixture()
		adjacent := testfixtures.NewShiftFixture(
			testfixtures.WithShiftHolder(employee.ID),
			testfixtures.WithShiftPeriod(candidate.Period.End, candidate.Period.End.Add(8*time.Hour)),
		)
		store.seedEmployee(employee)
		store.seedShift(candidate)
		store.seedShift(adjacent)

		ok, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), employee.ID, candidate.ID)
		if err != nil {
			t.Fatalf("availability check failed: %v", err)
		}
		if !ok {
			t.Fatal("adjacent shifts must be schedulable")
		}
	})

	t.Run("a missing shift is an error", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		employee := testfixtures.NewEmployeeFixture()
		store.seedEmployee(employee)

		_, err := newAvailabilityUnderTest(store).IsEmployeeSchedulableForShift(context.Background(), employee.ID, "6f0000000000000000000009")
		if !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
