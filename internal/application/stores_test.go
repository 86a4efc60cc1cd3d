package application_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/persistence"
	"github.com/example/shift-exchange/internal/testfixtures"
)

// memoryStore backs the service tests with map semantics that mirror the real
// persistence layer: persistence sentinels for missing records, conditional
// pickup decisions and an offer-consuming atomic swap.
type memoryStore struct {
	mu        sync.Mutex
	shifts    map[string]application.Shift
	employees map[string]application.Employee
	requests  map[string]application.CoverageRequest
	trades    map[string]application.TradeOffer
	pickups   map[string]application.PickupOffer
	swapCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		shifts:    make(map[string]application.Shift),
		employees: make(map[string]application.Employee),
		requests:  make(map[string]application.CoverageRequest),
		trades:    make(map[string]application.TradeOffer),
		pickups:   make(map[string]application.PickupOffer),
	}
}

func (s *memoryStore) CreateShift(_ context.Context, shift application.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[shift.ID]; ok {
		return fmt.Errorf("%w: shifts.id", persistence.ErrDuplicate)
	}
	s.shifts[shift.ID] = shift
	return nil
}

func (s *memoryStore) GetShift(_ context.Context, id string) (application.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return application.Shift{}, persistence.ErrNotFound
	}
	return shift, nil
}

func (s *memoryStore) ListShifts(_ context.Context, options application.ShiftQueryOptions) ([]application.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]application.Shift, 0)
	for _, shift := range s.shifts {
		if matchesOptions(shift, options) {
			matched = append(matched, shift)
		}
	}
	return matched, nil
}

func (s *memoryStore) ListOpenShifts(_ context.Context, options application.ShiftQueryOptions) ([]application.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]application.Shift, 0)
	for _, shift := range s.shifts {
		if !matchesOptions(shift, options) {
			continue
		}
		if !shift.Assigned() || s.coveredForPickupLocked(shift.ID) {
			matched = append(matched, shift)
		}
	}
	return matched, nil
}

func (s *memoryStore) coveredForPickupLocked(shiftID string) bool {
	for _, request := range s.requests {
		if request.ShiftID == shiftID && request.CanPickup() {
			return true
		}
	}
	return false
}

func matchesOptions(shift application.Shift, options application.ShiftQueryOptions) bool {
	if options.EmployeeID != nil {
		if shift.EmployeeID == nil || *shift.EmployeeID != *options.EmployeeID {
			return false
		}
	}
	if options.RequiredRole != nil && shift.RequiredRole != *options.RequiredRole {
		return false
	}
	if options.TimeFilter != nil {
		if shift.Period.Start.Before(options.TimeFilter.Start) {
			return false
		}
		if !options.TimeFilter.End.IsZero() && !shift.Period.Start.Before(options.TimeFilter.End) {
			return false
		}
	}
	return true
}

func (s *memoryStore) SetShiftEmployee(_ context.Context, shiftID string, employeeID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[shiftID]
	if !ok {
		return persistence.ErrNotFound
	}
	shift.EmployeeID = employeeID
	s.shifts[shiftID] = shift
	return nil
}

func (s *memoryStore) CreateEmployee(_ context.Context, employee application.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[employee.ID]; ok {
		return fmt.Errorf("%w: employees.id", persistence.ErrDuplicate)
	}
	s.employees[employee.ID] = employee
	return nil
}

func (s *memoryStore) GetEmployee(_ context.Context, id string) (application.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee, ok := s.employees[id]
	if !ok {
		return application.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

func (s *memoryStore) CreateCoverageRequest(_ context.Context, request application.CoverageRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shifts[request.ShiftID]; !ok {
		return fmt.Errorf("%w: coverage_requests.shift_id", persistence.ErrForeignKeyViolation)
	}
	s.requests[request.ID] = request
	return nil
}

func (s *memoryStore) GetCoverageRequest(_ context.Context, id string) (application.CoverageRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return application.CoverageRequest{}, persistence.ErrNotFound
	}
	return request, nil
}

func (s *memoryStore) CreateTradeOffer(_ context.Context, offer application.TradeOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[offer.ID] = offer
	return nil
}

func (s *memoryStore) ApproveTradeOffer(_ context.Context, id string, dimension application.ApprovalDimension) (application.TradeOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.trades[id]
	if !ok {
		return application.TradeOffer{}, persistence.ErrNotFound
	}
	switch dimension {
	case application.DimensionEmployee:
		offer.EmployeeApproval = application.ApprovalApproved
	case application.DimensionManager:
		offer.ManagerApproval = application.ApprovalApproved
	default:
		return application.TradeOffer{}, fmt.Errorf("%w: unknown approval dimension %q", persistence.ErrConstraintViolation, dimension)
	}
	s.trades[id] = offer
	return offer, nil
}

func (s *memoryStore) DeleteTradeOffer(_ context.Context, id string) (application.TradeOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.trades[id]
	if !ok {
		return application.TradeOffer{}, persistence.ErrNotFound
	}
	delete(s.trades, id)
	return offer, nil
}

func (s *memoryStore) CreatePickupOffer(_ context.Context, offer application.PickupOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickups[offer.ID] = offer
	return nil
}

func (s *memoryStore) GetPickupOffer(_ context.Context, id string) (application.PickupOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.pickups[id]
	if !ok {
		return application.PickupOffer{}, persistence.ErrNotFound
	}
	return offer, nil
}

func (s *memoryStore) CountLivePickupOffers(_ context.Context, shiftID, employeeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, offer := range s.pickups {
		if offer.ShiftID == shiftID && offer.EmployeeID == employeeID && !offer.Decided() {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) DecidePickupOffer(_ context.Context, id string, approved bool) (application.PickupOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.pickups[id]
	if !ok || offer.Decided() {
		return application.PickupOffer{}, persistence.ErrNotFound
	}
	if approved {
		offer.ManagerApproval = application.ApprovalApproved
	} else {
		offer.ManagerApproval = application.ApprovalDenied
	}
	s.pickups[id] = offer
	return offer, nil
}

// ApplySwap consumes the trade offer record and exchanges the two holders.
// A missing offer means another call already executed the swap.
func (s *memoryStore) ApplySwap(_ context.Context, swap application.SwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trades[swap.TradeOfferID]; !ok {
		return persistence.ErrNotFound
	}
	shiftA, okA := s.shifts[swap.ShiftA]
	shiftB, okB := s.shifts[swap.ShiftB]
	if !okA || !okB {
		return fmt.Errorf("%w: shift", persistence.ErrNotFound)
	}
	delete(s.trades, swap.TradeOfferID)
	shiftA.EmployeeID = swap.NewHolderA
	shiftB.EmployeeID = swap.NewHolderB
	s.shifts[swap.ShiftA] = shiftA
	s.shifts[swap.ShiftB] = shiftB
	s.swapCalls++
	return nil
}

func (s *memoryStore) appliedSwaps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swapCalls
}

func (s *memoryStore) holder(t *testing.T, shiftID string) *string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[shiftID]
	if !ok {
		t.Fatalf("shift %s not found in store", shiftID)
	}
	return shift.EmployeeID
}

func (s *memoryStore) seedShift(shift application.Shift) {
	s.mu.Lock()
	s.shifts[shift.ID] = shift
	s.mu.Unlock()
}

func (s *memoryStore) seedEmployee(employee application.Employee) {
	s.mu.Lock()
	s.employees[employee.ID] = employee
	s.mu.Unlock()
}

func (s *memoryStore) seedCoverageRequest(request application.CoverageRequest) {
	s.mu.Lock()
	s.requests[request.ID] = request
	s.mu.Unlock()
}

func (s *memoryStore) seedTradeOffer(offer application.TradeOffer) {
	s.mu.Lock()
	s.trades[offer.ID] = offer
	s.mu.Unlock()
}

func (s *memoryStore) seedPickupOffer(offer application.PickupOffer) {
	s.mu.Lock()
	s.pickups[offer.ID] = offer
	s.mu.Unlock()
}

// recordingNotifier captures dispatched events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []application.NotificationEvent
}

func (n *recordingNotifier) Notify(_ context.Context, event application.NotificationEvent) {
	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()
}

func (n *recordingNotifier) kinds() []application.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]application.NotificationKind, 0, len(n.events))
	for _, event := range n.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func (n *recordingNotifier) lastKind() application.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return ""
	}
	return n.events[len(n.events)-1].Kind
}

// traderEnv wires the full service stack onto one in-memory store, the way
// the binary wires it onto SQLite.
type traderEnv struct {
	store     *memoryStore
	notifier  *recordingNotifier
	clock     *testfixtures.Clock
	scheduler *application.SchedulerService
	trader    *application.TraderService
}

func newTraderEnv(t *testing.T) *traderEnv {
	t.Helper()

	store := newMemoryStore()
	notifier := &recordingNotifier{}
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator(0xd0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	availability := application.NewAvailabilityService(store, store, logger)
	scheduler := application.NewSchedulerService(store, store, availability, logger)
	trader := application.NewTraderService(
		store, store, store, store,
		availability, scheduler, notifier,
		ids.NextFunc(), clock.NowFunc(), logger,
	)

	return &traderEnv{
		store:     store,
		notifier:  notifier,
		clock:     clock,
		scheduler: scheduler,
		trader:    trader,
	}
}
