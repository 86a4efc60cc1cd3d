package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// TraderShiftSource captures the shift reads the negotiation engine needs.
type TraderShiftSource interface {
	GetShift(ctx context.Context, id string) (Shift, error)
}

// CoverageRequestStore persists coverage requests.
type CoverageRequestStore interface {
	CreateCoverageRequest(ctx context.Context, request CoverageRequest) error
	GetCoverageRequest(ctx context.Context, id string) (CoverageRequest, error)
}

// TradeOfferStore persists trade offers. ApproveTradeOffer sets exactly one
// approval dimension and returns the post-update record, so the caller
// observes the combined state the store committed.
type TradeOfferStore interface {
	CreateTradeOffer(ctx context.Context, offer TradeOffer) error
	ApproveTradeOffer(ctx context.Context, id string, dimension ApprovalDimension) (TradeOffer, error)
	DeleteTradeOffer(ctx context.Context, id string) (TradeOffer, error)
}

// PickupOfferStore persists pickup offers. DecidePickupOffer only succeeds
// while the offer is still pending.
type PickupOfferStore interface {
	CreatePickupOffer(ctx context.Context, offer PickupOffer) error
	GetPickupOffer(ctx context.Context, id string) (PickupOffer, error)
	CountLivePickupOffers(ctx context.Context, shiftID, employeeID string) (int, error)
	DecidePickupOffer(ctx context.Context, id string, approved bool) (PickupOffer, error)
}

// ShiftScheduler is the trader's view of the assignment writer.
type ShiftScheduler interface {
	AssignShift(ctx context.Context, assignment ShiftAssignment) error
	ApplySwap(ctx context.Context, swap SwapRequest) error
}

// TraderService orchestrates the coverage-request / trade-offer / pickup-offer
// workflow: it validates preconditions, persists offers, applies approvals and
// triggers the atomic two-shift swap on dual approval.
type TraderService struct {
	shifts       TraderShiftSource
	coverage     CoverageRequestStore
	trades       TradeOfferStore
	pickups      PickupOfferStore
	availability AvailabilityChecker
	scheduler    ShiftScheduler
	notifier     Notifier
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewTraderService wires dependencies for the negotiation engine.
func NewTraderService(
	shifts TraderShiftSource,
	coverage CoverageRequestStore,
	trades TradeOfferStore,
	pickups PickupOfferStore,
	availability AvailabilityChecker,
	scheduler ShiftScheduler,
	notifier Notifier,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *TraderService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TraderService{
		shifts:       shifts,
		coverage:     coverage,
		trades:       trades,
		pickups:      pickups,
		availability: availability,
		scheduler:    scheduler,
		notifier:     notifier,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// RequestCoverage opens a coverage request for a shift that has not started
// yet. The shift itself is untouched.
func (s *TraderService) RequestCoverage(ctx context.Context, params RequestCoverageParams) (CoverageRequest, error) {
	if s == nil || s.shifts == nil || s.coverage == nil {
		return CoverageRequest{}, fmt.Errorf("trader service not configured")
	}

	vErr := &ValidationError{}
	if !params.CoverageType.Valid() {
		vErr.add("coverage_type", "coverage type must be pickup_only, trade_only or both")
	}
	employeeID := params.Principal.EmployeeID
	if employeeID == "" {
		vErr.add("employee_id", "requesting employee is required")
	}
	if vErr.HasErrors() {
		return CoverageRequest{}, vErr
	}

	shift, err := s.shifts.GetShift(ctx, params.ShiftID)
	if err != nil {
		return CoverageRequest{}, mapStoreError(err)
	}
	if !shift.Period.Start.After(s.now()) {
		return CoverageRequest{}, fmt.Errorf("%w: shift has already started; cannot request coverage", ErrInvalidOperation)
	}

	request := CoverageRequest{
		ID:           s.idGenerator(),
		ShiftID:      shift.ID,
		EmployeeID:   employeeID,
		CoverageType: params.CoverageType,
		Note:         params.Note,
		CreatedAt:    s.now(),
	}
	if err := s.coverage.CreateCoverageRequest(ctx, request); err != nil {
		return CoverageRequest{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "trader", "RequestCoverage",
		"coverage_request_id", request.ID, "shift_id", shift.ID).
		InfoContext(ctx, "coverage requested")
	s.notify(ctx, NotificationEvent{Kind: NotifyCoverageRequested, ShiftID: shift.ID, OfferID: request.ID})
	return request, nil
}

// OfferTrade submits a trade against an open coverage request. The request
// must permit trades and the offered shift must not have started.
func (s *TraderService) OfferTrade(ctx context.Context, params OfferTradeParams) (TradeOffer, error) {
	if s == nil || s.shifts == nil || s.coverage == nil || s.trades == nil {
		return TradeOffer{}, fmt.Errorf("trader service not configured")
	}

	offeredShift, err := s.shifts.GetShift(ctx, params.ShiftOfferedID)
	if err != nil {
		return TradeOffer{}, mapStoreError(err)
	}
	request, err := s.coverage.GetCoverageRequest(ctx, params.CoverageRequestID)
	if err != nil {
		return TradeOffer{}, mapStoreError(err)
	}

	if !offeredShift.Period.Start.After(s.now()) {
		return TradeOffer{}, fmt.Errorf("%w: cannot offer a trade for a shift that has already started", ErrInvalidOperation)
	}
	if !request.CanTrade() {
		return TradeOffer{}, fmt.Errorf("%w: coverage request does not permit trades", ErrInvalidOperation)
	}

	createdAt := s.now()
	offer := TradeOffer{
		ID:                s.idGenerator(),
		CoverageRequestID: request.ID,
		ShiftOfferedID:    offeredShift.ID,
		EmployeeApproval:  ApprovalPending,
		ManagerApproval:   ApprovalPending,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	if err := s.trades.CreateTradeOffer(ctx, offer); err != nil {
		return TradeOffer{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "trader", "OfferTrade",
		"trade_offer_id", offer.ID, "coverage_request_id", request.ID).
		InfoContext(ctx, "trade offered")
	s.notify(ctx, NotificationEvent{Kind: NotifyTradeOffered, ShiftID: request.ShiftID, OfferID: offer.ID})
	return offer, nil
}

// PickupShift submits an offer to take over an open shift. The employee must
// pass the availability check and must not already have a live offer for the
// same shift.
func (s *TraderService) PickupShift(ctx context.Context, params PickupShiftParams) (PickupOffer, error) {
	if s == nil || s.shifts == nil || s.pickups == nil || s.availability == nil {
		return PickupOffer{}, fmt.Errorf("trader service not configured")
	}

	employeeID := params.EmployeeID
	if employeeID == "" {
		employeeID = params.Principal.EmployeeID
	}
	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee is required")
		return PickupOffer{}, vErr
	}

	shift, err := s.shifts.GetShift(ctx, params.ShiftID)
	if err != nil {
		return PickupOffer{}, mapStoreError(err)
	}

	ok, err := s.availability.IsEmployeeSchedulableForShift(ctx, employeeID, shift.ID)
	if err != nil {
		return PickupOffer{}, err
	}
	if !ok {
		return PickupOffer{}, fmt.Errorf("%w: shift cannot be picked up by this employee", ErrConflict)
	}

	count, err := s.pickups.CountLivePickupOffers(ctx, shift.ID, employeeID)
	if err != nil {
		return PickupOffer{}, mapStoreError(err)
	}
	if count > 0 {
		return PickupOffer{}, fmt.Errorf("%w: duplicate pickup request", ErrInvalidOperation)
	}

	createdAt := s.now()
	offer := PickupOffer{
		ID:              s.idGenerator(),
		ShiftID:         shift.ID,
		EmployeeID:      employeeID,
		ManagerApproval: ApprovalPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := s.pickups.CreatePickupOffer(ctx, offer); err != nil {
		return PickupOffer{}, mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "trader", "PickupShift",
		"pickup_offer_id", offer.ID, "shift_id", shift.ID).
		InfoContext(ctx, "pickup offered")
	s.notify(ctx, NotificationEvent{Kind: NotifyPickupOffered, ShiftID: shift.ID, OfferID: offer.ID})
	return offer, nil
}

// ApproveTrade records one approval dimension on a trade offer. Employee and
// manager approvals commute; whichever call flips the second dimension also
// executes the swap, exactly once. Approving an offer that no longer exists,
// including one already executed or denied, fails with ErrNotFound.
func (s *TraderService) ApproveTrade(ctx context.Context, offerID string, isManager bool) (TradeOffer, error) {
	if s == nil || s.trades == nil {
		return TradeOffer{}, fmt.Errorf("trader service not configured")
	}

	dimension := DimensionEmployee
	if isManager {
		dimension = DimensionManager
	}

	updated, err := s.trades.ApproveTradeOffer(ctx, offerID, dimension)
	if err != nil {
		return TradeOffer{}, mapStoreError(err)
	}

	logger := serviceLogger(ctx, s.logger, "trader", "ApproveTrade",
		"trade_offer_id", updated.ID, "dimension", string(dimension))

	if updated.State() != TradeStateExecuted {
		logger.InfoContext(ctx, "trade approval recorded", "state", string(updated.State()))
		s.notify(ctx, NotificationEvent{Kind: NotifyTradeApproved, OfferID: updated.ID})
		return updated, nil
	}

	if err := s.executeTrade(ctx, updated); err != nil {
		return TradeOffer{}, err
	}
	logger.InfoContext(ctx, "trade executed")
	s.notify(ctx, NotificationEvent{Kind: NotifyTradeExecuted, OfferID: updated.ID})
	return updated, nil
}

// DenyTrade removes the offer; denial from either side is terminal.
func (s *TraderService) DenyTrade(ctx context.Context, offerID string, isManager bool) error {
	if s == nil || s.trades == nil {
		return fmt.Errorf("trader service not configured")
	}

	deleted, err := s.trades.DeleteTradeOffer(ctx, offerID)
	if err != nil {
		return mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "trader", "DenyTrade",
		"trade_offer_id", deleted.ID, "by_manager", isManager).
		InfoContext(ctx, "trade denied")
	s.notify(ctx, NotificationEvent{Kind: NotifyTradeDenied, OfferID: deleted.ID})
	return nil
}

// ApprovePickup records the manager approval and assigns the shift. A second
// act on an already-decided offer fails with ErrInvalidOperation.
func (s *TraderService) ApprovePickup(ctx context.Context, offerID string) (PickupOffer, error) {
	updated, err := s.decidePickup(ctx, offerID, true)
	if err != nil {
		return PickupOffer{}, err
	}

	if s.scheduler == nil {
		return PickupOffer{}, fmt.Errorf("trader service not configured")
	}
	assignee := updated.EmployeeID
	if err := s.scheduler.AssignShift(ctx, ShiftAssignment{ShiftID: updated.ShiftID, EmployeeID: &assignee}); err != nil {
		return PickupOffer{}, err
	}

	serviceLogger(ctx, s.logger, "trader", "ApprovePickup",
		"pickup_offer_id", updated.ID, "shift_id", updated.ShiftID).
		InfoContext(ctx, "pickup approved")
	s.notify(ctx, NotificationEvent{Kind: NotifyPickupApproved, ShiftID: updated.ShiftID, OfferID: updated.ID})
	return updated, nil
}

// DenyPickup records the manager denial; the shift remains untouched.
func (s *TraderService) DenyPickup(ctx context.Context, offerID string) (PickupOffer, error) {
	updated, err := s.decidePickup(ctx, offerID, false)
	if err != nil {
		return PickupOffer{}, err
	}

	serviceLogger(ctx, s.logger, "trader", "DenyPickup",
		"pickup_offer_id", updated.ID, "shift_id", updated.ShiftID).
		InfoContext(ctx, "pickup denied")
	s.notify(ctx, NotificationEvent{Kind: NotifyPickupDenied, ShiftID: updated.ShiftID, OfferID: updated.ID})
	return updated, nil
}

func (s *TraderService) decidePickup(ctx context.Context, offerID string, approved bool) (PickupOffer, error) {
	if s == nil || s.pickups == nil {
		return PickupOffer{}, fmt.Errorf("trader service not configured")
	}

	offer, err := s.pickups.GetPickupOffer(ctx, offerID)
	if err != nil {
		return PickupOffer{}, mapStoreError(err)
	}
	if offer.Decided() {
		return PickupOffer{}, fmt.Errorf("%w: pickup offer already acted on; submit a new request", ErrInvalidOperation)
	}

	updated, err := s.pickups.DecidePickupOffer(ctx, offerID, approved)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(mapStoreError(err), ErrNotFound) {
		return PickupOffer{}, mapStoreError(err)
	}

	// The conditional update matched no pending row: either the offer vanished
	// or a concurrent call decided it first.
	if _, gerr := s.pickups.GetPickupOffer(ctx, offerID); gerr != nil {
		return PickupOffer{}, mapStoreError(gerr)
	}
	return PickupOffer{}, fmt.Errorf("%w: pickup offer already acted on; submit a new request", ErrInvalidOperation)
}

// executeTrade performs the swap for a fully approved offer. All lookups
// happen before any assignment; a missing record aborts the whole operation.
// The swap itself is one atomic store operation keyed on the offer record, so
// concurrent triggers execute it at most once.
func (s *TraderService) executeTrade(ctx context.Context, offer TradeOffer) error {
	if s.coverage == nil || s.scheduler == nil {
		return fmt.Errorf("trader service not configured")
	}

	request, err := s.coverage.GetCoverageRequest(ctx, offer.CoverageRequestID)
	if err != nil {
		return mapStoreError(err)
	}
	requestedShift, err := s.shifts.GetShift(ctx, request.ShiftID)
	if err != nil {
		return mapStoreError(err)
	}
	offeredShift, err := s.shifts.GetShift(ctx, offer.ShiftOfferedID)
	if err != nil {
		return mapStoreError(err)
	}

	swap := SwapRequest{
		TradeOfferID: offer.ID,
		ShiftA:       requestedShift.ID,
		ShiftB:       offeredShift.ID,
		NewHolderA:   offeredShift.EmployeeID,
		NewHolderB:   requestedShift.EmployeeID,
	}
	if err := s.scheduler.ApplySwap(ctx, swap); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Another approval call consumed the offer and executed the swap.
			serviceLogger(ctx, s.logger, "trader", "ApproveTrade", "trade_offer_id", offer.ID).
				InfoContext(ctx, "swap already executed by a concurrent approval")
			return nil
		}
		return err
	}
	return nil
}

func (s *TraderService) notify(ctx context.Context, event NotificationEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, event)
}
