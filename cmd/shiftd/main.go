package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/shift-exchange/internal/application"
	"github.com/example/shift-exchange/internal/config"
	httptransport "github.com/example/shift-exchange/internal/http"
	"github.com/example/shift-exchange/internal/identity"
	"github.com/example/shift-exchange/internal/persistence"
	"github.com/example/shift-exchange/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := identity.New
	now := time.Now

	shiftStore := newShiftStoreAdapter(storage)
	employeeStore := newEmployeeStoreAdapter(storage)
	coverageStore := newCoverageStoreAdapter(storage)
	tradeStore := newTradeStoreAdapter(storage)
	pickupStore := newPickupStoreAdapter(storage)
	swapStore := newSwapStoreAdapter(storage)

	limits := application.ShiftLimits{
		MaxLength:         cfg.MaxShiftLength,
		MaxLocationLength: cfg.MaxLocationLength,
	}

	availability := application.NewAvailabilityService(shiftStore, employeeStore, logger)
	scheduler := application.NewSchedulerService(shiftStore, swapStore, availability, logger)
	trader := application.NewTraderService(
		shiftStore,
		coverageStore,
		tradeStore,
		pickupStore,
		availability,
		scheduler,
		application.LogNotifier{Logger: logger},
		idGenerator,
		now,
		logger,
	)
	shiftService := application.NewShiftService(shiftStore, employeeStore, limits, idGenerator, now, logger)
	queryService := application.NewQueryService(shiftStore, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Shifts:           httptransport.NewShiftHandler(shiftService, queryService, logger),
		Employees:        httptransport.NewEmployeeHandler(shiftService, logger),
		CoverageRequests: httptransport.NewCoverageRequestHandler(trader, logger),
		TradeOffers:      httptransport.NewTradeOfferHandler(trader, logger),
		PickupOffers:     httptransport.NewPickupOfferHandler(trader, logger),
		Health:           httptransport.NewHealthHandler(storage, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequirePrincipal(logger, "/healthz"),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("shift exchange API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// --- persistence adapters ---
//
// The application layer speaks its own model types; these adapters translate
// to and from the persistence records stored by SQLite.

type shiftStoreAdapter struct {
	storage *sqlite.Storage
}

func newShiftStoreAdapter(storage *sqlite.Storage) *shiftStoreAdapter {
	return &shiftStoreAdapter{storage: storage}
}

func (a *shiftStoreAdapter) CreateShift(ctx context.Context, shift application.Shift) error {
	return a.storage.CreateShift(ctx, toPersistenceShift(shift))
}

func (a *shiftStoreAdapter) GetShift(ctx context.Context, id string) (application.Shift, error) {
	stored, err := a.storage.GetShift(ctx, id)
	if err != nil {
		return application.Shift{}, err
	}
	return toApplicationShift(stored), nil
}

func (a *shiftStoreAdapter) ListShifts(ctx context.Context, options application.ShiftQueryOptions) ([]application.Shift, error) {
	shifts, err := a.storage.ListShifts(ctx, toShiftFilter(options))
	if err != nil {
		return nil, err
	}
	return toApplicationShifts(shifts), nil
}

func (a *shiftStoreAdapter) ListOpenShifts(ctx context.Context, options application.ShiftQueryOptions) ([]application.Shift, error) {
	shifts, err := a.storage.ListOpenShifts(ctx, toShiftFilter(options))
	if err != nil {
		return nil, err
	}
	return toApplicationShifts(shifts), nil
}

func (a *shiftStoreAdapter) SetShiftEmployee(ctx context.Context, shiftID string, employeeID *string) error {
	return a.storage.SetShiftEmployee(ctx, shiftID, employeeID)
}

type employeeStoreAdapter struct {
	storage *sqlite.Storage
}

func newEmployeeStoreAdapter(storage *sqlite.Storage) *employeeStoreAdapter {
	return &employeeStoreAdapter{storage: storage}
}

func (a *employeeStoreAdapter) CreateEmployee(ctx context.Context, employee application.Employee) error {
	return a.storage.CreateEmployee(ctx, persistence.Employee{
		ID:          employee.ID,
		DisplayName: employee.DisplayName,
		Role:        employee.Role,
		CreatedAt:   employee.CreatedAt,
		UpdatedAt:   employee.UpdatedAt,
	})
}

func (a *employeeStoreAdapter) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	stored, err := a.storage.GetEmployee(ctx, id)
	if err != nil {
		return application.Employee{}, err
	}
	return application.Employee{
		ID:          stored.ID,
		DisplayName: stored.DisplayName,
		Role:        stored.Role,
		CreatedAt:   stored.CreatedAt,
		UpdatedAt:   stored.UpdatedAt,
	}, nil
}

type coverageStoreAdapter struct {
	storage *sqlite.Storage
}

func newCoverageStoreAdapter(storage *sqlite.Storage) *coverageStoreAdapter {
	return &coverageStoreAdapter{storage: storage}
}

func (a *coverageStoreAdapter) CreateCoverageRequest(ctx context.Context, request application.CoverageRequest) error {
	return a.storage.CreateCoverageRequest(ctx, persistence.CoverageRequest{
		ID:           request.ID,
		ShiftID:      request.ShiftID,
		EmployeeID:   request.EmployeeID,
		CoverageType: string(request.CoverageType),
		Note:         request.Note,
		CreatedAt:    request.CreatedAt,
	})
}

func (a *coverageStoreAdapter) GetCoverageRequest(ctx context.Context, id string) (application.CoverageRequest, error) {
	stored, err := a.storage.GetCoverageRequest(ctx, id)
	if err != nil {
		return application.CoverageRequest{}, err
	}
	return application.CoverageRequest{
		ID:           stored.ID,
		ShiftID:      stored.ShiftID,
		EmployeeID:   stored.EmployeeID,
		CoverageType: application.CoverageType(stored.CoverageType),
		Note:         stored.Note,
		CreatedAt:    stored.CreatedAt,
	}, nil
}

type tradeStoreAdapter struct {
	storage *sqlite.Storage
}

func newTradeStoreAdapter(storage *sqlite.Storage) *tradeStoreAdapter {
	return &tradeStoreAdapter{storage: storage}
}

func (a *tradeStoreAdapter) CreateTradeOffer(ctx context.Context, offer application.TradeOffer) error {
	return a.storage.CreateTradeOffer(ctx, toPersistenceTradeOffer(offer))
}

func (a *tradeStoreAdapter) ApproveTradeOffer(ctx context.Context, id string, dimension application.ApprovalDimension) (application.TradeOffer, error) {
	stored, err := a.storage.ApproveTradeOffer(ctx, id, string(dimension))
	if err != nil {
		return application.TradeOffer{}, err
	}
	return toApplicationTradeOffer(stored), nil
}

func (a *tradeStoreAdapter) DeleteTradeOffer(ctx context.Context, id string) (application.TradeOffer, error) {
	stored, err := a.storage.DeleteTradeOffer(ctx, id)
	if err != nil {
		return application.TradeOffer{}, err
	}
	return toApplicationTradeOffer(stored), nil
}

type pickupStoreAdapter struct {
	storage *sqlite.Storage
}

func newPickupStoreAdapter(storage *sqlite.Storage) *pickupStoreAdapter {
	return &pickupStoreAdapter{storage: storage}
}

func (a *pickupStoreAdapter) CreatePickupOffer(ctx context.Context, offer application.PickupOffer) error {
	return a.storage.CreatePickupOffer(ctx, persistence.PickupOffer{
		ID:         offer.ID,
		ShiftID:    offer.ShiftID,
		EmployeeID: offer.EmployeeID,
		Decision:   string(offer.ManagerApproval),
		CreatedAt:  offer.CreatedAt,
		UpdatedAt:  offer.UpdatedAt,
	})
}

func (a *pickupStoreAdapter) GetPickupOffer(ctx context.Context, id string) (application.PickupOffer, error) {
	stored, err := a.storage.GetPickupOffer(ctx, id)
	if err != nil {
		return application.PickupOffer{}, err
	}
	return toApplicationPickupOffer(stored), nil
}

func (a *pickupStoreAdapter) CountLivePickupOffers(ctx context.Context, shiftID, employeeID string) (int, error) {
	return a.storage.CountLivePickupOffers(ctx, shiftID, employeeID)
}

func (a *pickupStoreAdapter) DecidePickupOffer(ctx context.Context, id string, approved bool) (application.PickupOffer, error) {
	stored, err := a.storage.DecidePickupOffer(ctx, id, approved)
	if err != nil {
		return application.PickupOffer{}, err
	}
	return toApplicationPickupOffer(stored), nil
}

type swapStoreAdapter struct {
	storage *sqlite.Storage
}

func newSwapStoreAdapter(storage *sqlite.Storage) *swapStoreAdapter {
	return &swapStoreAdapter{storage: storage}
}

func (a *swapStoreAdapter) ApplySwap(ctx context.Context, swap application.SwapRequest) error {
	return a.storage.ApplySwap(ctx, persistence.Swap{
		TradeOfferID: swap.TradeOfferID,
		ShiftA:       swap.ShiftA,
		ShiftB:       swap.ShiftB,
		NewHolderA:   swap.NewHolderA,
		NewHolderB:   swap.NewHolderB,
	})
}

// --- model conversions ---

func toPersistenceShift(shift application.Shift) persistence.Shift {
	return persistence.Shift{
		ID:           shift.ID,
		Start:        shift.Period.Start,
		End:          shift.Period.End,
		Location:     shift.Location,
		RequiredRole: shift.RequiredRole,
		EmployeeID:   shift.EmployeeID,
		CreatedAt:    shift.CreatedAt,
		UpdatedAt:    shift.UpdatedAt,
	}
}

func toApplicationShift(shift persistence.Shift) application.Shift {
	return application.Shift{
		ID:           shift.ID,
		Period:       application.TimeRange{Start: shift.Start, End: shift.End},
		Location:     shift.Location,
		RequiredRole: shift.RequiredRole,
		EmployeeID:   shift.EmployeeID,
		CreatedAt:    shift.CreatedAt,
		UpdatedAt:    shift.UpdatedAt,
	}
}

func toApplicationShifts(shifts []persistence.Shift) []application.Shift {
	converted := make([]application.Shift, 0, len(shifts))
	for _, shift := range shifts {
		converted = append(converted, toApplicationShift(shift))
	}
	return converted
}

func toShiftFilter(options application.ShiftQueryOptions) persistence.ShiftFilter {
	filter := persistence.ShiftFilter{
		EmployeeID:   options.EmployeeID,
		RequiredRole: options.RequiredRole,
	}
	if options.TimeFilter != nil {
		if !options.TimeFilter.Start.IsZero() {
			start := options.TimeFilter.Start
			filter.StartsAfter = &start
		}
		if !options.TimeFilter.End.IsZero() {
			end := options.TimeFilter.End
			filter.StartsBefore = &end
		}
	}
	return filter
}

func toPersistenceTradeOffer(offer application.TradeOffer) persistence.TradeOffer {
	return persistence.TradeOffer{
		ID:                offer.ID,
		CoverageRequestID: offer.CoverageRequestID,
		ShiftOfferedID:    offer.ShiftOfferedID,
		EmployeeApproval:  string(offer.EmployeeApproval),
		ManagerApproval:   string(offer.ManagerApproval),
		CreatedAt:         offer.CreatedAt,
		UpdatedAt:         offer.UpdatedAt,
	}
}

func toApplicationTradeOffer(offer persistence.TradeOffer) application.TradeOffer {
	return application.TradeOffer{
		ID:                offer.ID,
		CoverageRequestID: offer.CoverageRequestID,
		ShiftOfferedID:    offer.ShiftOfferedID,
		EmployeeApproval:  application.Approval(offer.EmployeeApproval),
		ManagerApproval:   application.Approval(offer.ManagerApproval),
		CreatedAt:         offer.CreatedAt,
		UpdatedAt:         offer.UpdatedAt,
	}
}

func toApplicationPickupOffer(offer persistence.PickupOffer) application.PickupOffer {
	return application.PickupOffer{
		ID:              offer.ID,
		ShiftID:         offer.ShiftID,
		EmployeeID:      offer.EmployeeID,
		ManagerApproval: application.Approval(offer.Decision),
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
	}
}
