package sqlite

import (
	"context"

	"github.com/example/shift-exchange/internal/persistence"
)

// Storage bundles all SQLite repositories behind a single handle. It satisfies
// every repository interface in the persistence package, so callers that only
// need one concern can still depend on the narrow interface.
type Storage struct {
	pool *ConnectionPool

	*ShiftRepository
	*CoverageRequestRepository
	*TradeOfferRepository
	*PickupOfferRepository
	*EmployeeRepository
	*SwapApplier
}

// Open opens the database at dsn with default settings. Use OpenWithConfig to
// tune pragmas.
func Open(dsn string) (*Storage, error) {
	return OpenWithConfig(DefaultConfig(dsn))
}

// OpenWithConfig opens the database with the supplied configuration and wires
// the repositories.
func OpenWithConfig(config Config) (*Storage, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:                      pool,
		ShiftRepository:           NewShiftRepository(pool),
		CoverageRequestRepository: NewCoverageRequestRepository(pool),
		TradeOfferRepository:      NewTradeOfferRepository(pool),
		PickupOfferRepository:     NewPickupOfferRepository(pool),
		EmployeeRepository:        NewEmployeeRepository(pool),
		SwapApplier:               NewSwapApplier(pool),
	}, nil
}

// Migrate applies pending schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.pool.Migrate(ctx)
}

// Ping tests the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.pool.Close()
}

var (
	_ persistence.ShiftRepository           = (*Storage)(nil)
	_ persistence.CoverageRequestRepository = (*Storage)(nil)
	_ persistence.TradeOfferRepository      = (*Storage)(nil)
	_ persistence.PickupOfferRepository     = (*Storage)(nil)
	_ persistence.EmployeeRepository        = (*Storage)(nil)
	_ persistence.SwapApplier               = (*Storage)(nil)
)
