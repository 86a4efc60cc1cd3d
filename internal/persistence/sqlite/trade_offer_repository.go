package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// TradeOfferRepository implements persistence.TradeOfferRepository using
// SQLite.
type TradeOfferRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTradeOfferRepository creates a new SQLite trade offer repository.
func NewTradeOfferRepository(pool *ConnectionPool) *TradeOfferRepository {
	return &TradeOfferRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const tradeOfferColumns = "id, coverage_request_id, shift_offered_id, employee_approval, manager_approval, created_at, updated_at"

// CreateTradeOffer inserts a new trade offer into the database.
func (r *TradeOfferRepository) CreateTradeOffer(ctx context.Context, offer persistence.TradeOffer) error {
	if offer.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO trade_offers (` + tradeOfferColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		offer.ID,
		offer.CoverageRequestID,
		offer.ShiftOfferedID,
		offer.EmployeeApproval,
		offer.ManagerApproval,
		offer.CreatedAt.UTC().Format(time.RFC3339),
		offer.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetTradeOffer retrieves a trade offer by ID from the database.
func (r *TradeOfferRepository) GetTradeOffer(ctx context.Context, id string) (persistence.TradeOffer, error) {
	if id == "" {
		return persistence.TradeOffer{}, persistence.ErrNotFound
	}

	query := `SELECT ` + tradeOfferColumns + ` FROM trade_offers WHERE id = ?`

	row := r.helper.QueryRow(ctx, query, id)
	offer, err := scanTradeOffer(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.TradeOffer{}, persistence.ErrNotFound
		}
		return persistence.TradeOffer{}, r.mapper.MapError(err)
	}

	return offer, nil
}

// ApproveTradeOffer marks one approval dimension approved and returns the
// record as committed, so the caller observes the combined state produced by
// its own write even when the other dimension flips concurrently.
func (r *TradeOfferRepository) ApproveTradeOffer(ctx context.Context, id, dimension string) (persistence.TradeOffer, error) {
	if id == "" {
		return persistence.TradeOffer{}, persistence.ErrNotFound
	}

	var column string
	switch dimension {
	case persistence.DimensionEmployee:
		column = "employee_approval"
	case persistence.DimensionManager:
		column = "manager_approval"
	default:
		return persistence.TradeOffer{}, fmt.Errorf("%w: unknown approval dimension %q", persistence.ErrConstraintViolation, dimension)
	}

	var offer persistence.TradeOffer
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx,
			"UPDATE trade_offers SET "+column+" = ?, updated_at = ? WHERE id = ?",
			persistence.ApprovalApproved,
			time.Now().UTC().Format(time.RFC3339),
			id,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}

		row := r.helper.QueryRowTx(tx, `SELECT `+tradeOfferColumns+` FROM trade_offers WHERE id = ?`, id)
		offer, err = scanTradeOffer(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return persistence.ErrNotFound
			}
			return r.mapper.MapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.TradeOffer{}, err
	}

	return offer, nil
}

// DeleteTradeOffer removes the offer and returns the deleted record.
func (r *TradeOfferRepository) DeleteTradeOffer(ctx context.Context, id string) (persistence.TradeOffer, error) {
	if id == "" {
		return persistence.TradeOffer{}, persistence.ErrNotFound
	}

	var offer persistence.TradeOffer
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		row := r.helper.QueryRowTx(tx, `SELECT `+tradeOfferColumns+` FROM trade_offers WHERE id = ?`, id)
		var err error
		offer, err = scanTradeOffer(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return persistence.ErrNotFound
			}
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM trade_offers WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return persistence.TradeOffer{}, err
	}

	return offer, nil
}

func scanTradeOffer(scan func(dest ...any) error) (persistence.TradeOffer, error) {
	var offer persistence.TradeOffer
	var createdAtStr, updatedAtStr string

	err := scan(
		&offer.ID,
		&offer.CoverageRequestID,
		&offer.ShiftOfferedID,
		&offer.EmployeeApproval,
		&offer.ManagerApproval,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.TradeOffer{}, err
	}

	if offer.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.TradeOffer{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if offer.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.TradeOffer{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return offer, nil
}
