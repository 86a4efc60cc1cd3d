package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// SwapApplier implements persistence.SwapApplier using SQLite.
//
// The swap and the trade offer removal commit in one transaction. Deleting the
// offer row first, conditionally, is what makes the swap exactly-once: of two
// concurrent approvals only one delete affects a row, and the loser backs out
// with ErrNotFound before touching either shift.
type SwapApplier struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSwapApplier creates a new SQLite swap applier.
func NewSwapApplier(pool *ConnectionPool) *SwapApplier {
	return &SwapApplier{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ApplySwap atomically removes the trade offer and exchanges the holders of
// the two shifts. Returns ErrNotFound when the offer row is already gone.
func (a *SwapApplier) ApplySwap(ctx context.Context, swap persistence.Swap) error {
	if swap.TradeOfferID == "" || swap.ShiftA == "" || swap.ShiftB == "" {
		return persistence.ErrConstraintViolation
	}

	return a.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := a.helper.ExecTx(tx,
			"DELETE FROM trade_offers WHERE id = ?", swap.TradeOfferID)
		if err != nil {
			return a.mapper.MapError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}

		now := time.Now().UTC().Format(time.RFC3339)
		if err := a.setHolder(tx, swap.ShiftA, swap.NewHolderA, now); err != nil {
			return err
		}
		if err := a.setHolder(tx, swap.ShiftB, swap.NewHolderB, now); err != nil {
			return err
		}
		return nil
	})
}

func (a *SwapApplier) setHolder(tx *sql.Tx, shiftID string, employeeID *string, updatedAt string) error {
	var holder sql.NullString
	if employeeID != nil {
		holder.String = *employeeID
		holder.Valid = true
	}

	result, err := a.helper.ExecTx(tx,
		"UPDATE shifts SET employee_id = ?, updated_at = ? WHERE id = ?",
		holder, updatedAt, shiftID)
	if err != nil {
		return a.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: shift %s", persistence.ErrNotFound, shiftID)
	}
	return nil
}
