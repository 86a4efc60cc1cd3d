package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// PickupOfferRepository implements persistence.PickupOfferRepository using
// SQLite.
type PickupOfferRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPickupOfferRepository creates a new SQLite pickup offer repository.
func NewPickupOfferRepository(pool *ConnectionPool) *PickupOfferRepository {
	return &PickupOfferRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const pickupOfferColumns = "id, shift_id, employee_id, decision, created_at, updated_at"

// CreatePickupOffer inserts a new pickup offer into the database.
func (r *PickupOfferRepository) CreatePickupOffer(ctx context.Context, offer persistence.PickupOffer) error {
	if offer.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO pickup_offers (` + pickupOfferColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		offer.ID,
		offer.ShiftID,
		offer.EmployeeID,
		offer.Decision,
		offer.CreatedAt.UTC().Format(time.RFC3339),
		offer.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetPickupOffer retrieves a pickup offer by ID from the database.
func (r *PickupOfferRepository) GetPickupOffer(ctx context.Context, id string) (persistence.PickupOffer, error) {
	if id == "" {
		return persistence.PickupOffer{}, persistence.ErrNotFound
	}

	query := `SELECT ` + pickupOfferColumns + ` FROM pickup_offers WHERE id = ?`

	row := r.helper.QueryRow(ctx, query, id)
	offer, err := scanPickupOffer(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.PickupOffer{}, persistence.ErrNotFound
		}
		return persistence.PickupOffer{}, r.mapper.MapError(err)
	}

	return offer, nil
}

// CountLivePickupOffers counts undecided offers for a (shift, employee) pair.
func (r *PickupOfferRepository) CountLivePickupOffers(ctx context.Context, shiftID, employeeID string) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx,
		"SELECT COUNT(*) FROM pickup_offers WHERE shift_id = ? AND employee_id = ? AND decision = ?",
		shiftID, employeeID, persistence.ApprovalPending,
	).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// DecidePickupOffer records the manager decision on a still-pending offer and
// returns the post-update record. The update is conditional on the offer being
// pending, so a second decision on the same offer reports ErrNotFound.
func (r *PickupOfferRepository) DecidePickupOffer(ctx context.Context, id string, approved bool) (persistence.PickupOffer, error) {
	if id == "" {
		return persistence.PickupOffer{}, persistence.ErrNotFound
	}

	decision := persistence.ApprovalDenied
	if approved {
		decision = persistence.ApprovalApproved
	}

	var offer persistence.PickupOffer
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx,
			"UPDATE pickup_offers SET decision = ?, updated_at = ? WHERE id = ? AND decision = ?",
			decision,
			time.Now().UTC().Format(time.RFC3339),
			id,
			persistence.ApprovalPending,
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

		row := r.helper.QueryRowTx(tx, `SELECT `+pickupOfferColumns+` FROM pickup_offers WHERE id = ?`, id)
		offer, err = scanPickupOffer(row.Scan)
		if err != nil {
			if err == sql.ErrNoRows {
				return persistence.ErrNotFound
			}
			return r.mapper.MapError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.PickupOffer{}, err
	}

	return offer, nil
}

func scanPickupOffer(scan func(dest ...any) error) (persistence.PickupOffer, error) {
	var offer persistence.PickupOffer
	var createdAtStr, updatedAtStr string

	err := scan(
		&offer.ID,
		&offer.ShiftID,
		&offer.EmployeeID,
		&offer.Decision,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.PickupOffer{}, err
	}

	if offer.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.PickupOffer{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if offer.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.PickupOffer{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return offer, nil
}
