package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// CoverageRequestRepository implements persistence.CoverageRequestRepository
// using SQLite.
type CoverageRequestRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCoverageRequestRepository creates a new SQLite coverage request repository.
func NewCoverageRequestRepository(pool *ConnectionPool) *CoverageRequestRepository {
	return &CoverageRequestRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const coverageRequestColumns = "id, shift_id, employee_id, coverage_type, note, created_at"

// CreateCoverageRequest inserts a new coverage request into the database.
func (r *CoverageRequestRepository) CreateCoverageRequest(ctx context.Context, request persistence.CoverageRequest) error {
	if request.ID == "" {
		return persistence.ErrConstraintViolation
	}

	var note sql.NullString
	if request.Note != nil {
		note.String = *request.Note
		note.Valid = true
	}

	query := `
		INSERT INTO coverage_requests (` + coverageRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		request.ID,
		request.ShiftID,
		request.EmployeeID,
		request.CoverageType,
		note,
		request.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetCoverageRequest retrieves a coverage request by ID from the database.
func (r *CoverageRequestRepository) GetCoverageRequest(ctx context.Context, id string) (persistence.CoverageRequest, error) {
	if id == "" {
		return persistence.CoverageRequest{}, persistence.ErrNotFound
	}

	query := `SELECT ` + coverageRequestColumns + ` FROM coverage_requests WHERE id = ?`

	row := r.helper.QueryRow(ctx, query, id)
	request, err := scanCoverageRequest(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.CoverageRequest{}, persistence.ErrNotFound
		}
		return persistence.CoverageRequest{}, r.mapper.MapError(err)
	}

	return request, nil
}

// ListCoverageRequestsForShift lists all coverage requests that name the shift.
func (r *CoverageRequestRepository) ListCoverageRequestsForShift(ctx context.Context, shiftID string) ([]persistence.CoverageRequest, error) {
	query := `
		SELECT ` + coverageRequestColumns + `
		FROM coverage_requests
		WHERE shift_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query, shiftID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var requests []persistence.CoverageRequest
	for rows.Next() {
		request, err := scanCoverageRequest(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return requests, nil
}

func scanCoverageRequest(scan func(dest ...any) error) (persistence.CoverageRequest, error) {
	var request persistence.CoverageRequest
	var note sql.NullString
	var createdAtStr string

	err := scan(
		&request.ID,
		&request.ShiftID,
		&request.EmployeeID,
		&request.CoverageType,
		&note,
		&createdAtStr,
	)
	if err != nil {
		return persistence.CoverageRequest{}, err
	}

	if note.Valid {
		request.Note = &note.String
	}

	if request.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.CoverageRequest{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return request, nil
}
