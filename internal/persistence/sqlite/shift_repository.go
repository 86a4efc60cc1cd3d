package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// ShiftRepository implements persistence.ShiftRepository using SQLite.
type ShiftRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewShiftRepository creates a new SQLite shift repository.
func NewShiftRepository(pool *ConnectionPool) *ShiftRepository {
	return &ShiftRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const shiftColumns = "id, start_time, end_time, location, required_role, employee_id, created_at, updated_at"

// CreateShift inserts a new shift into the database.
func (r *ShiftRepository) CreateShift(ctx context.Context, shift persistence.Shift) error {
	if shift.ID == "" {
		return persistence.ErrConstraintViolation
	}

	var employeeID sql.NullString
	if shift.EmployeeID != nil {
		employeeID.String = *shift.EmployeeID
		employeeID.Valid = true
	}

	query := `
		INSERT INTO shifts (` + shiftColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		shift.ID,
		shift.Start.UTC().Format(time.RFC3339),
		shift.End.UTC().Format(time.RFC3339),
		shift.Location,
		shift.RequiredRole,
		employeeID,
		shift.CreatedAt.UTC().Format(time.RFC3339),
		shift.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetShift retrieves a shift by ID from the database.
func (r *ShiftRepository) GetShift(ctx context.Context, id string) (persistence.Shift, error) {
	if id == "" {
		return persistence.Shift{}, persistence.ErrNotFound
	}

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ?`

	row := r.helper.QueryRow(ctx, query, id)
	shift, err := scanShift(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Shift{}, persistence.ErrNotFound
		}
		return persistence.Shift{}, r.mapper.MapError(err)
	}

	return shift, nil
}

// ListShifts lists shifts matching the filter, ordered by start time.
func (r *ShiftRepository) ListShifts(ctx context.Context, filter persistence.ShiftFilter) ([]persistence.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts`

	conditions, args := shiftFilterConditions(filter, "")
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	return r.queryShifts(ctx, query, args)
}

// ListOpenShifts lists shifts that are up for grabs: unassigned shifts, plus
// assigned shifts under a coverage request whose type permits pickup.
func (r *ShiftRepository) ListOpenShifts(ctx context.Context, filter persistence.ShiftFilter) ([]persistence.Shift, error) {
	query := `
		SELECT ` + qualifiedShiftColumns("s") + `
		FROM shifts s
		WHERE (
			s.employee_id IS NULL
			OR s.id IN (
				SELECT cr.shift_id FROM coverage_requests cr
				WHERE cr.coverage_type != ?
			)
		)
	`
	args := []any{persistence.CoverageTradeOnly}

	conditions, filterArgs := shiftFilterConditions(filter, "s.")
	for _, condition := range conditions {
		query += " AND " + condition
	}
	args = append(args, filterArgs...)
	query += " ORDER BY s.start_time ASC, s.id ASC"

	return r.queryShifts(ctx, query, args)
}

// SetShiftEmployee atomically updates the assigned employee reference. A nil
// employeeID clears the assignment.
func (r *ShiftRepository) SetShiftEmployee(ctx context.Context, shiftID string, employeeID *string) error {
	if shiftID == "" {
		return persistence.ErrNotFound
	}

	var holder sql.NullString
	if employeeID != nil {
		holder.String = *employeeID
		holder.Valid = true
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE shifts SET employee_id = ?, updated_at = ? WHERE id = ?",
		holder,
		time.Now().UTC().Format(time.RFC3339),
		shiftID,
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

	return nil
}

func (r *ShiftRepository) queryShifts(ctx context.Context, query string, args []any) ([]persistence.Shift, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var shifts []persistence.Shift
	for rows.Next() {
		shift, err := scanShift(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return shifts, nil
}

// shiftFilterConditions translates a ShiftFilter into WHERE fragments. The
// prefix qualifies column names when the query aliases the shifts table.
func shiftFilterConditions(filter persistence.ShiftFilter, prefix string) ([]string, []any) {
	var conditions []string
	var args []any

	if filter.EmployeeID != nil {
		conditions = append(conditions, prefix+"employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.RequiredRole != nil {
		conditions = append(conditions, prefix+"required_role = ?")
		args = append(args, *filter.RequiredRole)
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, prefix+"start_time >= ?")
		args = append(args, filter.StartsAfter.UTC().Format(time.RFC3339))
	}
	if filter.StartsBefore != nil {
		conditions = append(conditions, prefix+"start_time < ?")
		args = append(args, filter.StartsBefore.UTC().Format(time.RFC3339))
	}

	return conditions, args
}

func qualifiedShiftColumns(alias string) string {
	parts := strings.Split(shiftColumns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}

// scanShift reads one shift row via the provided scan function, so single-row
// and multi-row queries share the decoding logic.
func scanShift(scan func(dest ...any) error) (persistence.Shift, error) {
	var shift persistence.Shift
	var startStr, endStr, createdAtStr, updatedAtStr string
	var employeeID sql.NullString

	err := scan(
		&shift.ID,
		&startStr,
		&endStr,
		&shift.Location,
		&shift.RequiredRole,
		&employeeID,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Shift{}, err
	}

	if employeeID.Valid {
		shift.EmployeeID = &employeeID.String
	}

	if shift.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Shift{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if shift.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Shift{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if shift.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Shift{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if shift.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Shift{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return shift, nil
}
