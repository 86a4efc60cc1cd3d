package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/shift-exchange/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateEmployee inserts a new directory entry into the database.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO employees (id, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		employee.ID,
		employee.DisplayName,
		employee.Role,
		employee.CreatedAt.UTC().Format(time.RFC3339),
		employee.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetEmployee retrieves a directory entry by ID from the database.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if id == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, display_name, role, created_at, updated_at
		FROM employees
		WHERE id = ?
	`

	var employee persistence.Employee
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.DisplayName,
		&employee.Role,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, r.mapper.MapError(err)
	}

	if employee.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if employee.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return employee, nil
}
