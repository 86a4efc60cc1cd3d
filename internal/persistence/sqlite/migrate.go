package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrationStep is one ordered schema change applied inside its own
// transaction.
type migrationStep struct {
	Version int
	Name    string
	Script  string
}

var migrations = []migrationStep{
	{
		Version: 1,
		Name:    "initial_schema",
		Script: `
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS shifts (
	id TEXT PRIMARY KEY,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	required_role TEXT NOT NULL,
	employee_id TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK (start_time < end_time)
);
CREATE INDEX IF NOT EXISTS idx_shifts_employee ON shifts(employee_id);
CREATE INDEX IF NOT EXISTS idx_shifts_start ON shifts(start_time);

CREATE TABLE IF NOT EXISTS coverage_requests (
	id TEXT PRIMARY KEY,
	shift_id TEXT NOT NULL REFERENCES shifts(id),
	employee_id TEXT NOT NULL,
	coverage_type TEXT NOT NULL CHECK (coverage_type IN ('pickup_only', 'trade_only', 'both')),
	note TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_coverage_requests_shift ON coverage_requests(shift_id);

CREATE TABLE IF NOT EXISTS trade_offers (
	id TEXT PRIMARY KEY,
	coverage_request_id TEXT NOT NULL REFERENCES coverage_requests(id),
	shift_offered_id TEXT NOT NULL REFERENCES shifts(id),
	employee_approval TEXT NOT NULL DEFAULT 'pending' CHECK (employee_approval IN ('pending', 'approved', 'denied')),
	manager_approval TEXT NOT NULL DEFAULT 'pending' CHECK (manager_approval IN ('pending', 'approved', 'denied')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pickup_offers (
	id TEXT PRIMARY KEY,
	shift_id TEXT NOT NULL REFERENCES shifts(id),
	employee_id TEXT NOT NULL,
	decision TEXT NOT NULL DEFAULT 'pending' CHECK (decision IN ('pending', 'approved', 'denied')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pickup_offers_shift_employee ON pickup_offers(shift_id, employee_id);
`,
	},
}

// Migrate applies all pending schema migrations. Each step runs in its own
// transaction and is recorded in schema_migrations, so Migrate is safe to run
// on every startup.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, step := range migrations {
		applied, err := cp.migrationApplied(ctx, step.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(step.Script); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", step.Version, step.Name, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				step.Version, step.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", step.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect schema_migrations: %w", err)
	}
	return count > 0, nil
}
