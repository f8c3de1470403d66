// Package sqlitetest builds migrated throwaway stores for tests.
package sqlitetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/repository/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Seeded leave types.
const (
	AnnualLeaveTypeID      = "01930000-0000-7000-8000-000000000001"
	SickLeaveTypeID        = "01930000-0000-7000-8000-000000000002"
	UnpaidLeaveTypeID      = "01930000-0000-7000-8000-000000000003"
	MarriageLeaveTypeID    = "01930000-0000-7000-8000-000000000004"
	BereavementLeaveTypeID = "01930000-0000-7000-8000-000000000005"
)

// NewStore opens a migrated database in the test's temp dir and closes it on cleanup.
func NewStore(t *testing.T) *database.SQLiteDB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "workforce.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, sqlite.Migrate(ctx, db))
	return db
}

// InsertEmployee adds an active employee and returns its id.
func InsertEmployee(t *testing.T, db *database.SQLiteDB, name, baseSalary string) string {
	t.Helper()

	id := uuid.Must(uuid.NewV7()).String()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO employees (id, full_name, employment_status, base_salary, hire_date)
		VALUES (?, ?, 'active', ?, '2024-01-01')`,
		id, name, baseSalary)
	require.NoError(t, err)
	return id
}

// SetEmploymentStatus changes an employee's status, e.g. to "resigned".
func SetEmploymentStatus(t *testing.T, db *database.SQLiteDB, id, status string) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`UPDATE employees SET employment_status = ? WHERE id = ?`, status, id)
	require.NoError(t, err)
}
