// Package sqlite is the embedded Record Store: one database file owned by one process.
// Money and hour columns are TEXT so decimal values round-trip exactly; dates are
// YYYY-MM-DD text in DATE columns and timestamps are TIMESTAMP columns.
package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/utils"
	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

// Migrate creates the schema and seeds the reference leave types.
func Migrate(ctx context.Context, db *database.SQLiteDB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateArg(t time.Time) string {
	return utils.FormatDate(t)
}

func nullableDateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return utils.FormatDate(*t)
}
