package data

import (
	"context"
	"database/sql"

	"github.com/target/refund-ui/internal/migrate"
)

// RunMigrations applies the session store schema via the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
