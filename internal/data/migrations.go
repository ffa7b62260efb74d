package data

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/laxenta/laxenta-web/internal/migrate"
)

// RunMigrations brings the users and user_sessions schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return migrate.Run(ctx, db, logger)
}
