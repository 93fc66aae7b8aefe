package sessionstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/fieldsync/mobilecore/internal/client/migrations"
)

// RunMigrations applies the embedded goose migrations to the local
// database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens the local SQLite database at dsn, applies
// migrations, and returns a Store over it. The "sqlite" driver must be
// registered by the caller (blank import of modernc.org/sqlite).
func OpenDatabase(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return NewStore(db), db, nil
}
