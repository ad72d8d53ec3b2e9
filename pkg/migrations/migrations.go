package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the catalog schema used to bootstrap empty databases.
var Migrations = migrate.NewMigrations()

// BringUpToDate creates the catalog tables in an empty database. A real Stash
// database already has them, so this is only run by tests and local setups.
// Its bookkeeping tables are prefixed so they never collide with Stash's own.
func BringUpToDate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, Migrations,
		migrate.WithTableName("stashsync_migrations"),
		migrate.WithLocksTableName("stashsync_migration_locks"),
	)
	err := migrator.Init(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}
