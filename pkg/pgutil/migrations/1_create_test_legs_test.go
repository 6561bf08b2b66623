package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// bun derives migration names from the registering file, hence the file name.
var testMigrations = migrate.NewMigrations()

func init() {
	testMigrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return CreateSchema(ctx, db, &legDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		return DropTables(ctx, db, &legDao{})
	})
}
