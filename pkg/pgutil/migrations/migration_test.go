package migrations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/swap-coordinator/pkg/config"
	"github.com/chainsafe/swap-coordinator/pkg/pgutil"
)

type legDao struct {
	bun.BaseModel `bun:"table:test_legs"`
	ID            int64     `bun:",pk,autoincrement"`
	OfferID       string    `bun:",notnull,type:varchar(64)"`
	Side          string    `bun:",notnull,type:varchar(16)"`
	Status        string    `bun:",notnull,type:varchar(32)"`
	CreatedAt     time.Time `bun:",notnull,default:current_timestamp"`
}

func TestConnectDB_InvalidHost(t *testing.T) {
	_, err := pgutil.ConnectDB(context.Background(), &config.DatabaseConfig{
		Host:        "invalid-host-that-does-not-exist",
		Port:        5432,
		User:        "swap",
		Password:    "swap",
		Database:    "swap",
		SSLMode:     "disable",
		DialTimeout: time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-host-that-does-not-exist:5432")
}

func TestConnectDB_NilConfig(t *testing.T) {
	_, err := pgutil.ConnectDB(context.Background(), nil)
	assert.Error(t, err)
}

func TestSchemaHelpers(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, CreateSchema(ctx, db, &legDao{}))
	pgutil.AssertTableExists(t, db, "test_legs")
	// idempotent
	require.NoError(t, CreateSchema(ctx, db, &legDao{}))

	require.NoError(t, CreateModelIndexes(ctx, db, &legDao{}, "offer_id", "status"))
	pgutil.AssertIndexExists(t, db, "idx_test_legs_offer_id")
	pgutil.AssertIndexExists(t, db, "idx_test_legs_status")
	_, err := ModelIndexName(db, nil, "status")
	assert.Error(t, err)

	require.NoError(t, CreatePartialIndex(ctx, db, "test_legs", "idx_test_legs_open", "created_at", "status = 'OPEN'"))
	pgutil.AssertIndexExists(t, db, "idx_test_legs_open")

	_, err = db.NewInsert().Model(&[]legDao{
		{OfferID: "a", Side: "taker", Status: "OPEN"},
		{OfferID: "a", Side: "creator", Status: "OPEN"},
	}).Exec(ctx)
	require.NoError(t, err)
	pgutil.AssertRowCount(t, db, "test_legs", 2)

	require.NoError(t, DropIndex(ctx, db, "idx_test_legs_open"))
	require.NoError(t, DropIndex(ctx, db, "idx_test_legs_open"))

	require.NoError(t, DropTables(ctx, db, &legDao{}))
	pgutil.AssertTableNotExists(t, db, "test_legs")
	require.NoError(t, DropTables(ctx, db, &legDao{}))
}

func TestRunMigrations(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, testMigrations)

	assert.ErrorIs(t, RunMigrations(ctx, migrator), ErrNoCommand)
	assert.ErrorContains(t, RunMigrations(ctx, migrator, "sideways"), "unknown command")

	require.NoError(t, RunMigrations(ctx, migrator, "init"))
	require.NoError(t, RunMigrations(ctx, migrator, "up"))
	pgutil.AssertTableExists(t, db, "test_legs")

	// second run is a no-op
	require.NoError(t, RunMigrations(ctx, migrator, "up"))
	require.NoError(t, RunMigrations(ctx, migrator, "status"))

	require.NoError(t, RunMigrations(ctx, migrator, "down"))
	pgutil.AssertTableNotExists(t, db, "test_legs")
	require.NoError(t, RunMigrations(ctx, migrator, "down"))
}
