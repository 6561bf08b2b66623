package swapdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/swap-coordinator/pkg/pgutil/migrations"
)

// The expiry sweeper scans active offers oldest first.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating active offers index...")
		return mghelper.CreatePartialIndex(ctx, db, "offers", "idx_offers_active_created_at", "created_at",
			"status IN ('OPEN', 'TAKER_LOCKED', 'BOTH_LOCKED')")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping active offers index...")
		return mghelper.DropIndex(ctx, db, "idx_offers_active_created_at")
	})
}
