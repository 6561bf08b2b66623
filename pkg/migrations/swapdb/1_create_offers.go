package swapdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/swap-coordinator/pkg/offerstore"
	mghelper "github.com/chainsafe/swap-coordinator/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating offers table...")
		if err := mghelper.CreateSchema(ctx, db, &offerstore.OfferDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &offerstore.OfferDao{}, "status", "created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping offers table...")
		return mghelper.DropTables(ctx, db, &offerstore.OfferDao{})
	})
}
