package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/swap-coordinator/pkg/config"
	"github.com/chainsafe/swap-coordinator/pkg/migrations/swapdb"
	"github.com/chainsafe/swap-coordinator/pkg/pgutil"
	mghelper "github.com/chainsafe/swap-coordinator/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.LoadSwapServer(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	ctx := context.Background()
	db, err := pgutil.ConnectDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for swap coordinator database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, swapdb.Migrations)

	err = mghelper.RunMigrations(ctx, migrator, flag.Args()...)
	switch {
	case errors.Is(err, mghelper.ErrNoCommand):
		mghelper.Exitf(err.Error())
	case err != nil:
		db.Close()
		log.Fatalf("migration failed: %s", err.Error())
	}
}
