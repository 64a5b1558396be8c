// Command seed imports the catalog and purchase CSV tables into the
// configured SQL database so the API can run with CATALOG_SOURCE=db.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_assistant/internal/config"
	"github.com/GTDGit/catalog_assistant/internal/database"
	"github.com/GTDGit/catalog_assistant/internal/repository"
	"github.com/GTDGit/catalog_assistant/internal/source"
)

func main() {
	catalogPath := flag.String("catalog", "data/DMart.csv", "catalog CSV path or s3:// URL")
	purchasesPath := flag.String("purchases", "data/Purchases.csv", "purchase log CSV path or s3:// URL")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.DB.Enabled() {
		log.Fatal().Msg("DB_DRIVER must be set to seed the database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	newS3 := func() (source.ObjectGetter, error) {
		return source.NewS3Client(ctx, &cfg.S3)
	}

	catalogTable, err := source.OpenTable(*catalogPath, newS3)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid catalog location")
	}
	products, err := catalogTable.LoadProducts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read catalog")
	}
	if err := repository.NewProductRepository(db).InsertBatch(ctx, products); err != nil {
		log.Fatal().Err(err).Msg("failed to import catalog")
	}
	log.Info().Int("rows", len(products)).Str("from", catalogTable.Location()).Msg("catalog imported")

	purchaseTable, err := source.OpenTable(*purchasesPath, newS3)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid purchases location")
	}
	purchases, err := purchaseTable.LoadPurchases(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read purchase log")
	}
	if err := repository.NewPurchaseRepository(db).InsertBatch(ctx, purchases); err != nil {
		log.Fatal().Err(err).Msg("failed to import purchase log")
	}
	log.Info().Int("rows", len(purchases)).Str("from", purchaseTable.Location()).Msg("purchase log imported")
}
