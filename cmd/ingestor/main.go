package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"replyflow/internal/adapters/appstore"
	"replyflow/internal/adapters/observability"
	"replyflow/internal/app"
	"replyflow/internal/shared"
	mysqlrepo "replyflow/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.AppStoreBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Int("products", len(cfg.ProductIDs)).
		Msg("ingestor starting")

	if len(cfg.ProductIDs) == 0 {
		log.Fatal().Msg("INGEST_PRODUCT_IDS is empty")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	store := mysqlrepo.New(db)
	client, err := appstore.New(cfg.AppStoreBase, cfg.AppStoreKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize App Store client")
	}
	ing := app.NewIngestionService(client, store)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.ProductIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestProduct(ctx, productID, cfg.ReviewCount); err != nil {
				log.Warn().Str("product", productID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("product", productID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
