// reprocess runs the review processor synchronously for the review ids given
// on the command line. Useful for retrying failed runs without going through
// the batch submission endpoint; duplicate suppression makes re-runs safe.
package main

import (
	"context"
	"database/sql"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"replyflow/internal/adapters/agents"
	"replyflow/internal/adapters/observability"
	redisad "replyflow/internal/adapters/redis"
	"replyflow/internal/app"
	"replyflow/internal/shared"
	mysqlrepo "replyflow/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	ids := os.Args[1:]
	if len(ids) == 0 {
		log.Fatal().Msg("usage: reprocess <sourceReviewId> [...]")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	defer db.Close()

	store := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	lock := redisad.NewLock(cache.Client())

	ai := agents.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.AgentRPS)
	proc := app.NewProcessor(store,
		agents.NewTranslator(ai),
		agents.NewReplyGenerator(ai),
		agents.NewAnalyzer(ai),
		lock, cfg.AgentTimeout, cfg.LockTTL)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(reviewID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := proc.Process(ctx, reviewID); err != nil {
				log.Error().Str("review", reviewID).Err(err).Msg("reprocess failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Info().Str("review", reviewID).Msg("reprocess ok")
		}(id)
	}

	wg.Wait()
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("reprocess finished with failures")
		os.Exit(1)
	}
	log.Info().Msg("reprocess completed")
}
