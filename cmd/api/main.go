package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"replyflow/internal/adapters/agents"
	server "replyflow/internal/adapters/http_server"
	"replyflow/internal/adapters/observability"
	redisad "replyflow/internal/adapters/redis"
	"replyflow/internal/app"
	"replyflow/internal/shared"
	mysqlrepo "replyflow/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	// deps
	store := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	lock := redisad.NewLock(cache.Client())

	ai := agents.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.AgentRPS)
	proc := app.NewProcessor(store,
		agents.NewTranslator(ai),
		agents.NewReplyGenerator(ai),
		agents.NewAnalyzer(ai),
		lock, cfg.AgentTimeout, cfg.LockTTL)
	disp := app.NewDispatcher(store, proc, cfg.Workers)
	q := app.NewQueryService(store, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{D: disp, Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	disp.Wait()
}
