package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	OpenAIKey    string
	OpenAIModel  string
	AgentRPS     int
	AgentTimeout time.Duration
	AppStoreBase string
	AppStoreKey  string
	ProductIDs   []string
	Workers      int
	ReviewCount  int
	CacheTTL     time.Duration
	LockTTL      time.Duration
}

func Load() Config {
	if err := gotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using OS environment")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/replyflow?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		OpenAIKey:    env("OPENAI_API_KEY", ""),
		OpenAIModel:  env("OPENAI_MODEL", "gpt-4.1"),
		AgentRPS:     atoi("AGENT_RPS", 5),
		AgentTimeout: time.Duration(atoi("AGENT_TIMEOUT_SECONDS", 60)) * time.Second,
		AppStoreBase: env("APPSTORE_BASE_URL", "https://api.appstoreconnect.apple.com/v1"),
		AppStoreKey:  env("APPSTORE_API_KEY", ""),
		ProductIDs:   splitCSV(env("INGEST_PRODUCT_IDS", "")),
		Workers:      atoi("PROCESS_WORKERS", 8),
		ReviewCount:  atoi("INGEST_REVIEW_COUNT", 100),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		LockTTL:      time.Duration(atoi("RUN_LOCK_TTL_SECONDS", 300)) * time.Second,
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
