package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Database backends
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port       string
	DBBackend  string
	PGURL      string
	SQLitePath string
	JWTSecret  string
	ZhipuKey   string
	FinnhubKey string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBBackend:  getEnv("DB_BACKEND", BackendSQLite),
		PGURL:      os.Getenv("PG_URL"),
		SQLitePath: getEnv("SQLITE_PATH", "data/finagent.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		ZhipuKey:   os.Getenv("ZHIPU_API_KEY"),
		FinnhubKey: os.Getenv("FINNHUB_API_KEY"),
	}

	switch cfg.DBBackend {
	case BackendSQLite:
	case BackendPostgres:
		if cfg.PGURL == "" {
			return nil, fmt.Errorf("PG_URL environment variable is required with DB_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown DB_BACKEND %q (want %q or %q)", cfg.DBBackend, BackendPostgres, BackendSQLite)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
