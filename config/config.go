package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BackendPostgres = "postgres"
	BackendBuntdb   = "buntdb"
	BackendRedis    = "redis"
)

type Config struct {
	Debug      bool
	ListenAddr string
	CORS       CORSConfig
	Dumps      DumpConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type DumpConfig struct {
	// One of BackendPostgres, BackendBuntdb or BackendRedis.
	Backend  string
	Postgres PostgresConfig
	Buntdb   BuntdbConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	DSN     string
	Verbose bool
}

type BuntdbConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func Load() (Config, error) {
	debug := getEnvBool("DEBUG", false)

	listenAddr := getEnv("LISTEN_ADDR", "")
	if listenAddr == "" {
		if debug {
			listenAddr = "127.0.0.1:2137"
		} else {
			listenAddr = ":2137"
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := Config{
		Debug:      debug,
		ListenAddr: listenAddr,
		CORS: CORSConfig{
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOW_ORIGINS", "https://buzkaaclicker.pl")),
		},
		Dumps: DumpConfig{
			Backend: strings.ToLower(getEnv("DUMP_BACKEND", BackendPostgres)),
			Postgres: PostgresConfig{
				DSN:     os.Getenv("POSTGRES_DSN"),
				Verbose: getEnvBool("DB_VERBOSE", false),
			},
			Buntdb: BuntdbConfig{
				Path: getEnv("BUNTDB_PATH", "profiles.db"),
			},
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       redisDB,
				Prefix:   getEnv("REDIS_PREFIX", "userconf:"),
			},
		},
	}

	switch cfg.Dumps.Backend {
	case BackendPostgres:
		if cfg.Dumps.Postgres.DSN == "" {
			return Config{}, errors.New("POSTGRES_DSN must be set for the postgres backend")
		}
	case BackendBuntdb, BackendRedis:
	default:
		return Config{}, fmt.Errorf("invalid DUMP_BACKEND: %s", cfg.Dumps.Backend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	var results []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
