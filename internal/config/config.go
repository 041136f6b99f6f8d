package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	CORSOrigins string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=homeoerp port=5432 sslmode=disable"

func Load() *Config {
	// Missing .env is fine; env vars may come from the environment directly.
	_ = godotenv.Load()

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     redisDB,
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

// UsingDefaultDSN reports whether the connection string was left at its
// development default, so startup can warn about it.
func (c *Config) UsingDefaultDSN() bool {
	return c.DatabaseDSN == defaultDSN
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
