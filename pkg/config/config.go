package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process configuration, read once at startup
type Config struct {
	Port            string
	Env             string
	JWTSecret       string
	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string // empty disables the cache
}

// Load reads configuration from the environment, consulting a .env file when
// present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		JWTSecret:       getEnv("JWT_SECRET", "fallback_secret"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "wanderlog"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
	}
}

// IsProduction reports whether the process runs with production diagnostics.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
