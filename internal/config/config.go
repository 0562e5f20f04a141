package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"go-inventory-ledger/pkg/database"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	Port    string

	DB database.Options

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CategoryCacheTTL time.Duration

	// RestockOnReject returns reserved stock to the asset when an order is rejected.
	RestockOnReject bool

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		AppName: getEnv("APP_NAME", "Inventory Ledger v1.0"),
		Port:    getEnv("PORT", "3000"),
		DB: database.Options{
			Driver:   getEnv("DB_DRIVER", database.DriverPostgres),
			DSN:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "inventory"),
			Port:     getEnv("DB_PORT", "5432"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0),
		CategoryCacheTTL:  getDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
		RestockOnReject:   getBool("RESTOCK_ON_REJECT", false),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
