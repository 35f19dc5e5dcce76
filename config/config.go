package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxCookingTime caps cooking_time, in minutes.
const DefaultMaxCookingTime = 720

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration; empty RedisHost disables the cache
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Recipe rules
	MaxCookingTime int

	// Media storage: S3 when the bucket is set, local directory otherwise
	S3Bucket     string
	MediaDir     string
	MediaBaseURL string
}

// LoadConfig creates a new Config instance with values from the environment.
// A .env file in the working directory is honored when present.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "foodgram"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "foodgram"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MaxCookingTime: DefaultMaxCookingTime,
		S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		MediaDir:       getEnv("MEDIA_DIR", "./media"),
		MediaBaseURL:   getEnv("MEDIA_BASE_URL", "/media"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("MAX_COOKING_TIME"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("invalid MAX_COOKING_TIME %q", v)
		}
		cfg.MaxCookingTime = limit
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Production refuses to start without a JWT secret and database
// credentials.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be 'disable' in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
