package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET must be set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	ErrInvalidDriver      = errors.New("DATABASE_DRIVER must be postgres or sqlite")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"
)

type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	JWTExpiry      time.Duration
	ServerPort     string
	Environment    string

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	// Last.fm artist catalog
	LastFMAPIKey    string
	LastFMBaseURL   string
	LastFMTimeout   time.Duration
	LastFMRateLimit float64
	ArtistCacheTTL  time.Duration

	CORSAllowedOrigins []string
	StaticDir          string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the environment. A .env file is honoured when present.
// JWT_SECRET and DATABASE_URL have no fallback: startup must fail without them.
func Load() (*Config, error) {
	// Docker containers use environment variables directly, so a missing .env is fine
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverPostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      getEnvAsDuration("JWT_EXPIRY", "168h"),
		ServerPort:     getEnv("SERVER_PORT", ":3001"),
		Environment:    getEnv("ENVIRONMENT", "development"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),

		LastFMAPIKey:    os.Getenv("LASTFM_API_KEY"),
		LastFMBaseURL:   getEnv("LASTFM_BASE_URL", defaultLastFMBaseURL),
		LastFMTimeout:   getEnvAsDuration("LASTFM_TIMEOUT", "5s"),
		LastFMRateLimit: getEnvAsFloat("LASTFM_RATE_LIMIT", 5),
		ArtistCacheTTL:  getEnvAsDuration("ARTIST_CACHE_TTL", "10m"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		StaticDir:          os.Getenv("STATIC_DIR"),
	}

	if !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have no usable default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return ErrInvalidDriver
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Invalid %s value, using default: %v", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

func getEnvAsList(key string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
