package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CSVPath string

	HTTPAddr    string
	CORSOrigins []string
	SessionTTL  time.Duration
	MapZoom     float64
	MapStyle    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	SnapshotBaseURL string
	SnapshotDir     string
	ChromeBin       string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		CSVPath: getEnv("METERS_CSV_PATH", "./data/Parking_Meters.csv"),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8501"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		MapZoom:     getEnvFloat("MAP_ZOOM", 11),
		MapStyle:    getEnv("MAP_STYLE", "mapbox://styles/mapbox/light-v9"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "parking"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "parking123"),
		PostgresDB:       getEnv("POSTGRES_DB", "parking_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		SnapshotBaseURL: getEnv("SNAPSHOT_BASE_URL", "http://localhost:8501"),
		SnapshotDir:     getEnv("SNAPSHOT_DIR", "./output/snapshots"),
		ChromeBin:       getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
