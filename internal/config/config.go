package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration shared by the server, worker and CLI
type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisURL    string

	SessionTTL time.Duration

	// There is no authentication; API calls act as these fixed users.
	DemoUserID         string
	DemoBusinessUserID string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	WahaBaseURL string
	WahaAPIKey  string

	TelegramToken string

	WorkerInterval  time.Duration
	ChartAssetsHost string
}

// Load reads .env (when present) and the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() Config {
	return Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),

		DemoUserID:         getEnv("DEMO_USER_ID", "user_123"),
		DemoBusinessUserID: getEnv("DEMO_BUSINESS_USER_ID", "business_user_123"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  os.Getenv("SMTP_PORT"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		WahaBaseURL: getEnv("WAHA_BASE_URL", "http://waha:3000"),
		WahaAPIKey:  os.Getenv("WAHA_API_KEY"),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		WorkerInterval:  getEnvDuration("WORKER_INTERVAL", 5*time.Minute),
		ChartAssetsHost: os.Getenv("CHART_ASSETS_HOST"),
	}
}

// IsProduction reports whether ENV=production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvDuration accepts Go durations ("90s", "24h") or a bare number of
// seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs := getEnvInt(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
