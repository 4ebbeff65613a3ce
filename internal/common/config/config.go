package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Gateway
	LayoutURL string

	// Layout service
	DBPath            string
	ExportDir         string
	GuestAPIURL       string
	GuestAPITimeout   time.Duration
	HistoryLimit      int
	DefaultPxPerMeter float64
}

// Load reads the configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		LayoutURL: getEnv("LAYOUT_URL", "http://localhost:3003"),

		DBPath:            getEnv("LAYOUT_DB_PATH", "./data/layout.db"),
		ExportDir:         getEnv("LAYOUT_EXPORT_DIR", "./data/exports"),
		GuestAPIURL:       getEnv("GUEST_API_URL", ""),
		GuestAPITimeout:   time.Duration(getEnvAsInt("GUEST_API_TIMEOUT", 5)) * time.Second,
		HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", 50),
		DefaultPxPerMeter: getEnvAsFloat("DEFAULT_PX_PER_METER", 0),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
