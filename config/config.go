package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Redis    RedisConfig
	Engine   EngineConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment string
	Port        string
}

// RedisConfig holds the optional dashboard cache configuration.
// An empty Host disables the cache entirely.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// EngineConfig holds the reconciliation engine policy knobs.
// The defaults are product policy observed in production dashboards;
// they are configurable because their rationale is not derivable from
// the data model alone.
type EngineConfig struct {
	// A cell whose resolved capacity is at or below this value counts as
	// occupied/unoccupied instead of by raw row count.
	CapacityExclusiveThreshold int

	// Severity bucket upper bounds for absolute discrepancies.
	SeverityMinorBelow    int64
	SeverityModerateBelow int64
	SeverityHighBelow     int64

	// Discrepancy snapshots keep only the top N by absolute difference.
	DiscrepancyTopN int

	// Material summaries keep only the top N item codes by quantity.
	TopMaterials int

	// Debounce window for change-triggered refreshes.
	RefreshDebounce time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		fmt.Println("No .env file found")
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "warehouse_ops"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Minute),
		},
		Engine: EngineConfig{
			CapacityExclusiveThreshold: getEnvInt("ENGINE_CAPACITY_EXCLUSIVE_THRESHOLD", 1),
			SeverityMinorBelow:         int64(getEnvInt("ENGINE_SEVERITY_MINOR_BELOW", 10)),
			SeverityModerateBelow:      int64(getEnvInt("ENGINE_SEVERITY_MODERATE_BELOW", 100)),
			SeverityHighBelow:          int64(getEnvInt("ENGINE_SEVERITY_HIGH_BELOW", 1000)),
			DiscrepancyTopN:            getEnvInt("ENGINE_DISCREPANCY_TOP_N", 100),
			TopMaterials:               getEnvInt("ENGINE_TOP_MATERIALS", 20),
			RefreshDebounce:            getEnvDuration("ENGINE_REFRESH_DEBOUNCE", 5*time.Second),
		},
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an integer environment variable with a fallback value
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration gets a duration environment variable with a fallback value
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
