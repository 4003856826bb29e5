package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	MigrationsPath string
	ConfigFile     string

	// Analytics, loaded from the YAML overlay
	EVM       EVMConfig
	Dashboard DashboardConfig
}

// EVMConfig tunes the earned value engine.
type EVMConfig struct {
	Curve                  string  `yaml:"curve"`
	MaxFutureMonths        int     `yaml:"max_future_months"`
	DeteriorationThreshold float64 `yaml:"deterioration_threshold"`
	TrendWindow            int     `yaml:"trend_window"`
	InProgressWeight       float64 `yaml:"in_progress_weight"`
}

// DashboardConfig tunes the dashboard payload.
type DashboardConfig struct {
	RecentEntries int `yaml:"recent_entries"`
}

// overlay mirrors the YAML file layout.
type overlay struct {
	EVM       EVMConfig       `yaml:"evm"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

var appConfig *Config

// Defaults returns the analytics settings used when no overlay is present.
func Defaults() (EVMConfig, DashboardConfig) {
	evm := EVMConfig{
		Curve:                  "linear",
		MaxFutureMonths:        12,
		DeteriorationThreshold: 0.05,
		TrendWindow:            2,
		InProgressWeight:       0.5,
	}
	return evm, DashboardConfig{RecentEntries: 10}
}

// Load loads configuration from environment variables and the optional
// YAML overlay.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	evm, dashboard := Defaults()
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "costs"),
		DBPassword: getEnv("DB_PASSWORD", "costs"),
		DBName:     getEnv("DB_NAME", "costs"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "costs.db"),

		MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		ConfigFile:     getEnv("CONFIG_FILE", "config.yaml"),

		EVM:       evm,
		Dashboard: dashboard,
	}

	if err := config.loadOverlay(); err != nil {
		return nil, err
	}
	if err := overrideFromEnv(config); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// loadOverlay decodes the YAML file into the analytics settings. A missing
// file is not an error.
func (c *Config) loadOverlay() error {
	f, err := os.Open(c.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", c.ConfigFile, err)
	}
	defer f.Close()

	o := overlay{EVM: c.EVM, Dashboard: c.Dashboard}
	if err := yaml.NewDecoder(f).Decode(&o); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.ConfigFile, err)
	}
	c.EVM = o.EVM
	c.Dashboard = o.Dashboard
	return nil
}

// overrideFromEnv lets environment variables win over the YAML overlay.
func overrideFromEnv(c *Config) error {
	if v := os.Getenv("EVM_CURVE"); v != "" {
		c.EVM.Curve = v
	}
	if v := os.Getenv("EVM_MAX_FUTURE_MONTHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EVM_MAX_FUTURE_MONTHS %q: %w", v, err)
		}
		c.EVM.MaxFutureMonths = n
	}
	if v := os.Getenv("EVM_DETERIORATION_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid EVM_DETERIORATION_THRESHOLD %q: %w", v, err)
		}
		c.EVM.DeteriorationThreshold = f
	}
	if v := os.Getenv("EVM_TREND_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EVM_TREND_WINDOW %q: %w", v, err)
		}
		c.EVM.TrendWindow = n
	}
	if v := os.Getenv("EVM_IN_PROGRESS_WEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid EVM_IN_PROGRESS_WEIGHT %q: %w", v, err)
		}
		c.EVM.InProgressWeight = f
	}
	if v := os.Getenv("DASHBOARD_RECENT_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_RECENT_ENTRIES %q: %w", v, err)
		}
		c.Dashboard.RecentEntries = n
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
