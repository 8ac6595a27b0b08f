package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SheetsConfig carries the spreadsheet naming scheme, the per-collection tab
// names, and the cooperative request budget against the Google APIs.
type SheetsConfig struct {
	SpreadsheetName string // exact name adopted/created per user
	SpreadsheetBase string // prefix used for fallback search and generated names
	ClientsTab      string
	ProjectsTab     string
	TasksTab        string
	TimeEntriesTab  string
	SettingsTab     string
	RatePerMinute   int
	RateBurst       int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sheets: SheetsConfig{
			SpreadsheetName: getEnv("SHEETS_SPREADSHEET_NAME", "ThisTracker-Main"),
			SpreadsheetBase: getEnv("SHEETS_SPREADSHEET_BASE", "ThisTracker"),
			ClientsTab:      getEnv("SHEETS_CLIENTS_TAB", "Clients"),
			ProjectsTab:     getEnv("SHEETS_PROJECTS_TAB", "Projects"),
			TasksTab:        getEnv("SHEETS_TASKS_TAB", "Tasks"),
			TimeEntriesTab:  getEnv("SHEETS_TIME_ENTRIES_TAB", "Time Entries"),
			SettingsTab:     getEnv("SHEETS_SETTINGS_TAB", "Settings"),
			RatePerMinute:   getEnvAsInt("SHEETS_RATE_LIMIT", 50),
			RateBurst:       getEnvAsInt("SHEETS_RATE_BURST", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Sheets.SpreadsheetName == "" || c.Sheets.SpreadsheetBase == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_NAME and SHEETS_SPREADSHEET_BASE are required")
	}

	if c.Sheets.RatePerMinute <= 0 {
		return fmt.Errorf("SHEETS_RATE_LIMIT must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
