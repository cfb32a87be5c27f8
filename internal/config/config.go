package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Store    StoreConfig
	Database DatabaseConfig
	Session  SessionConfig
	Catalog  CatalogConfig
}

// StoreConfig selects the durable key/value backend
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds database configuration (STORE_DRIVER=mysql)
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// SessionConfig holds session configuration
type SessionConfig struct {
	LoginDelay   time.Duration
	RefreshDelay time.Duration
	RefreshSpec  string // cron spec for the token refresher; "off" disables it
	BcryptCost   int
}

// CatalogConfig holds catalog configuration
type CatalogConfig struct {
	CodeRule string // strict | relaxed
	PageSize int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalogConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Store:    store,
		Database: loadDatabaseConfig(appMode),
		Session:  loadSessionConfig(),
		Catalog:  catalog,
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, store.Driver)
	return config, nil
}

// loadStoreConfig loads the store backend selection
func loadStoreConfig() (StoreConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", DriverSQLite)))
	switch driver {
	case DriverMemory, DriverSQLite, DriverMySQL:
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be memory, sqlite or mysql)", driver)
	}

	return StoreConfig{
		Driver:     driver,
		SQLitePath: getEnv("STORE_SQLITE_PATH", "portal.db"),
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "course_portal"),
	}
}

// loadSessionConfig loads session config
func loadSessionConfig() SessionConfig {
	loginMs, _ := strconv.Atoi(getEnv("LOGIN_DELAY_MS", "1000"))
	refreshMs, _ := strconv.Atoi(getEnv("REFRESH_DELAY_MS", "500"))
	cost, _ := strconv.Atoi(getEnv("BCRYPT_COST", "10"))

	return SessionConfig{
		LoginDelay:   time.Duration(loginMs) * time.Millisecond,
		RefreshDelay: time.Duration(refreshMs) * time.Millisecond,
		RefreshSpec:  getEnv("TOKEN_REFRESH_SPEC", "@every 15m"),
		BcryptCost:   cost,
	}
}

// loadCatalogConfig loads catalog config
func loadCatalogConfig() (CatalogConfig, error) {
	rule := strings.ToLower(strings.TrimSpace(getEnv("COURSE_CODE_RULE", "strict")))
	if rule != "strict" && rule != "relaxed" {
		return CatalogConfig{}, fmt.Errorf("invalid COURSE_CODE_RULE: '%s' (must be 'strict' or 'relaxed')", rule)
	}

	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "6"))
	if err != nil || pageSize < 1 {
		return CatalogConfig{}, fmt.Errorf("invalid PAGE_SIZE: must be a positive integer")
	}

	return CatalogConfig{
		CodeRule: rule,
		PageSize: pageSize,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:" + c.Port
	}
	return origins
}
