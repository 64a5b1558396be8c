package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port         string
	Env          string
	JWTSecret    string
	AllowedHosts []string

	Data    DataConfig
	Session SessionConfig
	DB      DatabaseConfig
	Redis   RedisConfig
	S3      S3Config
	Worker  WorkerConfig
}

// DataConfig points at the catalog and purchase log providers.
// Sources are file paths, s3://bucket/key URLs, or "db" for the SQL tables.
type DataConfig struct {
	CatalogSource   string
	PurchasesSource string
	TrendingLimit   int
}

// SessionConfig controls session lifetime.
type SessionConfig struct {
	TTL time.Duration
}

// DatabaseConfig contains SQL connection parameters. Driver is empty when no
// database is used.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a database driver is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Driver != ""
}

// RedisConfig contains Redis connection parameters. Host is empty when
// sessions are kept in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// S3Config contains AWS S3 configuration for s3:// data sources.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	ReloadInterval       time.Duration
	SessionSweepInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.AllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000")

	// Data providers
	cfg.Data = DataConfig{
		CatalogSource:   getEnv("CATALOG_SOURCE", "data/DMart.csv"),
		PurchasesSource: getEnv("PURCHASES_SOURCE", "data/Purchases.csv"),
		TrendingLimit:   getEnvInt("TRENDING_LIMIT", 5),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", ""),
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", defaultDBPort(getEnv("DB_DRIVER", ""))),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "ap-south-1"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Durations
	var err error
	if cfg.Session.TTL, err = parseDurationEnv("SESSION_TTL", "2h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Worker.ReloadInterval, err = parseDurationEnv("RELOAD_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}
	if cfg.Worker.SessionSweepInterval, err = parseDurationEnv("SESSION_SWEEP_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set to sign session tokens")
	}
	if c.Data.CatalogSource == "" || c.Data.PurchasesSource == "" {
		return errors.New("CATALOG_SOURCE and PURCHASES_SOURCE must not be empty")
	}
	if c.Data.TrendingLimit < 0 {
		return errors.New("TRENDING_LIMIT must be >= 0")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be > 0")
	}
	if c.Worker.ReloadInterval <= 0 || c.Worker.SessionSweepInterval <= 0 {
		return errors.New("worker intervals must be > 0")
	}

	switch c.DB.Driver {
	case "":
		if c.Data.CatalogSource == "db" || c.Data.PurchasesSource == "db" {
			return errors.New("DB_DRIVER must be set when a data source is \"db\"")
		}
	case "postgres", "mysql":
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use postgres or mysql)", c.DB.Driver)
	}
	return nil
}

func defaultDBPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvList splits a comma-separated environment variable, dropping blanks.
func getEnvList(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, def), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
