package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	Environment       string
	LogLevel          string
	DatabaseURL       string
	DBHost            string
	DBPort            int
	DBName            string
	DBUser            string
	DBPassword        string
	DBPasswordFile    string
	DBSSLMode         string
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	QueryTimeout      time.Duration
	ShutdownTimeout   time.Duration
	RunMigrations     bool
	RunSeed           bool
	MetricsEnabled    bool

	// passwordFileErr is a DB_PASSWORD_FILE read failure, reported by Validate.
	passwordFileErr error
}

// LoadEnvFile loads key/value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() Config {
	cfg := Config{
		Addr:              getEnv("APP_ADDR", ":8080"),
		Environment:       getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBHost:            getEnv("DB_HOST", "127.0.0.1"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBName:            getEnv("DB_NAME", "performance_db"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBPasswordFile:    getEnv("DB_PASSWORD_FILE", ""),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		QueryTimeout:      getEnvDuration("QUERY_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RunMigrations:     getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:           getEnvBool("RUN_SEED", false),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
	if cfg.DBPassword == "" && cfg.DBPasswordFile != "" {
		secret, err := os.ReadFile(cfg.DBPasswordFile)
		if err != nil {
			cfg.passwordFileErr = fmt.Errorf("read DB_PASSWORD_FILE: %w", err)
		} else {
			cfg.DBPassword = strings.TrimSpace(string(secret))
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a postgres:// URL
// assembled from the individual DB_* options.
func (c Config) DatabaseDSN() string {
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return c.DatabaseURL
	}
	dsn := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		dsn.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else {
		dsn.User = url.User(c.DBUser)
	}
	if c.DBSSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return dsn.String()
}

// RedactedDSN is DatabaseDSN with the password masked, for logging.
func (c Config) RedactedDSN() string {
	parsed, err := url.Parse(c.DatabaseDSN())
	if err != nil {
		return "<invalid dsn>"
	}
	return parsed.Redacted()
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if c.passwordFileErr != nil {
		return c.passwordFileErr
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		if strings.TrimSpace(c.DBHost) == "" {
			return fmt.Errorf("DB_HOST is required when DATABASE_URL is not set")
		}
		if strings.TrimSpace(c.DBName) == "" {
			return fmt.Errorf("DB_NAME is required when DATABASE_URL is not set")
		}
		if c.DBPort <= 0 || c.DBPort > 65535 {
			return fmt.Errorf("DB_PORT must be between 1 and 65535")
		}
	}
	if c.IsProduction() && c.DBPassword == "" && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DB_PASSWORD or DB_PASSWORD_FILE must be set in production")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
