package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver          string        `yaml:"db_driver" env:"DB_DRIVER" env-default:"mysql"`
	DBHost            string        `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort            string        `yaml:"db_port" env:"DB_PORT"`
	DBUser            string        `yaml:"db_user" env:"DB_USER" env-default:"scheduler"`
	DBPassword        string        `yaml:"db_password" env:"DB_PASSWORD" env-default:"scheduler"`
	DBName            string        `yaml:"db_name" env:"DB_NAME" env-default:"task_scheduler"`
	DBSSLMode         string        `yaml:"db_sslmode" env:"DB_SSLMODE" env-default:"disable"`
	DBPath            string        `yaml:"db_path" env:"DB_PATH" env-default:"task_scheduler.db"`
	DBMaxOpenConns    int           `yaml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DBMaxIdleConns    int           `yaml:"db_max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	DBLogLevel        string        `yaml:"db_log_level" env:"DB_LOG_LEVEL" env-default:"warn"`
	DBSlowThreshold   time.Duration `yaml:"db_slow_threshold" env:"DB_SLOW_THRESHOLD" env-default:"200ms"`

	HTTPAddr           string   `yaml:"http_addr" env:"HTTP_ADDR" env-default:":8080"`
	GinMode            string   `yaml:"gin_mode" env:"GIN_MODE" env-default:"debug"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	BcryptCost int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// Load reads an optional .env file, then the YAML file at path (if any) and
// the environment. Environment variables win over file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch strings.ToLower(c.DBLogLevel) {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unsupported DB_LOG_LEVEL %q", c.DBLogLevel)
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("connection pool sizes must not be negative")
	}
	return nil
}

// DSN builds the driver-specific data source name.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.DBHost,
			c.portOrDefault("5432"),
			c.DBUser,
			c.DBPassword,
			c.DBName,
			c.DBSSLMode,
		)
	case DriverSQLite:
		sep := "?"
		if strings.Contains(c.DBPath, "?") {
			sep = "&"
		}
		return c.DBPath + sep + "_foreign_keys=on"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			c.portOrDefault("3306"),
			c.DBName,
		)
	}
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) portOrDefault(def string) string {
	if c.DBPort == "" {
		return def
	}
	return c.DBPort
}
