package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/task-scheduler/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mysqlDatetimePrecision keeps microseconds so timestamps read back unchanged.
const mysqlDatetimePrecision = 6

// Now is the clock used for every server-assigned timestamp.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Connect opens the configured database and applies pool settings.
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if isMemorySQLite(cfg) {
		// every new connection to :memory: is a fresh, empty database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	log.Info("database connection established", "driver", cfg.DBDriver)
	return db, nil
}

// Dialector selects the gorm dialector for cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		precision := mysqlDatetimePrecision
		return mysql.New(mysql.Config{
			DSN:                      cfg.DSN(),
			DefaultDatetimePrecision: &precision,
		}), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// GormConfig routes SQL logging through slog and pins the clock to UTC.
func GormConfig(cfg *config.Config, log *slog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelDebug),
			logger.Config{
				SlowThreshold:             cfg.DBSlowThreshold,
				LogLevel:                  LogLevel(cfg.DBLogLevel),
				IgnoreRecordNotFoundError: true,
			},
		),
		NowFunc:        Now,
		TranslateError: true,
	}
}

// LogLevel maps DB_LOG_LEVEL onto gorm's logger levels.
func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isMemorySQLite(cfg *config.Config) bool {
	return cfg.DBDriver == config.DriverSQLite && strings.Contains(cfg.DBPath, ":memory:")
}
