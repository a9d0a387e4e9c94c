package db

import (
	"fmt"
	"strings"
	"time"

	"agrocredit-backend/internal/config"
	"agrocredit-backend/internal/domain/advisory"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the pool and the gorm SQL logger.
type Options struct {
	LogLevel        logger.LogLevel
	// Logger receives gorm's SQL log; nil discards it.
	Logger          *zap.Logger
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultOptions() Options {
	return Options{
		LogLevel:        logger.Warn,
		MaxOpenConns:    30,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// ParseLogLevel maps silent|error|warn|info to a gorm log level.
func ParseLogLevel(s string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "", "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return 0, fmt.Errorf("unknown db log level %q", s)
}

// Open picks the dialector from cfg.DBDriver.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	opts := DefaultOptions()
	lvl, err := ParseLogLevel(cfg.DBLogLevel)
	if err != nil {
		return nil, err
	}
	opts.LogLevel = lvl
	opts.Logger = log

	var dial gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dial = mysql.Open(cfg.MySQLDSN())
	case config.DriverSQLite:
		dial = sqlite.Open(cfg.SQLiteDSN())
		// one writer at a time
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gdb, err := OpenGormWithDialector(dial, opts)
	if err != nil {
		return nil, err
	}
	log.Info("gorm: connected", zap.String("driver", cfg.DBDriver))
	return gdb, nil
}

func OpenGormWithDialector(dial gorm.Dialector, opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: newZapLogger(opts.Logger, opts.LogLevel),
		// we ping below, after the pool is sized
		DisableAutomaticPing: true,
	}
	gdb, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return gdb, nil
}

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&farmer.Farmer{},
		&farmer.Farm{},
		&loan.LoanRequest{},
		&payment.Payment{},
		&advisory.UtilityReading{},
		&advisory.Recommendation{},
	}
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
