package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBLogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"agrocredit"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"agrocredit"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"agrocredit"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"agrocredit.db"`

	// empty disables the idempotency middleware
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	IdempTTLSecs int    `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SeedOnStart bool   `env:"SEED_ON_START" envDefault:"false"`
	SeedFile    string `env:"SEED_FILE"`

	// DefaultFarmerID is used when a farmer request carries no identity header; 0 disables it.
	DefaultFarmerID uint64        `env:"DEFAULT_FARMER_ID" envDefault:"0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// SQLiteDSN opens write transactions with BEGIN IMMEDIATE so concurrent
// payments on one file serialize instead of failing on lock upgrade.
func (c *Config) SQLiteDSN() string {
	q := url.Values{}
	q.Set("_txlock", "immediate")
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	return "file:" + c.SQLitePath + "?" + q.Encode()
}
