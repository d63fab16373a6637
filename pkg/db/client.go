package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Client owns the shared GORM connection pool.
type Client struct {
	conn *gorm.DB
}

// New opens the configured database and applies pool limits. Queries slower
// than cfg.SlowQueryThreshold are logged through logg.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}

	conn, err := gorm.Open(dialectorFor(cfg), &gorm.Config{
		Logger:                 newQueryLogger(logg, cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driverName(cfg), err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	configurePool(sqlDB, cfg)

	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", driverName(cfg)), "database connection established")
	}
	return &Client{conn: conn}, nil
}

// NewFromGorm wraps a connection opened elsewhere, mostly in tests.
func NewFromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg config.DBConfig) gorm.Dialector {
	if cfg.IsSQLite() {
		return sqlite.Open(cfg.DSN)
	}
	return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true})
}

func driverName(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return config.DBDriverSQLite
	}
	return config.DBDriverPostgres
}

func configurePool(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping backs the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. An error or panic from fn rolls it back.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
