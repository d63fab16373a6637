// Package dbtest opens throwaway sqlite databases carrying the console schema.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The postgres schema lives in pkg/migrate/migrations; this is its sqlite
// shape with enum and array columns stored as TEXT. CHECK constraints keep the
// migration names and expressions, with char_length spelled length.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'operator',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS customer_orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  number_of_cells INTEGER NOT NULL,
  delivery_date DATE NOT NULL,
  larvae_transfer_date DATE NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT customer_orders_cells_positive CHECK (number_of_cells > 0),
  CONSTRAINT customer_orders_name_length CHECK (length(customer_name) BETWEEN 1 AND 200)
);`,
	`CREATE TABLE IF NOT EXISTS production_records (
  id TEXT PRIMARY KEY,
  transfer_date DATE NOT NULL,
  larvae_transferred INTEGER NOT NULL,
  cells_produced INTEGER NOT NULL,
  accepted_cells INTEGER,
  acceptance_date DATE,
  hives_used TEXT NOT NULL DEFAULT '{}',
  order_id TEXT REFERENCES customer_orders(id),
  notes TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT production_records_larvae_positive CHECK (larvae_transferred > 0),
  CONSTRAINT production_records_cells_non_negative CHECK (cells_produced >= 0),
  CONSTRAINT production_records_accepted_range CHECK (accepted_cells IS NULL OR (accepted_cells >= 0 AND accepted_cells <= larvae_transferred))
);`,
	`CREATE TABLE IF NOT EXISTS stock_packages (
  id TEXT PRIMARY KEY,
  production_id TEXT NOT NULL UNIQUE REFERENCES production_records(id),
  total_cells INTEGER NOT NULL,
  available_cells INTEGER NOT NULL,
  sold_cells INTEGER NOT NULL DEFAULT 0,
  origin_hives TEXT NOT NULL DEFAULT '{}',
  production_date DATE NOT NULL,
  expiration_date DATE NOT NULL,
  is_expired INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT stock_packages_counts_non_negative CHECK (total_cells >= 0 AND available_cells >= 0 AND sold_cells >= 0),
  CONSTRAINT stock_packages_conservation CHECK (available_cells + sold_cells <= total_cells)
);`,
	`CREATE TABLE IF NOT EXISTS stock_sales (
  id TEXT PRIMARY KEY,
  package_id TEXT NOT NULL REFERENCES stock_packages(id),
  customer_name TEXT NOT NULL,
  cells_sold INTEGER NOT NULL,
  sale_date DATETIME NOT NULL,
  created_at DATETIME,
  CONSTRAINT stock_sales_cells_positive CHECK (cells_sold > 0)
);`,
}

// Open returns an isolated in-memory database with every table created.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
