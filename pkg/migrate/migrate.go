// Package migrate runs the goose SQL migrations that define the console schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `migrate create` writes new files.
const DefaultDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Files exposes the migrations compiled into the binary.
func Files() fs.FS {
	return embedded
}

// Run executes a goose command. An empty dir runs the embedded migrations.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	dir, err := prepare(dir)
	if err != nil {
		return err
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion migrates up/down to the requested version by comparing current DB version.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	if targetVersion == "" {
		return fmt.Errorf("targetVersion is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	dir, err = prepare(dir)
	if err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
		return nil
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
		return nil
	}
}

// The schema uses enum types and text[] columns, so only postgres is supported.
func prepare(dir string) (string, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	if dir == "" {
		goose.SetBaseFS(embedded)
		return embeddedDir, nil
	}
	goose.SetBaseFS(nil)
	return dir, nil
}
