package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named
// <dir>/<UTC timestamp>_<snake_name>.sql and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", errors.New("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %q: %w", dir, err)
	}

	target := filepath.Join(dir, time.Now().UTC().Format("20060102150405")+"_"+slug+".sql")
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, migrationTemplate, slug); err != nil {
		return "", fmt.Errorf("write migration %q: %w", target, err)
	}
	return target, nil
}

func migrationSlug(name string) string {
	slug := unsafeNameChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(slug, "_")
}
