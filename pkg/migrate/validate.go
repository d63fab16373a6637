package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

var migrationNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredDirectives = []string{"-- +goose Up", "-- +goose Down"}

// ValidateDir checks the migrations in dir. See ValidateFS.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("migrations dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateEmbedded checks the migrations compiled into the binary.
func ValidateEmbedded() error {
	return ValidateFS(embedded, embeddedDir)
}

// ValidateFS requires every .sql file under root to be named
// YYYYMMDDHHMMSS_snake_name.sql with a unique version and to carry both
// goose Up and Down sections.
func ValidateFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("read migrations %q: %w", root, err)
	}

	versions := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		match := migrationNameRe.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("invalid migration filename %q (want YYYYMMDDHHMMSS_name.sql)", name)
		}
		if other, dup := versions[match[1]]; dup {
			return fmt.Errorf("version %s used by both %q and %q", match[1], other, name)
		}
		versions[match[1]] = name

		body, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return fmt.Errorf("read %q: %w", name, err)
		}
		for _, directive := range requiredDirectives {
			if !strings.Contains(string(body), directive) {
				return fmt.Errorf("migration %q has no %q section", name, directive)
			}
		}
	}
	return nil
}
