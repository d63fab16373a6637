package dbtest

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/alanhoffer/hf-dashboard/pkg/migrate"
	"github.com/google/go-cmp/cmp"
)

var checkConstraint = regexp.MustCompile(`(?m)CONSTRAINT\s+(\w+)\s+CHECK\s*(\(.*\))\s*,?\s*$`)

func checks(t *testing.T, sql string, into map[string]string) {
	t.Helper()
	for _, m := range checkConstraint.FindAllStringSubmatch(sql, -1) {
		if _, dup := into[m[1]]; dup {
			t.Fatalf("constraint %s declared twice", m[1])
		}
		expr := strings.ToLower(strings.Join(strings.Fields(m[2]), " "))
		into[m[1]] = strings.ReplaceAll(expr, "char_length(", "length(")
	}
}

func TestSchemaChecksMatchMigrations(t *testing.T) {
	migrations := map[string]string{}
	files, err := fs.Glob(migrate.Files(), "migrations/*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("list migrations: %v (%d files)", err, len(files))
	}
	for _, name := range files {
		body, err := fs.ReadFile(migrate.Files(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		checks(t, string(body), migrations)
	}

	sqlite := map[string]string{}
	checks(t, strings.Join(schema, "\n"), sqlite)

	if len(migrations) == 0 {
		t.Fatal("no CHECK constraints found in migrations")
	}
	if diff := cmp.Diff(migrations, sqlite); diff != "" {
		t.Fatalf("sqlite schema CHECK constraints drifted from migrations (-migrations +sqlite):\n%s", diff)
	}
}

func TestOpenEnforcesChecks(t *testing.T) {
	conn := Open(t)
	err := conn.Exec(`INSERT INTO customer_orders (id, customer_name, number_of_cells, delivery_date, larvae_transfer_date)
VALUES ('a', '', 3, '2026-06-10', '2026-05-28')`).Error
	if err == nil {
		t.Fatal("empty customer name should violate customer_orders_name_length")
	}
	err = conn.Exec(`INSERT INTO customer_orders (id, customer_name, number_of_cells, delivery_date, larvae_transfer_date)
VALUES ('b', 'Apiario Sur', 3, '2026-06-10', '2026-05-28')`).Error
	if err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
}
