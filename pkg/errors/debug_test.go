package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpIncludesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "stock_packages_cells_check", TableName: "stock_packages", Message: "violates check"}
	err := Wrap(CodeDependency, fmt.Errorf("sell: %w", pgErr), "record sale")

	dump := Dump(err)
	assert.Equal(t, CodeDependency, dump.Code)
	require.NotNil(t, dump.PG)
	assert.Equal(t, "stock_packages_cells_check", dump.PG.Constraint)
	assert.GreaterOrEqual(t, len(dump.Chain), 2)

	fields := dump.Fields()
	assert.Equal(t, "23514", fields["pg_code"])
	assert.Equal(t, "stock_packages", fields["pg_table"])
}

func TestDumpWithoutPostgresError(t *testing.T) {
	fields := Dump(errors.New("boom")).Fields()
	assert.Equal(t, "boom", fields["error"])
	assert.NotContains(t, fields, "pg_code")

	assert.Empty(t, Dump(nil).TopMessage)
}

func TestAsPGErrorFromLibPQ(t *testing.T) {
	pg, ok := AsPGError(&pq.Error{Code: "23505", Constraint: "users_email_lower_key"})
	require.True(t, ok)
	assert.Equal(t, UniqueViolation, pg.Code)
	assert.Equal(t, "users_email_lower_key", pg.Constraint)

	_, ok = AsPGError(errors.New("plain"))
	assert.False(t, ok)
}
