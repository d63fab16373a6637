package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres", err: errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key"`), want: true},
		{name: "sqlite", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "named match", err: errors.New(`duplicate key value violates unique constraint "users_email_key"`), constraint: "users_email_key", want: true},
		{name: "named miss", err: errors.New(`duplicate key value violates unique constraint "other"`), constraint: "users_email_key", want: false},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
		{name: "pgx code", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"}), constraint: "users_email_lower_key", want: true},
		{name: "pgx other constraint", err: &pgconn.PgError{Code: "23505", ConstraintName: "stock_packages_production_id_key"}, constraint: "users_email_lower_key", want: false},
		{name: "pgx check violation", err: &pgconn.PgError{Code: "23514", Message: "duplicate key value"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
