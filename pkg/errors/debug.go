package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// UniqueViolation is the postgres SQLSTATE for a unique constraint failure.
const UniqueViolation = "23505"

// PGError is the driver-neutral view of a postgres error from pgx or lib/pq.
type PGError struct {
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// AsPGError finds a postgres error anywhere in err's chain.
func AsPGError(err error) (*PGError, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGError{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PGError{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}, true
	}
	return nil, false
}

// ErrorDump flattens an error for structured logs.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string
	PG         *PGError
}

// Dump walks err's unwrap chain.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	dump := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		dump.Chain = append(dump.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	if pg, ok := AsPGError(err); ok {
		dump.PG = pg
	}
	return dump
}

// Fields returns the dump as log fields. Postgres fields appear only when
// the chain holds a postgres error.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.PG != nil {
		fields["pg_code"] = d.PG.Code
		fields["pg_constraint"] = d.PG.Constraint
		fields["pg_table"] = d.PG.Table
		fields["pg_column"] = d.PG.Column
		fields["pg_detail"] = d.PG.Detail
		fields["pg_message"] = d.PG.Message
	}
	return fields
}
