// Package store provides database access methods for all YaMDb entities.
// Each store struct wraps a *sql.DB and exposes typed query methods that
// take the caller's context explicitly.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by update and delete methods when no row matched.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate wraps unique constraint violations.
	ErrDuplicate = errors.New("duplicate record")

	// ErrReference wraps foreign key violations.
	ErrReference = errors.New("referenced record does not exist")

	// ErrCheck wraps CHECK constraint violations.
	ErrCheck = errors.New("check constraint violated")
)

// PostgreSQL SQLSTATE codes mapped by constraintErr.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// ConstraintError describes a violated database constraint. It matches
// one of ErrDuplicate, ErrReference or ErrCheck with errors.Is.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// constraintErr converts PostgreSQL constraint violations into
// *ConstraintError and returns every other error unchanged.
func constraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind error
	switch pgErr.Code {
	case codeUniqueViolation:
		kind = ErrDuplicate
	case codeForeignKeyViolation:
		kind = ErrReference
	case codeCheckViolation:
		kind = ErrCheck
	default:
		return err
	}
	return &ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
}

// ViolatedConstraint returns the constraint name carried by err, or "".
func ViolatedConstraint(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// mustAffect returns ErrNotFound when res reports zero affected rows.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
