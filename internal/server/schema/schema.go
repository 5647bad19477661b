// Package schema implements the startup schema guard for the users table.
//
// The guard is a two-state machine: if the table is absent it is created
// with the canonical definition; if present, its columns and constraints
// are validated against that definition and any drift refuses startup. It
// is deliberately not a migration engine; an existing table is never
// altered.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

// expectedColumn describes one column of the canonical users table, in
// ordinal order.
type expectedColumn struct {
	name     string
	dataType string
	nullable bool
}

var expectedColumns = []expectedColumn{
	{"id", "uuid", false},
	{"nickname", "text", false},
	{"email", "text", false},
	{"password_hash", "text", false},
	{"is_admin", "boolean", false},
	{"created_at", "timestamp with time zone", false},
}

// columnInfo is one row of the information_schema.columns catalog.
type columnInfo struct {
	name     string
	dataType string
	udtName  string
	nullable bool
}

// Ensure gates startup on the users table being reachable and shaped as
// expected. It probes connectivity (unavailable on failure), creates the
// table when absent, and otherwise validates structure and constraints
// (schema-mismatch on any drift). It runs once, before the server listens.
func Ensure(ctx context.Context, db dbx.DBTX, log logging.Logger) error {
	var probe int
	if err := db.QueryRowContext(ctx, `SELECT 1`).Scan(&probe); err != nil {
		return shared.Wrap(shared.KindUnavailable, err, "unable to reach PostgreSQL during startup")
	}

	exists, err := usersTableExists(ctx, db)
	if err != nil {
		return err
	}

	if !exists {
		log.Warn(ctx, "table 'users' is missing; creating required schema")
		if err := createUsersTable(ctx, db); err != nil {
			return err
		}
		log.Info(ctx, "table 'users' created")
		return nil
	}

	if err := validateUsersTable(ctx, db); err != nil {
		return err
	}

	log.Info(ctx, "database schema validated successfully")
	return nil
}

func usersTableExists(ctx context.Context, db dbx.DBTX) (bool, error) {

	query :=
		`SELECT EXISTS (
		   SELECT 1
		   FROM information_schema.tables
		   WHERE table_schema = 'public' AND table_name = 'users'
		 )`

	var exists bool
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func createUsersTable(ctx context.Context, db dbx.DBTX) error {

	query :=
		`CREATE TABLE IF NOT EXISTS users (
		     id UUID PRIMARY KEY,
		     nickname TEXT NOT NULL UNIQUE,
		     email TEXT NOT NULL UNIQUE,
		     password_hash TEXT NOT NULL,
		     is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		     created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func validateUsersTable(ctx context.Context, db dbx.DBTX) error {
	columns, err := fetchColumns(ctx, db)
	if err != nil {
		return err
	}

	if err := validateColumns(columns); err != nil {
		return err
	}

	return validateConstraints(ctx, db)
}

func fetchColumns(ctx context.Context, db dbx.DBTX) ([]columnInfo, error) {

	query :=
		`SELECT column_name, data_type, udt_name, is_nullable
		 FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = 'users'
		 ORDER BY ordinal_position
		 `

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var columns []columnInfo
	for rows.Next() {
		var col columnInfo
		var isNullable string
		if err := rows.Scan(&col.name, &col.dataType, &col.udtName, &isNullable); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		col.nullable = strings.EqualFold(isNullable, "YES")
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return columns, nil
}

// validateColumns compares the actual catalog rows against the canonical
// definition: count, name-by-name ordinal order, data type and nullability.
// Columns are walked positionally so the error names the first column that
// diverges, not just a count. The id column is matched on udt_name so a
// type alias in the declared type does not trip the guard.
func validateColumns(columns []columnInfo) error {
	for i, want := range expectedColumns {
		if i >= len(columns) {
			return shared.E(shared.KindSchemaMismatch,
				"users table is missing column '%s' (expected %d columns, got %d)",
				want.name, len(expectedColumns), len(columns))
		}
		got := columns[i]

		if got.name != want.name {
			return shared.E(shared.KindSchemaMismatch,
				"users column %d: expected '%s', got '%s'", i, want.name, got.name)
		}

		typeMatches := strings.EqualFold(got.dataType, want.dataType)
		if want.name == "id" {
			typeMatches = got.udtName == "uuid"
		}
		if !typeMatches {
			return shared.E(shared.KindSchemaMismatch,
				"users.%s: expected type '%s', got data_type='%s' udt_name='%s'",
				got.name, want.dataType, got.dataType, got.udtName)
		}

		if got.nullable != want.nullable {
			return shared.E(shared.KindSchemaMismatch,
				"users.%s: expected nullable=%v, got nullable=%v",
				got.name, want.nullable, got.nullable)
		}
	}

	if len(columns) > len(expectedColumns) {
		return shared.E(shared.KindSchemaMismatch,
			"users table has unexpected column '%s' (expected %d columns, got %d)",
			columns[len(expectedColumns)].name, len(expectedColumns), len(columns))
	}

	return nil
}

func validateConstraints(ctx context.Context, db dbx.DBTX) error {
	checks := []struct {
		constraintType string
		column         string
	}{
		{"PRIMARY KEY", "id"},
		{"UNIQUE", "email"},
		{"UNIQUE", "nickname"},
	}

	for _, c := range checks {
		ok, err := hasConstraint(ctx, db, c.constraintType, c.column)
		if err != nil {
			return err
		}
		if !ok {
			return shared.E(shared.KindSchemaMismatch,
				"users table is missing %s constraint on column '%s'",
				strings.ToLower(c.constraintType), c.column)
		}
	}

	return nil
}

func hasConstraint(ctx context.Context, db dbx.DBTX, constraintType, column string) (bool, error) {

	query :=
		`SELECT EXISTS (
		   SELECT 1
		   FROM information_schema.table_constraints tc
		   JOIN information_schema.key_column_usage kcu
		     ON tc.constraint_name = kcu.constraint_name
		    AND tc.table_schema = kcu.table_schema
		   WHERE tc.table_schema = 'public'
		     AND tc.table_name = 'users'
		     AND tc.constraint_type = $1
		     AND kcu.column_name = $2
		 )`

	var exists bool
	if err := db.QueryRowContext(ctx, query, constraintType, column).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
