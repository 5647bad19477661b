package schema

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

var (
	probeQ       = `^SELECT\s+1$`
	tableExistsQ = `(?s)information_schema\.tables`
	columnsQ     = `(?s)information_schema\.columns`
	constraintQ  = `(?s)information_schema\.table_constraints`
	createQ      = `(?s)^CREATE\s+TABLE\s+IF\s+NOT\s+EXISTS\s+users`
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func canonicalColumnRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"column_name", "data_type", "udt_name", "is_nullable"})
	rows.AddRow("id", "uuid", "uuid", "NO")
	rows.AddRow("nickname", "text", "text", "NO")
	rows.AddRow("email", "text", "text", "NO")
	rows.AddRow("password_hash", "text", "text", "NO")
	rows.AddRow("is_admin", "boolean", "bool", "NO")
	rows.AddRow("created_at", "timestamp with time zone", "timestamptz", "NO")
	return rows
}

func existsRow(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

func expectProbe(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(probeQ).WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
}

func TestEnsure_CreatesMissingTable(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	expectProbe(mock)
	mock.ExpectQuery(tableExistsQ).WillReturnRows(existsRow(false))
	mock.ExpectExec(createQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := Ensure(context.Background(), db, quietLogger())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsure_ValidatesExistingTable(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	expectProbe(mock)
	mock.ExpectQuery(tableExistsQ).WillReturnRows(existsRow(true))
	mock.ExpectQuery(columnsQ).WillReturnRows(canonicalColumnRows())
	mock.ExpectQuery(constraintQ).WithArgs("PRIMARY KEY", "id").WillReturnRows(existsRow(true))
	mock.ExpectQuery(constraintQ).WithArgs("UNIQUE", "email").WillReturnRows(existsRow(true))
	mock.ExpectQuery(constraintQ).WithArgs("UNIQUE", "nickname").WillReturnRows(existsRow(true))

	err := Ensure(context.Background(), db, quietLogger())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsure_UnreachableDatabaseIsUnavailable(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery(probeQ).WillReturnError(errors.New("connection refused"))

	err := Ensure(context.Background(), db, quietLogger())
	require.Error(t, err)
	assert.Equal(t, shared.KindUnavailable, shared.KindOf(err))
}

func TestEnsure_MissingIsAdminColumnNamesIt(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "udt_name", "is_nullable"})
	rows.AddRow("id", "uuid", "uuid", "NO")
	rows.AddRow("nickname", "text", "text", "NO")
	rows.AddRow("email", "text", "text", "NO")
	rows.AddRow("password_hash", "text", "text", "NO")
	rows.AddRow("created_at", "timestamp with time zone", "timestamptz", "NO")

	expectProbe(mock)
	mock.ExpectQuery(tableExistsQ).WillReturnRows(existsRow(true))
	mock.ExpectQuery(columnsQ).WillReturnRows(rows)

	err := Ensure(context.Background(), db, quietLogger())
	require.Error(t, err)
	assert.Equal(t, shared.KindSchemaMismatch, shared.KindOf(err))
	assert.Contains(t, err.Error(), "is_admin")
}

func TestEnsure_MissingUniqueConstraintIsMismatch(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	expectProbe(mock)
	mock.ExpectQuery(tableExistsQ).WillReturnRows(existsRow(true))
	mock.ExpectQuery(columnsQ).WillReturnRows(canonicalColumnRows())
	mock.ExpectQuery(constraintQ).WithArgs("PRIMARY KEY", "id").WillReturnRows(existsRow(true))
	mock.ExpectQuery(constraintQ).WithArgs("UNIQUE", "email").WillReturnRows(existsRow(false))

	err := Ensure(context.Background(), db, quietLogger())
	require.Error(t, err)
	assert.Equal(t, shared.KindSchemaMismatch, shared.KindOf(err))
	assert.Contains(t, err.Error(), "email")
}

func TestValidateColumns(t *testing.T) {
	canonical := []columnInfo{
		{"id", "uuid", "uuid", false},
		{"nickname", "text", "text", false},
		{"email", "text", "text", false},
		{"password_hash", "text", "text", false},
		{"is_admin", "boolean", "bool", false},
		{"created_at", "timestamp with time zone", "timestamptz", false},
	}

	t.Run("canonical passes", func(t *testing.T) {
		require.NoError(t, validateColumns(canonical))
	})

	t.Run("id matched on udt_name not declared type", func(t *testing.T) {
		cols := append([]columnInfo(nil), canonical...)
		cols[0].dataType = "USER-DEFINED"
		require.NoError(t, validateColumns(cols))
	})

	t.Run("data type compared case-insensitively", func(t *testing.T) {
		cols := append([]columnInfo(nil), canonical...)
		cols[1].dataType = "TEXT"
		require.NoError(t, validateColumns(cols))
	})

	t.Run("wrong type is named", func(t *testing.T) {
		cols := append([]columnInfo(nil), canonical...)
		cols[4] = columnInfo{"is_admin", "integer", "int4", false}
		err := validateColumns(cols)
		require.Error(t, err)
		assert.Equal(t, shared.KindSchemaMismatch, shared.KindOf(err))
		assert.Contains(t, err.Error(), "is_admin")
		assert.Contains(t, err.Error(), "integer")
	})

	t.Run("nullable drift is named", func(t *testing.T) {
		cols := append([]columnInfo(nil), canonical...)
		cols[2].nullable = true
		err := validateColumns(cols)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "nullable=true")
	})

	t.Run("reordered columns fail", func(t *testing.T) {
		cols := append([]columnInfo(nil), canonical...)
		cols[1], cols[2] = cols[2], cols[1]
		err := validateColumns(cols)
		require.Error(t, err)
		assert.Equal(t, shared.KindSchemaMismatch, shared.KindOf(err))
	})

	t.Run("extra trailing column fails", func(t *testing.T) {
		cols := append(append([]columnInfo(nil), canonical...), columnInfo{"extra", "text", "text", true})
		err := validateColumns(cols)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extra")
	})

	t.Run("truncated table names first missing column", func(t *testing.T) {
		err := validateColumns(canonical[:4])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is_admin")
	})
}
