package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatementsDropsCommentsAndBlanks(t *testing.T) {
	got := splitStatements("-- header\nCREATE TABLE a (id INT);\n\n  -- note\nCREATE TABLE b (id INT);\n;")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, got)
}

func TestEmbeddedSchemaCoversEveryTable(t *testing.T) {
	stmts := splitStatements(schema)
	require.Len(t, stmts, 10)
	for _, table := range []string{"users", "sessions", "enrollments", "addresses", "ticket_types",
		"tickets", "payments", "hotels", "rooms", "bookings"} {
		found := false
		for _, s := range stmts {
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
		}
		assert.True(t, found, table)
	}
}

func TestWithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, WithTx(context.Background(), db, nil, func(*sql.Tx) error { return nil }))

	sentinel := errors.New("stop")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = WithTx(context.Background(), db, nil, func(*sql.Tx) error { return sentinel })
	assert.Equal(t, sentinel, err)

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))
	err = WithTx(context.Background(), db, nil, func(*sql.Tx) error { return nil })
	assert.ErrorContains(t, err, "begin tx")

	assert.NoError(t, mock.ExpectationsWereMet())
}
