package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-lodging/internal/model"
)

var (
	insertTicketSQL = regexp.QuoteMeta(`INSERT INTO tickets (ticket_type_id, enrollment_id, status) VALUES (?, ?, ?)`)
	ticketByID      = regexp.QuoteMeta(`JOIN ticket_types tt ON tt.id = t.ticket_type_id WHERE t.id = ?`)
)

func newTicketMock(t *testing.T) (sqlmock.Sqlmock, *TicketRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewTicketRepo(db)
}

func ticketRow(id, typeID, enrollmentID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "ticket_type_id", "enrollment_id", "status", "created_at", "updated_at",
		"tt.id", "tt.name", "tt.price", "tt.is_remote", "tt.includes_hotel", "tt.created_at", "tt.updated_at",
	}).AddRow(id, typeID, enrollmentID, "RESERVED", now, now, typeID, "Presencial + Hotel", 60000, false, true, now, now)
}

func TestTicketCreateReturnsReservedTicket(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectExec(insertTicketSQL).WithArgs(2, 5, model.TicketReserved).WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery(ticketByID).WithArgs(21).WillReturnRows(ticketRow(21, 2, 5))

	got, err := repo.Create(context.Background(), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), got.ID)
	assert.Equal(t, model.TicketReserved, got.Status)
	require.NotNil(t, got.TicketType)
	assert.True(t, got.TicketType.IncludesHotel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketCreateSecondTicketForEnrollment(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectExec(insertTicketSQL).WithArgs(2, 5, model.TicketReserved).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'enrollment_id'"})

	_, err := repo.Create(context.Background(), 5, 2)
	assert.ErrorIs(t, err, ErrTicketExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
