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
	lockRoomSQL   = regexp.QuoteMeta(`FROM rooms WHERE id = ? FOR UPDATE`)
	countRoomSQL  = regexp.QuoteMeta(`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND id <> ?`)
	insertBookSQL = regexp.QuoteMeta(`INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`)
	moveBookSQL   = regexp.QuoteMeta(`UPDATE bookings SET room_id = ?`)
	bookingByID   = regexp.QuoteMeta(`JOIN rooms r ON r.id = b.room_id WHERE b.id = ?`)
)

func hasFreeBed(room *model.Room) bool { return room.Bookings < room.Capacity }

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *BookingRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, func() *BookingRepo { return NewBookingRepo(db) }
}

func roomRow(id uint64, capacity uint32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "capacity", "hotel_id", "created_at", "updated_at"}).
		AddRow(id, "101", capacity, 1, now, now)
}

func bookingRow(id, userID, roomID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "created_at", "updated_at",
		"r.id", "r.name", "r.capacity", "r.hotel_id", "r.created_at", "r.updated_at",
	}).AddRow(id, userID, roomID, now, now, roomID, "101", 2, 1, now, now)
}

func countRow(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestCreateAdmittedInsertsUnderRoomLock(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(roomRow(3, 2))
	mock.ExpectQuery(countRoomSQL).WithArgs(3, 0).WillReturnRows(countRow(1))
	mock.ExpectExec(insertBookSQL).WithArgs(7, 3).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(bookingByID).WithArgs(11).WillReturnRows(bookingRow(11, 7, 3))
	mock.ExpectCommit()

	b, err := repo().CreateAdmitted(context.Background(), 7, 3, hasFreeBed)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), b.ID)
	require.NotNil(t, b.Room)
	assert.Equal(t, uint64(3), b.Room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdmittedFullRoomRollsBack(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(roomRow(3, 1))
	mock.ExpectQuery(countRoomSQL).WithArgs(3, 0).WillReturnRows(countRow(1))
	mock.ExpectRollback()

	_, err := repo().CreateAdmitted(context.Background(), 7, 3, hasFreeBed)
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdmittedMissingRoom(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo().CreateAdmitted(context.Background(), 7, 3, hasFreeBed)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdmittedDuplicateUser(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(roomRow(3, 5))
	mock.ExpectQuery(countRoomSQL).WithArgs(3, 0).WillReturnRows(countRow(0))
	mock.ExpectExec(insertBookSQL).WithArgs(7, 3).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := repo().CreateAdmitted(context.Background(), 7, 3, hasFreeBed)
	assert.ErrorIs(t, err, ErrBookingExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveAdmittedExcludesMovingBooking(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(roomRow(3, 1))
	mock.ExpectQuery(countRoomSQL).WithArgs(3, 11).WillReturnRows(countRow(0))
	mock.ExpectExec(moveBookSQL).WithArgs(3, 11, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(bookingByID).WithArgs(11).WillReturnRows(bookingRow(11, 7, 3))
	mock.ExpectCommit()

	b, err := repo().MoveAdmitted(context.Background(), 7, 11, 3, hasFreeBed)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), b.RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveAdmittedForeignBooking(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomSQL).WithArgs(3).WillReturnRows(roomRow(3, 4))
	mock.ExpectQuery(countRoomSQL).WithArgs(3, 11).WillReturnRows(countRow(0))
	mock.ExpectExec(moveBookSQL).WithArgs(3, 11, 7).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM bookings WHERE id = ?`)).WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(8))
	mock.ExpectRollback()

	_, err := repo().MoveAdmitted(context.Background(), 7, 11, 3, hasFreeBed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserIDNotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.user_id = ?`)).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo().FindByUserID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
