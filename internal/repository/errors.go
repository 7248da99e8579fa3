// Package repository implements MySQL persistence for the booking
// backend.  Lookups that find nothing return one of the sentinel
// ErrXxxNotFound values below so higher layers can tell "absent" apart
// from a failed query; every other database error is returned wrapped.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrHotelNotFound      = errors.New("hotel not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// ErrRoomFull is returned by the booking writes when the admission
// check rejects the target room.
var ErrRoomFull = errors.New("room is full")

// ErrBookingExists is returned when the user already holds a booking.
var ErrBookingExists = errors.New("booking already exists")

// ErrTicketExists is returned when the enrollment already owns a ticket.
var ErrTicketExists = errors.New("ticket already exists")

// ErrEmailExists is returned when signing up with an email in use.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
