package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/database"
	"github.com/iliyamo/event-lodging/internal/model"
)

// BookingRepo provides reads and admission-guarded writes for bookings.
//
// Writes lock the target room row with SELECT ... FOR UPDATE before
// counting its bookings, so two transactions booking the same room are
// serialized: the second one counts the first one's insert and the
// room can never exceed its capacity.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingWithRoomQ = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
                                 r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at
                          FROM bookings b
                          JOIN rooms r ON r.id = b.room_id`

func scanBookingWithRoom(s rowScanner) (*model.Booking, error) {
	var (
		b  model.Booking
		rm model.Room
	)
	if err := s.Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt,
		&rm.ID, &rm.Name, &rm.Capacity, &rm.HotelID, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.Room = &rm
	return &b, nil
}

// FindByUserID returns the booking of a user including its room, or
// ErrBookingNotFound.
func (r *BookingRepo) FindByUserID(ctx context.Context, userID uint64) (*model.Booking, error) {
	b, err := scanBookingWithRoom(r.db.QueryRowContext(ctx, bookingWithRoomQ+` WHERE b.user_id = ? LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

// lockRoomTx loads a room with FOR UPDATE and counts its bookings,
// ignoring the booking identified by excludeBookingID (0 excludes
// nothing).  The lock is held until the transaction ends.
func lockRoomTx(ctx context.Context, tx *sql.Tx, roomID, excludeBookingID uint64) (*model.Room, error) {
	const q = `SELECT id, name, capacity, hotel_id, created_at, updated_at FROM rooms WHERE id = ? FOR UPDATE`
	var rm model.Room
	err := tx.QueryRowContext(ctx, q, roomID).Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.HotelID, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	const countQ = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND id <> ?`
	if err := tx.QueryRowContext(ctx, countQ, roomID, excludeBookingID).Scan(&rm.Bookings); err != nil {
		return nil, err
	}
	return &rm, nil
}

// CreateAdmitted locks the room, asks admit whether it can take one more
// booking and, if so, inserts the booking, all in one transaction.
// Errors: ErrRoomNotFound, ErrRoomFull, ErrBookingExists.
func (r *BookingRepo) CreateAdmitted(ctx context.Context, userID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error) {
	var out *model.Booking
	err := database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		room, err := lockRoomTx(ctx, tx, roomID, 0)
		if err != nil {
			return err
		}
		if !admit(room) {
			return ErrRoomFull
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)`, userID, roomID)
		if err != nil {
			if isDuplicateKey(err) {
				return ErrBookingExists
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = scanBookingWithRoom(tx.QueryRowContext(ctx, bookingWithRoomQ+` WHERE b.id = ?`, id))
		return err
	})
	if err != nil {
		return nil, wrapBookingErr("create booking", err)
	}
	return out, nil
}

// MoveAdmitted moves the user's booking bookingID into roomID.  The
// target room is locked and its occupancy is counted without the moving
// booking, so moving a booking into the room it already occupies never
// counts it twice.  Errors: ErrRoomNotFound, ErrRoomFull,
// ErrBookingNotFound (absent or owned by another user).
func (r *BookingRepo) MoveAdmitted(ctx context.Context, userID, bookingID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error) {
	var out *model.Booking
	err := database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		room, err := lockRoomTx(ctx, tx, roomID, bookingID)
		if err != nil {
			return err
		}
		if !admit(room) {
			return ErrRoomFull
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET room_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
			roomID, bookingID, userID)
		if err != nil {
			return err
		}
		// RowsAffected is 0 both for a missing row and for an unchanged
		// one, so confirm ownership with a read.
		if n, _ := res.RowsAffected(); n == 0 {
			var owner uint64
			err := tx.QueryRowContext(ctx, `SELECT user_id FROM bookings WHERE id = ?`, bookingID).Scan(&owner)
			if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != userID) {
				return ErrBookingNotFound
			}
			if err != nil {
				return err
			}
		}
		out, err = scanBookingWithRoom(tx.QueryRowContext(ctx, bookingWithRoomQ+` WHERE b.id = ?`, bookingID))
		return err
	})
	if err != nil {
		return nil, wrapBookingErr("move booking", err)
	}
	return out, nil
}

// wrapBookingErr passes sentinels through untouched and adds context to
// everything else.
func wrapBookingErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrBookingExists):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
