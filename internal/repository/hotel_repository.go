package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/model"
)

// HotelRepo provides read access to hotels and their rooms.  Room reads
// carry the current number of bookings so the admission check can be
// evaluated against them.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the given DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// ListHotels returns every hotel without rooms.  No hotels is not an
// error: an empty, non-nil slice is returned.
func (r *HotelRepo) ListHotels(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, name, image, created_at, updated_at FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithRooms returns a hotel with all of its rooms, each annotated with
// its current booking count.  It returns ErrHotelNotFound when no hotel
// has the given id.
func (r *HotelRepo) GetWithRooms(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, image, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, hotelID).Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	const roomsQ = `SELECT r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at, COUNT(b.id)
	                FROM rooms r
	                LEFT JOIN bookings b ON b.room_id = r.id
	                WHERE r.hotel_id = ?
	                GROUP BY r.id, r.name, r.capacity, r.hotel_id, r.created_at, r.updated_at
	                ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, roomsQ, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()
	h.Rooms = make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.HotelID, &rm.CreatedAt, &rm.UpdatedAt, &rm.Bookings); err != nil {
			return nil, err
		}
		h.Rooms = append(h.Rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &h, nil
}
