package model

import "time"

// Booking ties a user to a room.  A user holds at most one booking; it
// can be moved to another room but never shared.  Room is populated when
// the booking is read for display.
type Booking struct {
	ID        uint64    `json:"id"`     // bookings.id
	UserID    uint64    `json:"userId"` // bookings.user_id
	RoomID    uint64    `json:"roomId"` // bookings.room_id
	Room      *Room     `json:"Room,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
