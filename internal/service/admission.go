package service

import "github.com/iliyamo/event-lodging/internal/model"

// CanAdmit reports whether room has a free bed.  room.Bookings must be
// the occupancy counted under the room lock, excluding any booking that
// is being moved.
func CanAdmit(room *model.Room) bool {
	return room != nil && room.Bookings < room.Capacity
}
