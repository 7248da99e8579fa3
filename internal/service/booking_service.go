package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/queue"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// BookingService reads and writes a user's room booking.
type BookingService struct {
	elig     EligibilityChecker
	bookings BookingStore
	events   Publisher // nil disables events
	log      *logrus.Logger
}

func NewBookingService(elig EligibilityChecker, bookings BookingStore, events Publisher, log *logrus.Logger) *BookingService {
	return &BookingService{elig: elig, bookings: bookings, events: events, log: log}
}

// ListUserBooking returns the caller's booking with its room.
func (s *BookingService) ListUserBooking(ctx context.Context, userID uint64) (*model.Booking, error) {
	if _, err := s.elig.Evaluate(ctx, userID); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fail(ErrNotFound, "booking not found")
		}
		return nil, wrap("load booking", err)
	}
	return b, nil
}

// CreateBooking books roomID for the caller.  The occupancy check and the
// insert are atomic.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint64, roomID int64) (*model.Booking, error) {
	if _, err := s.elig.Evaluate(ctx, userID); err != nil {
		return nil, err
	}
	if roomID < 1 {
		return nil, fail(ErrNotFound, "room not found")
	}

	b, err := s.bookings.CreateAdmitted(ctx, userID, uint64(roomID), CanAdmit)
	if err != nil {
		return nil, bookingErr("create booking", err)
	}

	s.log.WithFields(logrus.Fields{"booking_id": b.ID, "user_id": userID, "room_id": b.RoomID}).Info("booking created")
	s.publish(ctx, queue.BookingCreated, b)
	return b, nil
}

// UpdateBooking moves the caller's booking bookingID into roomID.
// A booking that does not belong to the caller is reported as not found.
func (s *BookingService) UpdateBooking(ctx context.Context, userID uint64, roomID, bookingID int64) (*model.Booking, error) {
	if _, err := s.elig.Evaluate(ctx, userID); err != nil {
		return nil, err
	}
	if roomID < 1 || bookingID < 1 {
		return nil, fail(ErrNotFound, "room or booking not found")
	}

	b, err := s.bookings.MoveAdmitted(ctx, userID, uint64(bookingID), uint64(roomID), CanAdmit)
	if err != nil {
		return nil, bookingErr("move booking", err)
	}

	s.log.WithFields(logrus.Fields{"booking_id": b.ID, "user_id": userID, "room_id": b.RoomID}).Info("booking moved")
	s.publish(ctx, queue.BookingMoved, b)
	return b, nil
}

func bookingErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return fail(ErrNotFound, "room not found")
	case errors.Is(err, repository.ErrBookingNotFound):
		return fail(ErrNotFound, "booking not found")
	case errors.Is(err, repository.ErrRoomFull):
		return fail(ErrForbidden, "room is full")
	case errors.Is(err, repository.ErrBookingExists):
		return fail(ErrForbidden, "user already has a booking")
	}
	return wrap(op, err)
}

func (s *BookingService) publish(ctx context.Context, action string, b *model.Booking) {
	if s.events == nil {
		return
	}
	ev := queue.BookingEvent{
		Action:     action,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if b.Room != nil {
		ev.HotelID = b.Room.HotelID
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, queue.BookingEventsQueue, ev); err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("publish booking event failed")
	}
}
