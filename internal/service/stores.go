package service

import (
	"context"

	"github.com/iliyamo/event-lodging/internal/model"
)

// The store interfaces are satisfied by the repository package.  Each
// returns the repository's sentinel not-found errors.

type EnrollmentStore interface {
	FindWithAddressByUserID(ctx context.Context, userID uint64) (*model.Enrollment, error)
	Upsert(ctx context.Context, e *model.Enrollment) error
}

type TicketStore interface {
	ListTypes(ctx context.Context) ([]model.TicketType, error)
	GetTypeByID(ctx context.Context, id uint64) (*model.TicketType, error)
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	FindByEnrollmentID(ctx context.Context, enrollmentID uint64) (*model.Ticket, error)
	Create(ctx context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error)
}

type HotelStore interface {
	ListHotels(ctx context.Context) ([]model.Hotel, error)
	GetWithRooms(ctx context.Context, hotelID uint64) (*model.Hotel, error)
}

// BookingStore runs the admission check passed as admit inside the same
// transaction that writes the booking, with the target room locked.
type BookingStore interface {
	FindByUserID(ctx context.Context, userID uint64) (*model.Booking, error)
	CreateAdmitted(ctx context.Context, userID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error)
	MoveAdmitted(ctx context.Context, userID, bookingID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error)
}

// PaymentStore persists a payment and marks its ticket PAID atomically.
type PaymentStore interface {
	FindByTicketID(ctx context.Context, ticketID uint64) (*model.Payment, error)
	CreateAndMarkPaid(ctx context.Context, p *model.Payment) error
}

// Publisher emits domain events.  Implementations may fail; services
// treat publishing as best-effort.
type Publisher interface {
	Publish(ctx context.Context, queueName string, event any) error
}
