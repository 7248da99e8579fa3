package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

var errDB = errors.New("db down")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeEnrollments struct {
	byUser map[uint64]*model.Enrollment
	err    error
	saved  *model.Enrollment
}

func (f *fakeEnrollments) FindWithAddressByUserID(_ context.Context, userID uint64) (*model.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrEnrollmentNotFound
	}
	return e, nil
}

func (f *fakeEnrollments) Upsert(_ context.Context, e *model.Enrollment) error {
	if f.err != nil {
		return f.err
	}
	e.ID = 1
	f.saved = e
	return nil
}

type fakeTickets struct {
	types        map[uint64]*model.TicketType
	byID         map[uint64]*model.Ticket
	byEnrollment map[uint64]*model.Ticket
	err          error
	created      []*model.Ticket
	createErr    error
}

func (f *fakeTickets) ListTypes(context.Context) ([]model.TicketType, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.TicketType{}
	for _, t := range f.types {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTickets) GetTypeByID(_ context.Context, id uint64) (*model.TicketType, error) {
	if t, ok := f.types[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTicketTypeNotFound
}

func (f *fakeTickets) GetByID(_ context.Context, id uint64) (*model.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, repository.ErrTicketNotFound
}

func (f *fakeTickets) FindByEnrollmentID(_ context.Context, enrollmentID uint64) (*model.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.byEnrollment[enrollmentID]; ok {
		return t, nil
	}
	return nil, repository.ErrTicketNotFound
}

func (f *fakeTickets) Create(_ context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	t := &model.Ticket{
		ID:           uint64(len(f.created) + 1),
		EnrollmentID: enrollmentID,
		TicketTypeID: ticketTypeID,
		Status:       model.TicketReserved,
		TicketType:   f.types[ticketTypeID],
	}
	f.created = append(f.created, t)
	return t, nil
}

type fakeHotels struct {
	hotels []model.Hotel
	rooms  map[uint64][]model.Room
	err    error
}

func (f *fakeHotels) ListHotels(context.Context) ([]model.Hotel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hotels, nil
}

func (f *fakeHotels) GetWithRooms(_ context.Context, hotelID uint64) (*model.Hotel, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, h := range f.hotels {
		if h.ID == hotelID {
			h.Rooms = f.rooms[hotelID]
			return &h, nil
		}
	}
	return nil, repository.ErrHotelNotFound
}

// fakeBookings serializes writes with a mutex the way the repository
// serializes them with a room row lock.
type fakeBookings struct {
	mu       sync.Mutex
	rooms    map[uint64]*model.Room
	bookings map[uint64]*model.Booking
	nextID   uint64
	err      error
}

func newFakeBookings(rooms ...model.Room) *fakeBookings {
	f := &fakeBookings{rooms: map[uint64]*model.Room{}, bookings: map[uint64]*model.Booking{}}
	for i := range rooms {
		r := rooms[i]
		f.rooms[r.ID] = &r
	}
	return f
}

func (f *fakeBookings) seed(userID, roomID uint64) *model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b := &model.Booking{ID: f.nextID, UserID: userID, RoomID: roomID}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeBookings) occupancy(roomID, exclude uint64) uint32 {
	var n uint32
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.ID != exclude {
			n++
		}
	}
	return n
}

func (f *fakeBookings) FindByUserID(_ context.Context, userID uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if b.UserID == userID {
			cp := *b
			cp.Room = f.rooms[b.RoomID]
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeBookings) CreateAdmitted(_ context.Context, userID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	locked := *r
	locked.Bookings = f.occupancy(roomID, 0)
	if !admit(&locked) {
		return nil, repository.ErrRoomFull
	}
	for _, b := range f.bookings {
		if b.UserID == userID {
			return nil, repository.ErrBookingExists
		}
	}
	f.nextID++
	b := &model.Booking{ID: f.nextID, UserID: userID, RoomID: roomID}
	f.bookings[b.ID] = b
	cp := *b
	cp.Room = r
	return &cp, nil
}

func (f *fakeBookings) MoveAdmitted(_ context.Context, userID, bookingID, roomID uint64, admit func(room *model.Room) bool) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rooms[roomID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	locked := *r
	locked.Bookings = f.occupancy(roomID, bookingID)
	if !admit(&locked) {
		return nil, repository.ErrRoomFull
	}
	b, ok := f.bookings[bookingID]
	if !ok || b.UserID != userID {
		return nil, repository.ErrBookingNotFound
	}
	b.RoomID = roomID
	cp := *b
	cp.Room = r
	return &cp, nil
}

type fakePayments struct {
	byTicket map[uint64]*model.Payment
	paid     map[uint64]bool
	err      error
}

func newFakePayments() *fakePayments {
	return &fakePayments{byTicket: map[uint64]*model.Payment{}, paid: map[uint64]bool{}}
}

func (f *fakePayments) FindByTicketID(_ context.Context, ticketID uint64) (*model.Payment, error) {
	if p, ok := f.byTicket[ticketID]; ok {
		return p, nil
	}
	return nil, repository.ErrPaymentNotFound
}

func (f *fakePayments) CreateAndMarkPaid(_ context.Context, p *model.Payment) error {
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.byTicket[p.TicketID]; ok {
		*p = *existing
	} else {
		p.ID = uint64(len(f.byTicket) + 1)
		cp := *p
		f.byTicket[p.TicketID] = &cp
	}
	f.paid[p.TicketID] = true
	return nil
}

type publishedEvent struct {
	queue string
	event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, queueName string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{queue: queueName, event: event})
	return nil
}

// stubEligibility returns err for every user, or a fixed eligibility.
type stubEligibility struct{ err error }

func (s stubEligibility) Evaluate(context.Context, uint64) (*Eligibility, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Eligibility{}, nil
}

// eligibleFixture builds stores where user 1 holds a PAID ticket that
// includes hotel.
func eligibleFixture(status model.TicketStatus, includesHotel bool) (*fakeEnrollments, *fakeTickets) {
	tt := &model.TicketType{ID: 1, Name: "Presencial + Hotel", Price: 60000, IncludesHotel: includesHotel}
	t := &model.Ticket{ID: 10, EnrollmentID: 5, TicketTypeID: 1, Status: status, TicketType: tt}
	enr := &fakeEnrollments{byUser: map[uint64]*model.Enrollment{1: {ID: 5, UserID: 1}}}
	tickets := &fakeTickets{
		types:        map[uint64]*model.TicketType{1: tt},
		byID:         map[uint64]*model.Ticket{10: t},
		byEnrollment: map[uint64]*model.Ticket{5: t},
	}
	return enr, tickets
}
