package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// TicketService covers the ticket catalog and the caller's own ticket.
type TicketService struct {
	enrollments EnrollmentStore
	tickets     TicketStore
}

func NewTicketService(enrollments EnrollmentStore, tickets TicketStore) *TicketService {
	return &TicketService{enrollments: enrollments, tickets: tickets}
}

func (s *TicketService) ListTicketTypes(ctx context.Context) ([]model.TicketType, error) {
	types, err := s.tickets.ListTypes(ctx)
	if err != nil {
		return nil, wrap("list ticket types", err)
	}
	return types, nil
}

// FindUserTicket returns the ticket of the caller's enrollment.
func (s *TicketService) FindUserTicket(ctx context.Context, userID uint64) (*model.Ticket, error) {
	enr, err := s.enrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, err := s.tickets.FindByEnrollmentID(ctx, enr.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, fail(ErrNotFound, "ticket not found")
		}
		return nil, wrap("load ticket", err)
	}
	return t, nil
}

// CreateTicket reserves a ticket of ticketTypeID for the caller.  An
// enrollment holds a single ticket, so a caller who already has one is
// Forbidden.
func (s *TicketService) CreateTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error) {
	if ticketTypeID == 0 {
		return nil, fail(ErrBadRequest, "ticketTypeId is required")
	}
	enr, err := s.enrollment(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.GetTypeByID(ctx, ticketTypeID); err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return nil, fail(ErrNotFound, "ticket type not found")
		}
		return nil, wrap("load ticket type", err)
	}
	switch _, err := s.tickets.FindByEnrollmentID(ctx, enr.ID); {
	case err == nil:
		return nil, fail(ErrForbidden, "enrollment already has a ticket")
	case !errors.Is(err, repository.ErrTicketNotFound):
		return nil, wrap("load ticket", err)
	}
	t, err := s.tickets.Create(ctx, enr.ID, ticketTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketExists) {
			return nil, fail(ErrForbidden, "enrollment already has a ticket")
		}
		return nil, wrap("create ticket", err)
	}
	return t, nil
}

func (s *TicketService) enrollment(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	enr, err := s.enrollments.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, fail(ErrNotFound, "enrollment not found")
		}
		return nil, wrap("load enrollment", err)
	}
	return enr, nil
}
