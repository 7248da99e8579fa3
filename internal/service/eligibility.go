package service

import (
	"context"
	"errors"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// Eligibility is what a successful evaluation hands back to the caller.
type Eligibility struct {
	Enrollment *model.Enrollment
	Ticket     *model.Ticket
}

// EligibilityChecker gates every hotel and booking operation.
type EligibilityChecker interface {
	Evaluate(ctx context.Context, userID uint64) (*Eligibility, error)
}

// Evaluator walks the enrollment, ticket and payment chain for a user.
type Evaluator struct {
	enrollments EnrollmentStore
	tickets     TicketStore
}

func NewEvaluator(enrollments EnrollmentStore, tickets TicketStore) *Evaluator {
	return &Evaluator{enrollments: enrollments, tickets: tickets}
}

// Evaluate checks, in order: the user has an enrollment, the enrollment
// has a ticket whose type includes hotel, and the ticket is PAID.  The
// first two fail with ErrForbidden, the last with ErrPaymentRequired.
func (e *Evaluator) Evaluate(ctx context.Context, userID uint64) (*Eligibility, error) {
	enr, err := e.enrollments.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, fail(ErrForbidden, "enrollment required")
		}
		return nil, wrap("load enrollment", err)
	}

	t, err := e.tickets.FindByEnrollmentID(ctx, enr.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, fail(ErrForbidden, "ticket required")
		}
		return nil, wrap("load ticket", err)
	}
	if t.TicketType == nil || !t.TicketType.IncludesHotel {
		return nil, fail(ErrForbidden, "ticket does not include hotel")
	}
	if !t.IsPaid() {
		return nil, fail(ErrPaymentRequired, "ticket not paid")
	}
	return &Eligibility{Enrollment: enr, Ticket: t}, nil
}
