package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/queue"
	"github.com/iliyamo/event-lodging/internal/repository"
)

// CardData is the card submitted with a payment.  Only Issuer and the
// last four digits of Number are ever stored.
type CardData struct {
	Issuer         string `json:"issuer"`
	Number         string `json:"number"`
	Name           string `json:"name"`
	ExpirationDate string `json:"expirationDate"`
	CVV            string `json:"cvv"`
}

type PaymentInput struct {
	TicketID uint64    `json:"ticketId"`
	CardData *CardData `json:"cardData"`
}

// PaymentService reads and records ticket payments.
type PaymentService struct {
	enrollments EnrollmentStore
	tickets     TicketStore
	payments    PaymentStore
	events      Publisher
	log         *logrus.Logger
}

func NewPaymentService(enrollments EnrollmentStore, tickets TicketStore, payments PaymentStore, events Publisher, log *logrus.Logger) *PaymentService {
	return &PaymentService{enrollments: enrollments, tickets: tickets, payments: payments, events: events, log: log}
}

// FindPayment returns the payment of ticketID when the ticket belongs to
// the caller's enrollment.
func (s *PaymentService) FindPayment(ctx context.Context, userID, ticketID uint64) (*model.Payment, error) {
	if _, err := s.ownedTicket(ctx, userID, ticketID); err != nil {
		return nil, err
	}
	p, err := s.payments.FindByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, fail(ErrNotFound, "payment not found")
		}
		return nil, wrap("load payment", err)
	}
	return p, nil
}

// CreatePayment pays the caller's ticket.  The value is the ticket type
// price; the payment row and the PAID status are written together.
func (s *PaymentService) CreatePayment(ctx context.Context, userID uint64, in PaymentInput) (*model.Payment, error) {
	if in.TicketID == 0 || in.CardData == nil {
		return nil, fail(ErrBadRequest, "ticketId and cardData are required")
	}
	issuer := strings.TrimSpace(in.CardData.Issuer)
	last4, ok := lastFourDigits(in.CardData.Number)
	if issuer == "" || !ok {
		return nil, fail(ErrBadRequest, "invalid card data")
	}

	t, err := s.ownedTicket(ctx, userID, in.TicketID)
	if err != nil {
		return nil, err
	}
	tt := t.TicketType
	if tt == nil {
		if tt, err = s.tickets.GetTypeByID(ctx, t.TicketTypeID); err != nil {
			return nil, wrap("load ticket type", err)
		}
	}

	p := &model.Payment{
		TicketID:       t.ID,
		Value:          tt.Price,
		CardIssuer:     issuer,
		CardLastDigits: last4,
	}
	if err := s.payments.CreateAndMarkPaid(ctx, p); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, fail(ErrNotFound, "ticket not found")
		}
		return nil, wrap("create payment", err)
	}

	s.log.WithFields(logrus.Fields{"payment_id": p.ID, "ticket_id": p.TicketID, "user_id": userID, "value": p.Value}).Info("payment processed")
	s.publish(ctx, userID, p)
	return p, nil
}

// ownedTicket loads ticketID and checks that it belongs to the caller's
// enrollment.  A caller without an enrollment owns nothing.
func (s *PaymentService) ownedTicket(ctx context.Context, userID, ticketID uint64) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, fail(ErrNotFound, "ticket not found")
		}
		return nil, wrap("load ticket", err)
	}
	enr, err := s.enrollments.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, fail(ErrUnauthorized, "ticket does not belong to user")
		}
		return nil, wrap("load enrollment", err)
	}
	if enr.ID != t.EnrollmentID {
		return nil, fail(ErrUnauthorized, "ticket does not belong to user")
	}
	return t, nil
}

// lastFourDigits strips spaces and dashes from a card number and returns
// its last four digits.  ok is false unless the remainder is all digits
// and at least four long.
func lastFourDigits(number string) (string, bool) {
	n := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if len(n) < 4 {
		return "", false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return n[len(n)-4:], true
}

func (s *PaymentService) publish(ctx context.Context, userID uint64, p *model.Payment) {
	if s.events == nil {
		return
	}
	ev := queue.PaymentProcessedEvent{
		PaymentID:      p.ID,
		TicketID:       p.TicketID,
		UserID:         userID,
		Value:          p.Value,
		CardIssuer:     p.CardIssuer,
		CardLastDigits: p.CardLastDigits,
		ProcessedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, queue.PaymentEventsQueue, ev); err != nil {
		s.log.WithError(err).WithField("payment_id", p.ID).Warn("publish payment event failed")
	}
}
