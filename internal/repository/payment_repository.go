package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/database"
	"github.com/iliyamo/event-lodging/internal/model"
)

// PaymentRepo provides access to payments.  Creating a payment and
// marking its ticket PAID happen in the same transaction.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, ticket_id, value, card_issuer, card_last_digits, created_at, updated_at`

func scanPayment(s rowScanner, p *model.Payment) error {
	return s.Scan(&p.ID, &p.TicketID, &p.Value, &p.CardIssuer, &p.CardLastDigits, &p.CreatedAt, &p.UpdatedAt)
}

// FindByTicketID returns the payment of a ticket or ErrPaymentNotFound.
func (r *PaymentRepo) FindByTicketID(ctx context.Context, ticketID uint64) (*model.Payment, error) {
	var p model.Payment
	err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE ticket_id = ? LIMIT 1`, ticketID), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

// CreateAndMarkPaid inserts p and sets its ticket to PAID in a single
// transaction.  The ticket row is locked first so concurrent payments of
// the same ticket are serialized; when the ticket already has a payment,
// the stored payment is loaded into p instead of inserting a second one.
// On success p holds the persisted row.  Returns ErrTicketNotFound when
// the ticket does not exist.
func (r *PaymentRepo) CreateAndMarkPaid(ctx context.Context, p *model.Payment) error {
	err := database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		var ticketID uint64
		err := tx.QueryRowContext(ctx, `SELECT id FROM tickets WHERE id = ? FOR UPDATE`, p.TicketID).Scan(&ticketID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTicketNotFound
			}
			return err
		}
		var existing model.Payment
		err = scanPayment(tx.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE ticket_id = ? LIMIT 1`, p.TicketID), &existing)
		switch {
		case err == nil:
			*p = existing
		case errors.Is(err, sql.ErrNoRows):
			const ins = `INSERT INTO payments (ticket_id, value, card_issuer, card_last_digits) VALUES (?, ?, ?, ?)`
			res, err := tx.ExecContext(ctx, ins, p.TicketID, p.Value, p.CardIssuer, p.CardLastDigits)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			if err := scanPayment(tx.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id), p); err != nil {
				return err
			}
		default:
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, model.TicketPaid, p.TicketID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return err
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}
