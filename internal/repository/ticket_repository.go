package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/model"
)

// TicketRepo provides access to the ticket catalog (ticket_types) and to
// the tickets bought by enrollments.  Ticket reads always join the
// ticket type so callers can inspect IncludesHotel and Price.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketWithTypeQ = `SELECT t.id, t.ticket_type_id, t.enrollment_id, t.status, t.created_at, t.updated_at,
                                tt.id, tt.name, tt.price, tt.is_remote, tt.includes_hotel, tt.created_at, tt.updated_at
                         FROM tickets t
                         JOIN ticket_types tt ON tt.id = t.ticket_type_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicketWithType(s rowScanner) (*model.Ticket, error) {
	var (
		t  model.Ticket
		tt model.TicketType
	)
	if err := s.Scan(
		&t.ID, &t.TicketTypeID, &t.EnrollmentID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.TicketType = &tt
	return &t, nil
}

// ListTypes returns the full ticket catalog ordered by id.  An empty
// catalog yields an empty, non-nil slice.
func (r *TicketRepo) ListTypes(ctx context.Context) ([]model.TicketType, error) {
	const q = `SELECT id, name, price, is_remote, includes_hotel, created_at, updated_at
	           FROM ticket_types ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()
	out := make([]model.TicketType, 0)
	for rows.Next() {
		var tt model.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTypeByID returns a catalog entry or ErrTicketTypeNotFound.
func (r *TicketRepo) GetTypeByID(ctx context.Context, id uint64) (*model.TicketType, error) {
	const q = `SELECT id, name, price, is_remote, includes_hotel, created_at, updated_at
	           FROM ticket_types WHERE id = ?`
	var tt model.TicketType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("get ticket type: %w", err)
	}
	return &tt, nil
}

// GetByID returns a ticket with its type or ErrTicketNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, err := scanTicketWithType(r.db.QueryRowContext(ctx, ticketWithTypeQ+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// FindByEnrollmentID returns the ticket owned by an enrollment.
func (r *TicketRepo) FindByEnrollmentID(ctx context.Context, enrollmentID uint64) (*model.Ticket, error) {
	t, err := scanTicketWithType(r.db.QueryRowContext(ctx,
		ticketWithTypeQ+` WHERE t.enrollment_id = ? LIMIT 1`, enrollmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket by enrollment: %w", err)
	}
	return t, nil
}

// Create inserts a RESERVED ticket and returns it with its type.  An
// enrollment owns at most one ticket; a second insert fails with
// ErrTicketExists.
func (r *TicketRepo) Create(ctx context.Context, enrollmentID, ticketTypeID uint64) (*model.Ticket, error) {
	const q = `INSERT INTO tickets (ticket_type_id, enrollment_id, status) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, ticketTypeID, enrollmentID, model.TicketReserved)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrTicketExists
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}
