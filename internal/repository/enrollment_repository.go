package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-lodging/internal/database"
	"github.com/iliyamo/event-lodging/internal/model"
)

// EnrollmentRepo reads and writes enrollments together with their
// address.  An enrollment without an address row is still returned; its
// Address field is nil.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo returns a new EnrollmentRepo bound to the given database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

const enrollmentWithAddressQ = `SELECT e.id, e.user_id, e.name, e.cpf, e.birthday, e.phone, e.created_at, e.updated_at,
                                       a.id, a.cep, a.street, a.city, a.state, a.number, a.neighborhood, a.address_detail,
                                       a.created_at, a.updated_at
                                FROM enrollments e
                                LEFT JOIN addresses a ON a.enrollment_id = e.id
                                WHERE e.user_id = ?`

// FindWithAddressByUserID returns the enrollment of a user including its
// address.  ErrEnrollmentNotFound is returned when the user never enrolled.
func (r *EnrollmentRepo) FindWithAddressByUserID(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	var (
		e                    model.Enrollment
		addrID               sql.NullInt64
		cep, street, city    sql.NullString
		state, number, neigh sql.NullString
		detail               sql.NullString
		addrCreated          sql.NullTime
		addrUpdated          sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, enrollmentWithAddressQ, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.CPF, &e.Birthday, &e.Phone, &e.CreatedAt, &e.UpdatedAt,
		&addrID, &cep, &street, &city, &state, &number, &neigh, &detail,
		&addrCreated, &addrUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if addrID.Valid {
		a := &model.Address{
			ID:           uint64(addrID.Int64),
			EnrollmentID: e.ID,
			CEP:          cep.String,
			Street:       street.String,
			City:         city.String,
			State:        state.String,
			Number:       number.String,
			Neighborhood: neigh.String,
			CreatedAt:    addrCreated.Time,
			UpdatedAt:    addrUpdated.Time,
		}
		if detail.Valid {
			d := detail.String
			a.AddressDetail = &d
		}
		e.Address = a
	}
	return &e, nil
}

// Upsert creates or updates the enrollment of e.UserID and its address in
// one transaction, then reads the stored rows back into e.  e.Address
// must be non-nil.
func (r *EnrollmentRepo) Upsert(ctx context.Context, e *model.Enrollment) error {
	err := database.WithTx(ctx, r.db, nil, func(tx *sql.Tx) error {
		const upsertEnrollment = `INSERT INTO enrollments (user_id, name, cpf, birthday, phone)
		                          VALUES (?, ?, ?, ?, ?)
		                          ON DUPLICATE KEY UPDATE name = VALUES(name), cpf = VALUES(cpf),
		                                                  birthday = VALUES(birthday), phone = VALUES(phone)`
		if _, err := tx.ExecContext(ctx, upsertEnrollment, e.UserID, e.Name, e.CPF, e.Birthday.UTC(), e.Phone); err != nil {
			return err
		}
		// LastInsertId is unreliable for the update branch; read the id back.
		if err := tx.QueryRowContext(ctx, `SELECT id FROM enrollments WHERE user_id = ?`, e.UserID).Scan(&e.ID); err != nil {
			return err
		}
		a := e.Address
		const upsertAddress = `INSERT INTO addresses (enrollment_id, cep, street, city, state, number, neighborhood, address_detail)
		                       VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		                       ON DUPLICATE KEY UPDATE cep = VALUES(cep), street = VALUES(street), city = VALUES(city),
		                                               state = VALUES(state), number = VALUES(number),
		                                               neighborhood = VALUES(neighborhood), address_detail = VALUES(address_detail)`
		_, err := tx.ExecContext(ctx, upsertAddress, e.ID, a.CEP, a.Street, a.City, a.State, a.Number, a.Neighborhood, a.AddressDetail)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	stored, err := r.FindWithAddressByUserID(ctx, e.UserID)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}
