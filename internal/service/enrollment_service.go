package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
)

type AddressInput struct {
	CEP           string  `json:"cep"`
	Street        string  `json:"street"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Number        string  `json:"number"`
	Neighborhood  string  `json:"neighborhood"`
	AddressDetail *string `json:"addressDetail"`
}

type EnrollmentInput struct {
	Name     string        `json:"name"`
	CPF      string        `json:"cpf"`
	Birthday string        `json:"birthday"` // YYYY-MM-DD or RFC 3339
	Phone    string        `json:"phone"`
	Address  *AddressInput `json:"address"`
}

type EnrollmentService struct {
	enrollments EnrollmentStore
}

func NewEnrollmentService(enrollments EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments}
}

func (s *EnrollmentService) Get(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	e, err := s.enrollments.FindWithAddressByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, fail(ErrNotFound, "enrollment not found")
		}
		return nil, wrap("load enrollment", err)
	}
	return e, nil
}

// Save creates or replaces the caller's enrollment and address.
func (s *EnrollmentService) Save(ctx context.Context, userID uint64, in EnrollmentInput) (*model.Enrollment, error) {
	e, err := in.toModel(userID)
	if err != nil {
		return nil, err
	}
	if err := s.enrollments.Upsert(ctx, e); err != nil {
		return nil, wrap("save enrollment", err)
	}
	return e, nil
}

func (in EnrollmentInput) toModel(userID uint64) (*model.Enrollment, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		return nil, fail(ErrBadRequest, "name must have at least 3 characters")
	}
	cpf := digitsOnly(in.CPF)
	if len(cpf) != 11 {
		return nil, fail(ErrBadRequest, "cpf must have 11 digits")
	}
	birthday, ok := parseBirthday(in.Birthday)
	if !ok {
		return nil, fail(ErrBadRequest, "birthday must be a past date")
	}
	phone := digitsOnly(in.Phone)
	if len(phone) < 10 || len(phone) > 11 {
		return nil, fail(ErrBadRequest, "phone must have 10 or 11 digits")
	}
	a := in.Address
	if a == nil {
		return nil, fail(ErrBadRequest, "address is required")
	}
	cep := digitsOnly(a.CEP)
	if len(cep) != 8 {
		return nil, fail(ErrBadRequest, "cep must have 8 digits")
	}
	state := strings.ToUpper(strings.TrimSpace(a.State))
	if len(state) != 2 {
		return nil, fail(ErrBadRequest, "state must be a 2 letter code")
	}
	for _, f := range []string{a.Street, a.City, a.Number, a.Neighborhood} {
		if strings.TrimSpace(f) == "" {
			return nil, fail(ErrBadRequest, "street, city, number and neighborhood are required")
		}
	}

	return &model.Enrollment{
		UserID:   userID,
		Name:     name,
		CPF:      cpf,
		Birthday: birthday,
		Phone:    phone,
		Address: &model.Address{
			CEP:           cep,
			Street:        strings.TrimSpace(a.Street),
			City:          strings.TrimSpace(a.City),
			State:         state,
			Number:        strings.TrimSpace(a.Number),
			Neighborhood:  strings.TrimSpace(a.Neighborhood),
			AddressDetail: a.AddressDetail,
		},
	}, nil
}

func parseBirthday(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, t.Before(time.Now())
		}
	}
	return time.Time{}, false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
