package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

type EnrollmentAPI interface {
	Get(ctx context.Context, userID uint64) (*model.Enrollment, error)
	Save(ctx context.Context, userID uint64, in service.EnrollmentInput) (*model.Enrollment, error)
}

type EnrollmentHandler struct {
	svc EnrollmentAPI
	log *logrus.Logger
}

func NewEnrollmentHandler(svc EnrollmentAPI, log *logrus.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc, log: log}
}

func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.svc.Get(ctx, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}

// PostEnrollment creates or replaces the caller's enrollment.
func (h *EnrollmentHandler) PostEnrollment(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var in service.EnrollmentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	e, err := h.svc.Save(ctx, uid, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, e)
}
