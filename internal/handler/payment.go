package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/service"
)

type PaymentAPI interface {
	FindPayment(ctx context.Context, userID, ticketID uint64) (*model.Payment, error)
	CreatePayment(ctx context.Context, userID uint64, in service.PaymentInput) (*model.Payment, error)
}

type PaymentHandler struct {
	svc PaymentAPI
	log *logrus.Logger
}

func NewPaymentHandler(svc PaymentAPI, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

// GetPayment handles GET /payments?ticketId=.
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ticketID, err := strconv.ParseUint(c.QueryParam("ticketId"), 10, 64)
	if err != nil || ticketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketId is required"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.svc.FindPayment(ctx, uid, ticketID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// PostPayment handles POST /payments/process.
func (h *PaymentHandler) PostPayment(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var in service.PaymentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.svc.CreatePayment(ctx, uid, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}
