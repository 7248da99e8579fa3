package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
)

type TicketAPI interface {
	ListTicketTypes(ctx context.Context) ([]model.TicketType, error)
	FindUserTicket(ctx context.Context, userID uint64) (*model.Ticket, error)
	CreateTicket(ctx context.Context, userID, ticketTypeID uint64) (*model.Ticket, error)
}

type TicketHandler struct {
	svc TicketAPI
	log *logrus.Logger
}

func NewTicketHandler(svc TicketAPI, log *logrus.Logger) *TicketHandler {
	return &TicketHandler{svc: svc, log: log}
}

func (h *TicketHandler) GetTypes(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	types, err := h.svc.ListTicketTypes(ctx)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, types)
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.svc.FindUserTicket(ctx, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) PostTicket(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var req struct {
		TicketTypeID uint64 `json:"ticketTypeId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := h.svc.CreateTicket(ctx, uid, req.TicketTypeID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, t)
}
