package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
)

type BookingAPI interface {
	ListUserBooking(ctx context.Context, userID uint64) (*model.Booking, error)
	CreateBooking(ctx context.Context, userID uint64, roomID int64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, userID uint64, roomID, bookingID int64) (*model.Booking, error)
}

type BookingHandler struct {
	svc BookingAPI
	log *logrus.Logger
}

func NewBookingHandler(svc BookingAPI, log *logrus.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

type bookingReq struct {
	RoomID int64 `json:"roomId"`
}

// GetBooking handles GET /booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.svc.ListUserBooking(ctx, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// PostBooking handles POST /booking {roomId}.
func (h *BookingHandler) PostBooking(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.svc.CreateBooking(ctx, uid, req.RoomID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// PutBooking handles PUT /booking/:bookingId {roomId}.  A non-numeric
// booking id is passed on as 0 and rejected by the floor check.
func (h *BookingHandler) PutBooking(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	bookingID, _ := strconv.ParseInt(c.Param("bookingId"), 10, 64)

	ctx, cancel := requestContext(c)
	defer cancel()

	b, err := h.svc.UpdateBooking(ctx, uid, req.RoomID, bookingID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, b)
}
