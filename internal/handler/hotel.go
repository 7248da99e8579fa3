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

type LodgingAPI interface {
	Authorize(ctx context.Context, userID uint64) error
	ListHotels(ctx context.Context, userID uint64) ([]model.Hotel, error)
	GetHotelWithRooms(ctx context.Context, userID, hotelID uint64) (*model.Hotel, error)
}

type HotelHandler struct {
	svc LodgingAPI
	log *logrus.Logger
}

func NewHotelHandler(svc LodgingAPI, log *logrus.Logger) *HotelHandler {
	return &HotelHandler{svc: svc, log: log}
}

// GetHotels handles GET /hotels.
func (h *HotelHandler) GetHotels(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	hotels, err := h.svc.ListHotels(ctx, uid)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, hotels)
}

// GetHotel handles GET /hotels/:hotelId.  Id 0 lists all hotels.  A
// malformed id is 400, but only for callers that pass the lodging gate.
func (h *HotelHandler) GetHotel(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	hotelID, err := strconv.ParseUint(c.Param("hotelId"), 10, 64)
	if err != nil {
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.svc.Authorize(ctx, uid); err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotelId"})
	}
	if hotelID == 0 {
		return h.GetHotels(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	hotel, err := h.svc.GetHotelWithRooms(ctx, uid, hotelID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, hotel)
}
