// Package router registers every HTTP route on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-lodging/internal/handler"
)

// Handlers groups the handlers the routes dispatch to.
type Handlers struct {
	Auth       *handler.AuthHandler
	Enrollment *handler.EnrollmentHandler
	Ticket     *handler.TicketHandler
	Payment    *handler.PaymentHandler
	Hotel      *handler.HotelHandler
	Booking    *handler.BookingHandler
	Health     echo.HandlerFunc
}

// Middleware is the chain mounted on the routes.  Auth must set the
// user id; RateLimit runs after it so buckets are per user.  Cache is
// only applied to caller-independent catalog reads.
type Middleware struct {
	Auth      echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes mounts the public and authenticated routes.
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middleware) {
	e.GET("/healthz", h.Health)
	e.POST("/users", h.Auth.SignUp)
	e.POST("/auth/sign-in", h.Auth.SignIn)

	api := e.Group("", mw.Auth, mw.RateLimit)
	api.POST("/auth/sign-out", h.Auth.SignOut)

	api.GET("/enrollments", h.Enrollment.GetEnrollment)
	api.POST("/enrollments", h.Enrollment.PostEnrollment)

	api.GET("/tickets/types", h.Ticket.GetTypes, mw.Cache)
	api.GET("/tickets", h.Ticket.GetTicket)
	api.POST("/tickets", h.Ticket.PostTicket)

	api.GET("/payments", h.Payment.GetPayment)
	api.POST("/payments/process", h.Payment.PostPayment)

	api.GET("/hotels", h.Hotel.GetHotels)
	api.GET("/hotels/:hotelId", h.Hotel.GetHotel)

	api.GET("/booking", h.Booking.GetBooking)
	api.POST("/booking", h.Booking.PostBooking)
	api.PUT("/booking/:bookingId", h.Booking.PutBooking)
}
