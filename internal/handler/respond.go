// Package handler adapts the service capabilities to echo.  Every handler
// reads the authenticated user id set by middleware.JWTAuth and maps
// service errors onto HTTP statuses with an {"error": "..."} body.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/service"
)

const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// statusOf maps a service error onto an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON.  Unexpected errors are logged and
// answered with a fixed message.
func respondError(c echo.Context, log *logrus.Logger, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	msg := service.Message(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// unauthenticated answers a request that reached an authenticated handler
// without a user id in its context.
func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
}
