// Package middleware holds the echo middleware shared by the routes:
// bearer authentication, the Redis token bucket and the Redis response
// cache.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxTokenHash = "token_hash"
)

// SessionLookup resolves a stored session by the SHA-256 of its token.
type SessionLookup interface {
	UserIDByTokenHash(ctx context.Context, tokenHash string) (uint64, error)
}

// JWTAuth validates the bearer token and checks that its session still
// exists.  On success the user id (uint64) and the token hash are stored
// in the echo context.  Every failure is a 401.
func JWTAuth(secret string, sessions SessionLookup, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			userID, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			defer cancel()

			hash := utils.HashToken(raw)
			sessionUser, err := sessions.UserIDByTokenHash(ctx, hash)
			if err != nil || sessionUser != userID {
				if err != nil {
					log.WithError(err).Debug("session lookup failed")
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}

			c.Set(CtxUserID, userID)
			c.Set(CtxTokenHash, hash)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok && id > 0
}
