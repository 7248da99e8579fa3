package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/config"
	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/model"
	"github.com/iliyamo/event-lodging/internal/repository"
	"github.com/iliyamo/event-lodging/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}

// AuthHandler bundles dependencies for sign-up, sign-in and sign-out.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
	Log      *logrus.Logger
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Log: log}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

type signInResp struct {
	User      userPart  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r *credentialsReq) normalize() bool {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r.Email != "" && strings.Contains(r.Email, "@") && len(r.Password) >= 6
}

// SignUp handles POST /users.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !req.normalize() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email and a password of 6+ characters required"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		h.Log.WithError(err).Error("create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, userPart{ID: uid, Email: req.Email})
}

// SignIn handles POST /auth/sign-in.  Each sign-in opens a new session.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.normalize()
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		h.Log.WithError(err).Error("load user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.WithError(err).Error("sign token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	if err := h.Sessions.Create(ctx, u.ID, utils.HashToken(access.Token)); err != nil {
		h.Log.WithError(err).Error("store session failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
	}

	return c.JSON(http.StatusOK, signInResp{
		User:      userPart{ID: u.ID, Email: u.Email},
		Token:     access.Token,
		ExpiresAt: access.Exp,
	})
}

// SignOut handles POST /auth/sign-out.  It runs behind JWTAuth and drops
// the session of the presented token.
func (h *AuthHandler) SignOut(c echo.Context) error {
	hash, _ := c.Get(middleware.CtxTokenHash).(string)
	if hash == "" {
		return unauthenticated(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Sessions.DeleteByTokenHash(ctx, hash); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		h.Log.WithError(err).Error("delete session failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sign out failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
