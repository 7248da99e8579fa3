package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/event-lodging/internal/config"
	"github.com/iliyamo/event-lodging/internal/database"
	"github.com/iliyamo/event-lodging/internal/handler"
	"github.com/iliyamo/event-lodging/internal/middleware"
	"github.com/iliyamo/event-lodging/internal/queue"
	"github.com/iliyamo/event-lodging/internal/repository"
	"github.com/iliyamo/event-lodging/internal/router"
	"github.com/iliyamo/event-lodging/internal/service"
)

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Env != "dev" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			}
			if uid, ok := middleware.UserID(c); ok {
				fields["user_id"] = uid
			}
			if v.Error != nil {
				log.WithFields(fields).WithError(v.Error).Warn("request")
				return nil
			}
			log.WithFields(fields).Info("request")
			return nil
		},
	})
}

// runAuditConsumer blocks in run and logs how it ended.  Cancellation
// on shutdown is expected and logged at debug level only.
func runAuditConsumer(ctx context.Context, run func(context.Context) error, log *logrus.Logger) {
	err := run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Debug("audit consumer stopped")
	default:
		log.WithError(err).Error("audit consumer stopped")
	}
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("schema migration failed")
		}
		log.Info("schema applied")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.WithField("addr", config.RedisAddr()).Warn("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var events service.Publisher
	if cfg.EventsOn {
		events = queue.NewPublisher(cfg.AMQPURL, log)
		go runAuditConsumer(ctx, queue.NewAuditConsumer(cfg.AMQPURL, cfg.AuditLogPath, log).Run, log)
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	tickets := repository.NewTicketRepo(db)
	hotels := repository.NewHotelRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	eligibility := service.NewEvaluator(enrollments, tickets)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	router.RegisterRoutes(e, router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, sessions, log),
		Enrollment: handler.NewEnrollmentHandler(service.NewEnrollmentService(enrollments), log),
		Ticket:     handler.NewTicketHandler(service.NewTicketService(enrollments, tickets), log),
		Payment:    handler.NewPaymentHandler(service.NewPaymentService(enrollments, tickets, payments, events, log), log),
		Hotel:      handler.NewHotelHandler(service.NewLodgingService(eligibility, hotels), log),
		Booking:    handler.NewBookingHandler(service.NewBookingService(eligibility, bookings, events, log), log),
		Health:     handler.Health(db),
	}, router.Middleware{
		Auth:      middleware.JWTAuth(cfg.JWTSecret, sessions, log),
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log),
		Cache:     middleware.ResponseCache(config.LoadCacheConfig(), rdb, log),
	})

	go func() {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
