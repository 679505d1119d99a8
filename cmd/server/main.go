package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/room-reservation/internal/audit"
	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/logging"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/schedule"
	"github.com/iliyamo/room-reservation/internal/seed"
	"github.com/iliyamo/room-reservation/internal/validation"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	rl := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cal, err := cfg.Calendar()
	if err != nil {
		log.Fatalf("calendar: %v", err)
	}

	dialect := repository.Dialect(cfg.DB.Driver)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db, dialect)
	reservations := repository.NewReservationRepo(db, dialect)

	// Redis backs the limiter and the room list cache; without it the
	// limiter is per process and nothing is cached.
	rdb := config.NewRedisClient()
	var limiter ratelimit.Limiter = ratelimit.NewMemory()
	if rdb != nil {
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, rl.Prefix)
	}
	serviceLimiter := limiter
	if !rl.Enabled {
		serviceLimiter = nil
	}

	emitters := audit.Multi{audit.Log{}}
	if cfg.AMQPURL != "" {
		pub := audit.NewPublisher(cfg.AMQPURL, cfg.AuditQueue)
		defer pub.Close()
		emitters = append(emitters, pub)
	}

	svc := booking.NewService(booking.Deps{
		Reservations: reservations,
		Rooms:        rooms,
		Users:        users,
		Validator:    validation.New(cal, schedule.RealClock{}),
		Limiter:      serviceLimiter,
		RateRule:     rl.Reservations,
		Audit:        emitters,
		Logger:       logger,
	})

	if cfg.SeedDemo {
		s := &seed.Seeder{Rooms: rooms, Users: users, Bookings: svc, BcryptCost: cfg.BcryptCost, Logger: logger}
		if err := s.Run(ctx, cfg.SeedAdminPassword); err != nil {
			log.Fatalf("seed: %v", err)
		}
		logger.Info("demo data seeded")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.ClientIP())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.AccessLog(logger))
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter, rl)
	router.RegisterRooms(e, handler.NewRoomHandler(rooms, svc), cfg.JWTSecret, cacheCfg, rdb)
	router.RegisterReservations(e, handler.NewReservationHandler(svc), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DB.Driver, "zone", cal.Location().String())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
