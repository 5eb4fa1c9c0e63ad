package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/navegam/river-booking-system/internal/config"
	"github.com/navegam/river-booking-system/internal/handler"
	"github.com/navegam/river-booking-system/internal/repository"
	"github.com/navegam/river-booking-system/internal/service"
	"github.com/navegam/river-booking-system/internal/validator"
	"github.com/navegam/river-booking-system/internal/weather"
	"github.com/navegam/river-booking-system/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry, then apply schema migrations
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "River Booking System",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Initialize components (layered architecture)
	tripRepo := repository.NewTripRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	checklistRepo := repository.NewChecklistRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	weatherClient := weather.NewOpenMeteoClient(cfg.Weather)

	tripService := service.NewTripService(pool, tripRepo, reservationRepo, checklistRepo, weatherClient)
	reservationService := service.NewReservationService(pool, tripRepo, reservationRepo, couponRepo, accountRepo, cfg.Policy)
	couponService := service.NewCouponService(couponRepo)

	tripHandler := handler.NewTripHandler(tripService, validate)
	reservationHandler := handler.NewReservationHandler(reservationService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Trip routes
	app.Post("/api/trips", tripHandler.CreateTrip)
	app.Get("/api/trips/:id", tripHandler.GetTrip)
	app.Get("/api/trips/:id/reservations", tripHandler.ListReservations)
	app.Put("/api/trips/:id/checklist", tripHandler.SubmitChecklist)
	app.Post("/api/trips/:id/depart", tripHandler.Depart)
	app.Post("/api/trips/:id/complete", tripHandler.Complete)
	app.Post("/api/trips/:id/cancel", tripHandler.Cancel)
	app.Post("/api/trips/:id/reconcile", tripHandler.Reconcile)

	// Reservation routes
	app.Post("/api/reservations/quote", reservationHandler.Quote)
	app.Post("/api/reservations", reservationHandler.CreateReservation)
	app.Get("/api/reservations/:id", reservationHandler.GetReservation)
	app.Post("/api/reservations/:id/cancel", reservationHandler.CancelReservation)
	app.Post("/api/reservations/:id/check-in", reservationHandler.CheckIn)
	app.Post("/api/reservations/:id/complete", reservationHandler.Complete)
	app.Post("/api/reservations/:id/collect", reservationHandler.Collect)
	app.Post("/api/reservations/:id/deliver", reservationHandler.ConfirmDelivery)
	app.Post("/api/reservations/:id/paid", reservationHandler.MarkPaid)

	// Coupon routes
	app.Post("/api/coupons", couponHandler.CreateCoupon)
	app.Get("/api/coupons/:code", couponHandler.GetCoupon)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
