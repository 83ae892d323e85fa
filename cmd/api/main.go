package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/salonbook/booking-api/internal/config"
	bookingHandler "github.com/salonbook/booking-api/internal/handler/booking"
	healthHandler "github.com/salonbook/booking-api/internal/handler/health"
	notificationHandler "github.com/salonbook/booking-api/internal/handler/notification"
	reviewHandler "github.com/salonbook/booking-api/internal/handler/review"
	"github.com/salonbook/booking-api/internal/middleware"
	"github.com/salonbook/booking-api/internal/repository/postgres"
	"github.com/salonbook/booking-api/internal/router"
	bookingService "github.com/salonbook/booking-api/internal/service/booking"
	catalogService "github.com/salonbook/booking-api/internal/service/catalog"
	notificationService "github.com/salonbook/booking-api/internal/service/notification"
	reviewService "github.com/salonbook/booking-api/internal/service/review"
	"github.com/salonbook/booking-api/pkg/auth"
	"github.com/salonbook/booking-api/pkg/clock"
	"github.com/salonbook/booking-api/pkg/logger"
	"github.com/salonbook/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	bookingRepo := postgres.NewBookingRepository(db)
	timeSlotRepo := postgres.NewTimeSlotRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	stylistRepo := postgres.NewStylistRepository(db)
	salonRepo := postgres.NewSalonRepository(db)
	scheduleRepo := postgres.NewWorkScheduleRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	systemClock := clock.NewSystem()
	catalogSvc := catalogService.NewService(serviceRepo)
	bookingSvc := bookingService.NewService(
		bookingRepo,
		timeSlotRepo,
		customerRepo,
		stylistRepo,
		salonRepo,
		scheduleRepo,
		catalogSvc,
		outboxRepo,
		systemClock,
		appLogger,
	)
	reviewSvc := reviewService.NewService(reviewRepo, bookingRepo, customerRepo, stylistRepo, systemClock)
	notificationSvc := notificationService.NewService(notificationRepo)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New("salonbook", registry)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.RPS),
		Burst: cfg.RateLimit.Burst,
	})

	r := router.NewRouter(router.Deps{
		Verifier:    auth.NewVerifier(cfg.JWT.Secret),
		Logger:      appLogger,
		Metrics:     appMetrics,
		Registry:    registry,
		RateLimiter: rateLimiter,

		Health:        healthHandler.NewHandler(db),
		Bookings:      bookingHandler.NewHandler(bookingSvc, appMetrics),
		Reviews:       reviewHandler.NewHandler(reviewSvc),
		Notifications: notificationHandler.NewHandler(notificationSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	appLogger.Info("server stopped")
}
