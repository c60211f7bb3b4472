package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"busbook/internal/app"
	"busbook/internal/config"
	"busbook/internal/events"
	"busbook/internal/handler"
	"busbook/internal/repository/postgres"
	"busbook/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Event bus. Without NATS, events stay in-process.
	var bus events.Bus
	if cfg.NATS.URL != "" {
		bus, err = events.NewNATSBus(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		log.Println("Connected to NATS")
	} else {
		bus = events.NewLocalBus()
		log.Println("NATS_URL not set, using in-process event bus")
	}
	defer bus.Close()

	// Wire dependencies.
	server, err := wireServer(db, redisClient, bus, nrApp, cfg)
	if err != nil {
		log.Fatalf("failed to wire server: %v", err)
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, bus events.Bus, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, error) {
	// Initialize Redis stores.
	stores := app.NewRedisStores(redisClient, cfg.Booking)

	// Initialize repositories.
	profileRepo := postgres.NewProfileRepository(db)
	busRepo := postgres.NewBusRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	promoRepo := postgres.NewPromoRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Payment provider.
	var psp service.PSP
	if cfg.Stripe.SecretKey != "" {
		psp = service.NewStripePSP(cfg.Stripe.SecretKey)
		log.Println("Using Stripe payment provider")
	} else {
		psp = service.NewMockPSP()
		log.Println("STRIPE_SECRET_KEY not set, using mock payment provider")
	}

	// Initialize services.
	catalog := service.DefaultLocations
	notificationService := service.NewNotificationService()
	seatService := service.NewSeatService(tripRepo, seatRepo, stores.Seats)
	seatWatcher := service.NewSeatWatcher(seatService, cfg.Booking.SeatRefreshInterval, bus)
	if err := seatWatcher.Listen(bus); err != nil {
		return nil, err
	}
	promoService := service.NewPromoService(promoRepo)
	paymentService := service.NewPaymentService(paymentRepo, psp, cfg.Booking.Currency)
	bookingStore := service.NewBookingStore(db, stores.Locks, paymentService, seatWatcher, bus, notificationService, cfg.Booking.SeatLockTTL)
	flowService := service.NewBookingFlowService(stores.Sessions, tripRepo, profileRepo, seatService, promoService, bookingStore, catalog)
	busService := service.NewBusService(busRepo)
	tripService := service.NewTripService(db, tripRepo, busRepo, seatWatcher, bus, notificationService)
	bookingService := service.NewBookingService(bookingRepo)
	ticketService := service.NewTicketService(bookingService)
	authService := service.NewAuthService(profileRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize handlers.
	sessionHandler := handler.NewSessionHandler(flowService, catalog)
	seatHandler := handler.NewSeatHandler(seatService, seatWatcher)
	bookingHandler := handler.NewBookingHandler(ticketService)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(busService, tripService, promoService, bookingService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		SessionHandler: sessionHandler,
		SeatHandler:    seatHandler,
		BookingHandler: bookingHandler,
		AuthHandler:    authHandler,
		AdminHandler:   adminHandler,
		TokenVerifier:  authService,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// No WriteTimeout: the seat stream is long-lived.
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}, nil
}
