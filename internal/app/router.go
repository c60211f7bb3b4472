package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"busbook/internal/domain"
	"busbook/internal/handler"
	"busbook/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	SessionHandler *handler.SessionHandler
	SeatHandler    *handler.SeatHandler
	BookingHandler *handler.BookingHandler
	AuthHandler    *handler.AuthHandler
	AdminHandler   *handler.AdminHandler
	TokenVerifier  middleware.TokenVerifier
	RedisClient    redis.Cmdable
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:   []string{"Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := middleware.OptionalAuth(deps.TokenVerifier)
	requireAuth := middleware.Auth(deps.TokenVerifier)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.POST("/auth/login", deps.AuthHandler.Login)
		v1.GET("/locations", deps.SessionHandler.Locations)
		v1.GET("/me/passenger", requireAuth, deps.SessionHandler.PrefillPassenger)

		// Booking flow routes.
		sessions := v1.Group("/sessions", optionalAuth)
		{
			sessions.POST("", deps.SessionHandler.StartSession)
			sessions.GET("/:sid", deps.SessionHandler.GetSession)
			sessions.POST("/:sid/search", deps.SessionHandler.Search)
			sessions.POST("/:sid/bus", deps.SessionHandler.SelectBus)
			sessions.POST("/:sid/pickup-drop", deps.SessionHandler.SelectPickupDrop)
			sessions.POST("/:sid/seats/toggle", deps.SessionHandler.ToggleSeat)
			sessions.POST("/:sid/seats/confirm", deps.SessionHandler.ConfirmSeats)
			sessions.POST("/:sid/passengers", deps.SessionHandler.SubmitPassengers)
			sessions.POST("/:sid/promo", deps.SessionHandler.ApplyPromo)
			sessions.DELETE("/:sid/promo", deps.SessionHandler.RemovePromo)
			sessions.GET("/:sid/quote", deps.SessionHandler.Quote)
			sessions.POST("/:sid/payment", deps.SessionHandler.Pay)
			sessions.POST("/:sid/reset", deps.SessionHandler.Reset)
		}

		// Seat map routes.
		trips := v1.Group("/trips")
		{
			trips.GET("/:id/seats", deps.SeatHandler.GetSeats)
			trips.POST("/:id/seats/refresh", deps.SeatHandler.RefreshSeats)
			trips.GET("/:id/seats/stream", deps.SeatHandler.StreamSeats)
		}

		// Booking routes.
		bookings := v1.Group("/bookings", optionalAuth)
		{
			bookings.GET("/:id/ticket", deps.BookingHandler.GetTicket)
		}

		// Admin routes.
		admin := v1.Group("/admin", requireAuth, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/buses", deps.AdminHandler.ListBuses)
			admin.POST("/buses", deps.AdminHandler.CreateBus)
			admin.GET("/buses/:id", deps.AdminHandler.GetBus)
			admin.PUT("/buses/:id", deps.AdminHandler.UpdateBus)
			admin.DELETE("/buses/:id", deps.AdminHandler.DeleteBus)

			admin.GET("/trips", deps.AdminHandler.ListTrips)
			admin.POST("/trips", deps.AdminHandler.CreateTrip)
			admin.GET("/trips/:id", deps.AdminHandler.GetTrip)
			admin.PUT("/trips/:id", deps.AdminHandler.UpdateTrip)
			admin.POST("/trips/:id/cancel", deps.AdminHandler.CancelTrip)
			admin.POST("/trips/:id/duplicate", deps.AdminHandler.DuplicateTrip)

			admin.GET("/promos", deps.AdminHandler.ListPromos)
			admin.POST("/promos", deps.AdminHandler.CreatePromo)
			admin.PUT("/promos/:id", deps.AdminHandler.UpdatePromo)
			admin.DELETE("/promos/:id", deps.AdminHandler.DeletePromo)

			admin.GET("/bookings", deps.AdminHandler.ListBookings)
			admin.GET("/bookings/:id", deps.AdminHandler.GetBooking)
		}
	}

	return router
}
