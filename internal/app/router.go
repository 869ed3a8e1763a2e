package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"ridehail/internal/handler"
	"ridehail/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	RideHandler    *handler.RideHandler
	DriverHandler  *handler.DriverHandler
	PricingHandler *handler.PricingHandler
	PaymentHandler *handler.PaymentHandler
	RatingHandler  *handler.RatingHandler
	HistoryHandler *handler.HistoryHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Account routes.
		v1.POST("/passengers/register", deps.UserHandler.RegisterPassenger)
		users := v1.Group("/users")
		{
			users.GET("", deps.UserHandler.GetAll)
			users.GET("/:email", deps.UserHandler.GetByEmail)
		}

		// Pricing routes.
		v1.GET("/quotes", deps.PricingHandler.GetQuotes)
		v1.GET("/categories", deps.PricingHandler.GetCategories)
		pricing := v1.Group("/pricing")
		{
			pricing.GET("/fare-factor", deps.PricingHandler.GetFareFactor)
			pricing.PUT("/fare-factor", deps.PricingHandler.SetFareFactor)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetByPassenger)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.RideHandler.AcceptRide)
			rides.POST("/:id/refuse", deps.RideHandler.RefuseRide)
			rides.PUT("/:id/location", deps.RideHandler.UpdateLocation)
			rides.GET("/:id/route", deps.RideHandler.GetRoute)
			rides.POST("/:id/payment", deps.PaymentHandler.ProcessPayment)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/rate-driver", deps.RatingHandler.RateDriver)
			rides.POST("/:id/rate-passenger", deps.RatingHandler.RatePassenger)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.UserHandler.RegisterDriver)
			drivers.PUT("/:id/availability", deps.DriverHandler.SetAvailability)
			drivers.PUT("/:id/location", deps.DriverHandler.UpdateStandingLocation)
			drivers.GET("/:id/location", deps.DriverHandler.GetStandingLocation)
			drivers.GET("/:id/pending-rides", deps.DriverHandler.GetPendingRides)
		}

		// History routes.
		history := v1.Group("/history")
		{
			history.GET("", deps.HistoryHandler.GetHistory)
			history.GET("/statistics", deps.HistoryHandler.GetStatistics)
			history.GET("/category-counts", deps.HistoryHandler.GetCategoryCounts)
		}
	}

	return router
}
