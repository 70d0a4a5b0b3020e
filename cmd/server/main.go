package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/config"
	"github.com/rtconnect/booking-gateway/internal/handlers"
	"github.com/rtconnect/booking-gateway/internal/middleware"
	"github.com/rtconnect/booking-gateway/internal/services"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting RTConnect Booking Gateway")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize upstream booking API client
	client := rtcapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	logger.WithField("base_url", cfg.Upstream.BaseURL).Info("Booking API client initialized")

	// Initialize services
	logger.Info("Initializing services...")
	layoutService := services.NewSeatLayoutService()
	fareService := services.NewFareService()
	coordinator := services.NewVerificationCoordinator(client, fareService, cfg.Form.VerifyDebounce, logger)
	sessionService := services.NewFormSessionService(coordinator, fareService, logger)
	bookingService := services.NewBookingService(client, logger)

	// Initialize and start cron service
	cronService := services.NewCronService(sessionService, cfg.Form.SessionTTL, cfg.Form.SweepSchedule, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(client, logger)
	searchHandler := handlers.NewSearchHandler(client, logger)
	seatHandler := handlers.NewSeatHandler(client, layoutService, sessionService, logger)
	passengerHandler := handlers.NewPassengerHandler(sessionService, logger)
	paymentHandler := handlers.NewPaymentHandler(bookingService, sessionService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// Booking flow routes (require the rider's bearer token)
		flow := v1.Group("/")
		flow.Use(middleware.UpstreamToken())
		{
			flow.GET("/home/profile", searchHandler.Profile)
			flow.GET("/constituencies", searchHandler.Constituencies)
			flow.POST("/buses/search", searchHandler.SearchBuses)

			flow.POST("/seats/map", seatHandler.SeatMap)
			flow.POST("/seats/toggle", seatHandler.ToggleSeat)
			flow.POST("/seats/confirm", seatHandler.ConfirmSelection)

			flow.GET("/passengers/:sessionId", passengerHandler.GetSession)
			flow.PATCH("/passengers/:sessionId/:index", passengerHandler.UpdateField)
			flow.POST("/passengers/:sessionId/verify", passengerHandler.VerifyAll)
			flow.POST("/passengers/:sessionId/proceed", passengerHandler.Proceed)

			flow.POST("/payments/confirm", paymentHandler.Confirm)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop cron service
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"request_id": middleware.GetRequestID(c),
		}

		authHeader := c.GetHeader("Authorization")
		fields["has_auth"] = authHeader != ""

		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request completed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}
