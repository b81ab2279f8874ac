package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nutriconnect-server/config"
	"nutriconnect-server/database"
	"nutriconnect-server/jobs"
	"nutriconnect-server/middleware"
	"nutriconnect-server/models"
	"nutriconnect-server/routes"
	ws "nutriconnect-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database (runs migrations, including the partial unique
	// indexes that enforce slot occupancy)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "NutriConnect server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Booking feed hub for live dietitian updates
	bookingHub := ws.NewHub()
	go bookingHub.Run()
	routes.InitBookingHub(bookingHub)

	dietitianFeed := ws.NewDietitianHandler(bookingHub)
	router.GET("/api/ws/dietitian", middleware.AuthMiddleware(), dietitianFeed.HandleDietitian)

	// API routes
	api := router.Group("/api")
	{
		// Booking routes: slot-availability queries work for anonymous
		// callers, so authentication is optional here. The subscription
		// gate on creation only engages for authenticated users.
		bookingAPI := api.Group("")
		bookingAPI.Use(middleware.OptionalAuthMiddleware())
		routes.RegisterBookingRoutes(bookingAPI)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterSubscriptionRoutes(protected)
			routes.RegisterNotificationRoutes(protected)

			// Availability management is dietitian-only
			dietitianOnly := protected.Group("/dietitians")
			dietitianOnly.Use(middleware.RequireRole(models.RoleDietitian))
			routes.RegisterBlockedSlotRoutes(dietitianOnly)

			// Admin views
			adminRoutes := protected.Group("/admin")
			adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
			routes.RegisterAdminRoutes(adminRoutes)
		}
	}

	// Keep the per-client rate limiter store bounded
	janitorStop := make(chan struct{})
	middleware.GlobalRateLimiterStore().StartJanitor(10*time.Minute, janitorStop)

	// Start background jobs
	reminderJob := jobs.NewReminderJob()
	reminderJob.Start()

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Block until we get a shutdown signal, then stop the background work
	// before draining in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	reminderJob.Stop()
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}

	log.Println("✅ Server stopped")
}
