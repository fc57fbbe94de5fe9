package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env in development; in production the environment is injected
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize auth
	if err := auth.InitOAuth(); err != nil {
		log.Fatal("Failed to initialize OAuth:", err)
	}
	if err := auth.InitCrypto(); err != nil {
		log.Fatal("Failed to initialize token encryption:", err)
	}

	db := database.GetDB()

	// Notification channels. Push credentials are loaded once here and
	// passed into the service explicitly.
	emailService := services.NewEmailService(db)
	pushService := services.NewPushService(services.LoadPushConfig())

	dispatcher := services.NewDispatcher(
		services.NewGormReminderStore(db),
		services.NewGormNotificationStore(db),
		services.NewGormSubscriptionStore(db),
		services.NewGormUserDirectory(db),
		emailService,
		pushService,
	)

	// Receipt uploads are optional; without Cloudinary credentials the
	// endpoint answers 503
	receiptService, err := services.NewReceiptService()
	if err != nil {
		log.Printf("Receipt uploads disabled: %v", err)
		receiptService = nil
	}

	// Optional in-process dispatch ticker for deployments without an
	// external cron
	if intervalStr := os.Getenv("REMINDER_WORKER_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			log.Fatalf("Invalid REMINDER_WORKER_INTERVAL %q: %v", intervalStr, err)
		}
		services.NewReminderWorker(dispatcher, interval).Start()
		log.Printf("Started in-process reminder worker (interval %v)", interval)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// CORS for the web frontend
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{frontendURL}
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.GET("/auth/login", handlers.LoginHandler)
	router.GET("/auth/callback", handlers.GoogleCallbackHandler)
	router.POST("/auth/logout", handlers.LogoutHandler)

	// Dispatch trigger (shared-secret auth, not session auth)
	dispatchHandler := handlers.DispatchReminders(dispatcher, emailService, pushService)
	router.GET("/api/reminders/run", dispatchHandler)
	router.POST("/api/reminders/run", dispatchHandler)

	// Protected routes (auth required)
	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware())
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/me", handlers.GetCurrentUser)
		api.PUT("/profile", handlers.UpdateProfile)

		api.GET("/expenses", handlers.GetExpenses)
		api.POST("/expenses", handlers.CreateExpense)
		api.PUT("/expenses/:id", handlers.UpdateExpense)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)
		api.POST("/expenses/:id/receipt", handlers.UploadReceipt(receiptService))

		api.GET("/emis", handlers.GetEMIs)
		api.POST("/emis", handlers.CreateEMI)
		api.GET("/emis/:id/schedule", handlers.GetEMISchedule)

		api.GET("/loans", handlers.GetLoans)
		api.POST("/loans", handlers.CreateLoan)

		api.GET("/reminders", handlers.GetReminders)
		api.POST("/reminders", handlers.CreateReminder)
		api.PUT("/reminders/:id", handlers.UpdateReminder)
		api.DELETE("/reminders/:id", handlers.DeleteReminder)

		api.GET("/notifications", handlers.GetNotifications)
		api.PATCH("/notifications/:id/read", handlers.MarkNotificationRead)

		api.POST("/push-subscriptions", handlers.SavePushSubscription)
		api.DELETE("/push-subscriptions", handlers.DeletePushSubscription)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
