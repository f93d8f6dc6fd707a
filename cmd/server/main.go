// @title           AI Hub Backend API
// @version         1.0.0
// @description     Backend API for the AI services marketplace: service listings, order fulfillment with versioned deliverables and a revision budget, order messaging and profiles.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"ai-hub-backend/docs"
	"ai-hub-backend/internal/config"
	"ai-hub-backend/internal/database"
	"ai-hub-backend/internal/handlers"
	"ai-hub-backend/internal/logger"
	"ai-hub-backend/internal/middleware"
	"ai-hub-backend/internal/services"
	"ai-hub-backend/internal/supabase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		zlog.Warn("DATABASE_URL not set, migrations will be skipped and database operations will be limited")
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize Supabase client", zap.Error(err))
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		zlog.Fatal("Failed to initialize storage client", zap.Error(err))
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Create database client for direct queries
	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			zlog.Warn("Failed to initialize database client", zap.Error(err))
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				zlog.Warn("Failed to initialize migrator", zap.Error(err))
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					zlog.Warn("Migration failed", zap.Error(err))
				} else {
					zlog.Info("Migrations completed successfully")
				}
			}
		}
	}

	// Fulfillment service drives the order lifecycle
	var fulfillment *services.FulfillmentService
	if dbClient != nil {
		fulfillment = services.NewFulfillmentService(dbClient, storageClient, realtimeClient, cfg.MaxRevisions, zlog)
	} else {
		zlog.Warn("Fulfillment service not available without a database connection")
	}

	// Initialize handlers (dbClient might be nil, handlers should handle this)
	servicesHandler := handlers.NewServicesHandler(dbClient)
	ordersHandler := handlers.NewOrdersHandler(dbClient, fulfillment)
	deliveriesHandler := handlers.NewDeliveriesHandler(fulfillment)
	messagesHandler := handlers.NewMessagesHandler(dbClient)
	profilesHandler := handlers.NewProfilesHandler(dbClient)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check and metrics (no auth)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Service catalog
	api.POST("/services", servicesHandler.CreateService)
	api.GET("/services", servicesHandler.ListServices)
	api.GET("/services/:service_id", servicesHandler.GetService)
	api.DELETE("/services/:service_id", servicesHandler.DeleteService)

	// Orders
	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders", ordersHandler.ListOrders)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)
	api.POST("/orders/:order_id/accept", ordersHandler.AcceptOrder)
	api.POST("/orders/:order_id/cancel", ordersHandler.CancelOrder)

	// Deliverables and review
	api.POST("/orders/:order_id/deliveries", deliveriesHandler.SubmitDelivery)
	api.GET("/orders/:order_id/versions", deliveriesHandler.ListVersions)
	api.POST("/orders/:order_id/approval", deliveriesHandler.ApproveVersion)
	api.POST("/orders/:order_id/revision", deliveriesHandler.RequestRevision)

	// Messaging
	api.GET("/orders/:order_id/messages", messagesHandler.ListMessages)
	api.POST("/orders/:order_id/messages", messagesHandler.SendMessage)

	// Profiles
	api.GET("/profiles/:user_id", profilesHandler.GetProfile)
	api.PUT("/profiles/me", profilesHandler.UpdateProfile)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	zlog.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
