package main

import (
	"fmt"
	"log"
	"net/http"

	"gorent/internal/config"
	handlers "gorent/internal/handlers/shared"
	"gorent/internal/middleware"
	"gorent/internal/repositories/mongodb"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/cache"
	"gorent/pkg/database"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/sms"
	"gorent/pkg/storage"
	"gorent/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Mongo
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run migrations")
	}

	// Redis is optional: without it the case store just skips its cache.
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Outbound providers
	smsProvider := buildSMSProvider(cfg, appLogger)
	storageProvider := buildStorageProvider(cfg, appLogger)

	var refundProvider payment.RefundProvider
	if cfg.Payment.Stripe.SecretKey != "" {
		refundProvider = payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey)
	}

	// Repositories
	var cacheService mongodb.CacheService
	if redisCache != nil {
		cacheService = redisCache
	}
	caseRepo := mongodb.NewCaseRepository(db.Database, cacheService)
	decisionRepo := mongodb.NewDecisionRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	auditRepo := mongodb.NewAuditLogRepository(db.Database)

	// Services
	auditService := services.NewAuditService(auditRepo, appLogger)
	notificationService := services.NewNotificationService(smsProvider, userRepo, appLogger)
	refundPolicy := services.RefundPolicy{
		PartialRefundFraction: cfg.Payment.PartialRefundFraction,
		FeeWaiverFraction:     cfg.Payment.FeeWaiverFraction,
	}
	disputeService := services.NewDisputeService(db, caseRepo, decisionRepo, bookingRepo,
		auditService, notificationService, refundProvider, storageProvider, refundPolicy, appLogger)
	complaintService := services.NewComplaintService(db, caseRepo, decisionRepo, bookingRepo,
		auditService, notificationService, refundProvider, storageProvider, refundPolicy, appLogger)

	// Handlers
	disputeHandler := handlers.NewCaseHandler(disputeService, "Dispute")
	complaintHandler := handlers.NewCaseHandler(complaintService, "Complaint")
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Initialize Gin router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupDisputeRoutes(v1, disputeHandler, cfg.Security.JWTSecret)
		routes.SetupComplaintRoutes(v1, complaintHandler, cfg.Security.JWTSecret)
		routes.SetupAdminRoutes(v1, auditHandler, cfg.Security.JWTSecret)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": utils.AppVersion,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.WithField("addr", addr).Info("Starting server")
	log.Fatal(http.ListenAndServe(addr, router))
}

func buildSMSProvider(cfg *config.Config, appLogger *logger.Logger) sms.SMSProvider {
	switch cfg.SMS.Provider {
	case "twilio":
		if cfg.SMS.Twilio.AccountSID == "" {
			appLogger.Warn("Twilio not configured, case notifications disabled")
			return nil
		}
		return sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
	case "aws":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWS.Region)
		if err != nil {
			appLogger.WithError(err).Warn("SNS unavailable, case notifications disabled")
			return nil
		}
		return provider
	default:
		return nil
	}
}

func buildStorageProvider(cfg *config.Config, appLogger *logger.Logger) storage.StorageProvider {
	switch cfg.Storage.Provider {
	case "aws":
		provider, err := storage.NewAWSS3Storage(cfg.Storage.AWS.Region, cfg.Storage.AWS.Bucket)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize S3 storage")
		}
		return provider
	case "gcp":
		provider, err := storage.NewGCPStorage(cfg.Storage.GCP.Bucket, cfg.Storage.GCP.CredentialsFile)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize GCP storage")
		}
		return provider
	default:
		provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize local storage")
		}
		return provider
	}
}
