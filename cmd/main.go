package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"rentalcv/internal/caching"
	"rentalcv/internal/config"
	"rentalcv/internal/handlers"
	"rentalcv/internal/jobs/background"
	"rentalcv/internal/middleware"
	"rentalcv/internal/models"
	"rentalcv/internal/repositories"
	"rentalcv/internal/services"
	"rentalcv/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Database connection pool
	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// MinIO service
	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisURL, "", 0)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	tenancyRepo := repositories.NewTenancyRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	complianceRepo := repositories.NewComplianceRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	verificationCodeRepo := repositories.NewVerificationCodeRepo(pool)
	disclaimerRepo := repositories.NewDisclaimerRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)

	// Services
	notificationSvc := services.NewNotificationService(notificationRepo)
	geoSvc := services.NewGeolocationService(cfg.GeoAPIBaseURL, cacheSvc)
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, cfg.AccessTokenTTLSec, cfg.RefreshTTLSec)
	userSvc := services.NewUserService(userRepo, authSvc, notificationSvc)
	propertySvc := services.NewPropertyService(propertyRepo)
	complianceSvc := services.NewComplianceService(complianceRepo)
	disclaimerSvc := services.NewDisclaimerService(disclaimerRepo)
	tenancySvc := services.NewTenancyService(
		tenancyRepo, propertyRepo, complianceRepo, disclaimerRepo,
		geoSvc, notificationSvc, cacheSvc, cfg.InviteTokenTTL,
	)
	eligibilitySvc := services.NewEligibilityService(tenancyRepo, reviewRepo, paymentRepo)
	reviewSvc := services.NewReviewService(reviewRepo, tenancyRepo)
	paymentSvc := services.NewPaymentService(paymentRepo)
	verificationSvc := services.NewVerificationService(verificationCodeRepo, notificationSvc)

	// Handlers
	userHandlers := handlers.NewUserHandlers(userSvc, authSvc)
	propertyHandlers := handlers.NewPropertyHandlers(propertySvc)
	tenancyHandlers := handlers.NewTenancyHandlers(tenancySvc)
	reviewHandlers := handlers.NewReviewHandlers(reviewSvc, eligibilitySvc, paymentSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	disclaimerHandlers := handlers.NewDisclaimerHandlers(disclaimerSvc, complianceSvc)
	verificationHandlers := handlers.NewVerificationHandlers(verificationSvc)
	documentHandlers := handlers.NewDocumentHandlers(minioSvc, userSvc, cfg.DocumentBucket)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, cfg.DocumentBucket)

	// Background jobs
	scheduler := background.NewJobScheduler(notificationSvc, complianceSvc, tenancyRepo, cacheSvc, cfg.OutboxBatchSize)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer scheduler.Stop()

	// Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	rateLimiter := middleware.NewRateLimitMiddleware(cacheSvc)

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes
	v1 := e.Group("/v1")
	versionMiddleware := middleware.NewVersionMiddleware()
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.Use(rateLimiter.Limit("auth", 20, time.Minute))
	auth.POST("/register", userHandlers.Register)
	auth.POST("/login", userHandlers.Login)
	auth.POST("/refresh", userHandlers.Refresh)
	auth.GET("/verify-email", userHandlers.VerifyEmail)

	// Public disclaimer lookup
	v1.GET("/disclaimers/:country", disclaimerHandlers.GetActiveDisclaimer)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret, cfg.JWKSURL))

	protected.POST("/auth/logout", userHandlers.Logout)
	protected.GET("/users/me", userHandlers.GetProfile)
	protected.PUT("/users/me", userHandlers.UpdateProfile)

	// Property routes
	protected.GET("/properties", propertyHandlers.ListProperties, middleware.RequireRole(models.RoleLandlord))
	protected.POST("/properties", propertyHandlers.AddProperty, middleware.RequireRole(models.RoleLandlord))
	protected.GET("/properties/:id", propertyHandlers.GetProperty)
	protected.PUT("/properties/:id", propertyHandlers.UpdateProperty, middleware.RequireRole(models.RoleLandlord))
	protected.POST("/properties/:id/claim", propertyHandlers.ClaimProperty, middleware.RequireRole(models.RoleLandlord))

	// Tenancy workflow routes
	protected.GET("/tenancies", tenancyHandlers.ListTenancies)
	protected.GET("/tenancies/:id", tenancyHandlers.GetTenancy)
	protected.POST("/tenancies", tenancyHandlers.AddTenancy, middleware.RequireRole(models.RoleLandlord))
	protected.POST("/tenancies/requests", tenancyHandlers.CreateTenantRequest, middleware.RequireRole(models.RoleTenant))
	protected.POST("/tenancies/accept", tenancyHandlers.AcceptInvite, middleware.RequireRole(models.RoleTenant))
	protected.POST("/tenancies/verify", tenancyHandlers.VerifyTenantRequest, middleware.RequireRole(models.RoleLandlord))
	protected.POST("/tenancies/decline", tenancyHandlers.DeclineInvite)
	protected.POST("/tenancies/:id/send-invite", tenancyHandlers.SendLandlordInvite, middleware.RequireRole(models.RoleTenant))
	protected.POST("/tenancies/:id/resend-invite", tenancyHandlers.ResendInvite)
	protected.POST("/tenancies/:id/confirm", tenancyHandlers.ConfirmDetails, middleware.RequireRole(models.RoleTenant))
	protected.POST("/tenancies/:id/end", tenancyHandlers.EndTenancy)
	protected.POST("/admin/tenancies/:id/verify-documents", tenancyHandlers.VerifyDocuments, middleware.RequireRole(models.RoleAdmin))

	// Review routes
	protected.GET("/tenancies/:id/review-eligibility", reviewHandlers.CheckEligibility, middleware.RequireRole(models.RoleLandlord))
	protected.GET("/tenancies/:id/reviews", reviewHandlers.ListTenancyReviews)
	protected.POST("/tenancies/:id/reviews/tenant", reviewHandlers.SubmitLandlordReview, middleware.RequireRole(models.RoleLandlord))
	protected.POST("/tenancies/:id/reviews/landlord", reviewHandlers.SubmitTenantReview, middleware.RequireRole(models.RoleTenant))

	// Billing routes
	protected.GET("/payments/plans", paymentHandlers.GetPlans)
	protected.GET("/payments/account", paymentHandlers.GetAccount)
	protected.POST("/payments/account", paymentHandlers.SelectPlan)
	protected.POST("/payments/:id/confirm", paymentHandlers.ConfirmPayment)

	// Compliance routes
	protected.POST("/compliance/acceptances", disclaimerHandlers.LogAcceptance)
	protected.GET("/compliance/acceptances", disclaimerHandlers.ListMyAcceptances)
	protected.POST("/admin/disclaimers", disclaimerHandlers.PublishDisclaimer, middleware.RequireRole(models.RoleAdmin))

	// Verification code routes
	protected.POST("/verification/send", verificationHandlers.SendCode, rateLimiter.Limit("verification", 5, 10*time.Minute))
	protected.POST("/verification/verify", verificationHandlers.VerifyCode)

	// Document routes
	protected.POST("/documents/upload-url", documentHandlers.CreateUploadURL)
	protected.POST("/documents/attach", documentHandlers.AttachDocument)
	protected.GET("/documents/url", documentHandlers.GetDocumentURL)

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := e.Start(cfg.ServerAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
