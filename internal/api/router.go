package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/api/handlers"
	apimiddleware "github.com/auralis-music/auralis-api/internal/api/middleware"
	"github.com/auralis-music/auralis-api/internal/config"
	"github.com/auralis-music/auralis-api/internal/middleware"
	"github.com/auralis-music/auralis-api/internal/services"
	"github.com/auralis-music/auralis-api/internal/session"
)

// Dependencies carries the wired services the router exposes. main
// assembles these so the router stays free of provider and catalog
// construction.
type Dependencies struct {
	Tracker        *session.Tracker
	Interview      *services.InterviewService
	Recommendation *services.RecommendationService
	Email          *services.EmailService
}

func SetupRouter(db *gorm.DB, cfg *config.Config, version string, deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Auth routes (public). Only mounted for first-party JWT auth;
	// gateway and none modes have no account surface here.
	if cfg.IsJWTMode() {
		auth := router.Group("/api/auth")
		{
			authHandler := handlers.NewAuthHandler(db, cfg, deps.Email)
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.POST("/resend-verification", authHandler.ResendVerification)

			oauthHandler := handlers.NewOAuthHandler(db, cfg)
			auth.GET("/:provider", oauthHandler.BeginAuth)
			auth.GET("/:provider/callback", oauthHandler.Callback)
		}
	}

	// API routes v1, auth selected by deployment mode
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware(db, cfg))
	{
		sessionHandler := handlers.NewSessionHandler(deps.Tracker, deps.Interview)
		v1.POST("/sessions", sessionHandler.Create)
		v1.GET("/sessions/:id", sessionHandler.Get)
		v1.GET("/sessions/:id/messages", sessionHandler.Messages)
		v1.POST("/sessions/:id/messages", sessionHandler.Answer)

		recHandler := handlers.NewRecommendationHandler(deps.Recommendation, db)
		v1.POST("/sessions/:id/playlist", recHandler.FromSession)
		v1.POST("/recommendations", recHandler.FromProfileCode)
		v1.GET("/recommendations", recHandler.History)
		v1.GET("/recommendations/:id", recHandler.Get)

		profileHandler := handlers.NewProfileHandler()
		v1.POST("/profiles/encode", profileHandler.Encode)
		v1.POST("/profiles/decode", profileHandler.Decode)

		userHandler := handlers.NewUserHandler(db)
		v1.GET("/me", userHandler.GetProfile)
		v1.PUT("/me", userHandler.UpdateProfile)
	}

	// Admin API routes (admin only, JWT mode)
	if cfg.IsJWTMode() {
		admin := router.Group("/api/admin")
		admin.Use(middleware.JWTAuth(db, cfg), middleware.AdminRequired())
		{
			adminHandler := handlers.NewAdminHandler(db)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.PUT("/users/:id/toggle-active", adminHandler.ToggleUserActive)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	return router
}

func authMiddleware(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	switch {
	case cfg.IsGatewayMode():
		return apimiddleware.GatewayAuth()
	case cfg.IsJWTMode():
		return middleware.JWTAuth(db, cfg)
	default:
		return apimiddleware.NoAuth()
	}
}
