package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/api"
	"github.com/auralis-music/auralis-api/internal/catalog"
	"github.com/auralis-music/auralis-api/internal/config"
	"github.com/auralis-music/auralis-api/internal/database"
	"github.com/auralis-music/auralis-api/internal/llm"
	"github.com/auralis-music/auralis-api/internal/metrics"
	"github.com/auralis-music/auralis-api/internal/observability"
	"github.com/auralis-music/auralis-api/internal/scoring"
	"github.com/auralis-music/auralis-api/internal/services"
	"github.com/auralis-music/auralis-api/internal/session"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
	catalogHTTPTimeout    = 15 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "auralis-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Initialize database. Optional: sessions fall back to the
	// in-memory store and playlists are not persisted.
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to connect to database:", err)
		}

		if err := database.Migrate(db); err != nil {
			sentry.CaptureException(err)
			log.Fatal("Failed to run migrations:", err)
		}
	} else {
		log.Println("⚠️  DATABASE_URL not set, running without persistence")
	}

	// CloudWatch metrics (production only, nil client no-ops)
	cwClient, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}

	// Langfuse LLM tracing
	observability.InitializeLangfuse(ctx, cfg)

	// Interview LLM provider. The factory falls back to the scripted
	// provider when no API key is configured.
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.InterviewModel, cfg.InterviewProvider)
	if err != nil {
		log.Fatal("Failed to initialize interview provider:", err)
	}
	log.Printf("Interview provider: %s (model: %s)", provider.Name(), cfg.InterviewModel)

	// Candidate catalog
	var source catalog.CandidateSource
	var writer catalog.PlaylistWriter
	if cfg.CatalogBaseURL != "" {
		client := catalog.NewYTMusicClient(&http.Client{Timeout: catalogHTTPTimeout}, cfg.CatalogBaseURL, cfg.CatalogAPIKey)
		source = client
		writer = client
	} else {
		log.Println("⚠️  CATALOG_BASE_URL not set, serving an empty catalog")
		source = &catalog.StaticSource{}
	}

	// Session tracking
	var store session.Store
	if db != nil {
		store = session.NewGormStore(db)
	} else {
		store = session.NewMemoryStore()
	}
	tracker := session.NewTracker(store)

	// Services
	engine := scoring.NewEngine(scoring.DefaultWeights())
	interviewSvc := services.NewInterviewService(tracker, provider, cfg.InterviewModel, cwClient)
	recommendationSvc := services.NewRecommendationService(source, engine, tracker, db, cwClient, cfg.PlaylistSize)
	if writer != nil {
		recommendationSvc.SetPlaylistWriter(writer)
	}
	emailSvc := services.NewEmailService(db, cfg)
	recommendationSvc.SetEmailService(emailSvc)

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(db, cfg, GetVersion(), api.Dependencies{
		Tracker:        tracker,
		Interview:      interviewSvc,
		Recommendation: recommendationSvc,
		Email:          emailSvc,
	})

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
