package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pestpro/pestpro-api/config"
	"github.com/pestpro/pestpro-api/internal/cache"
	"github.com/pestpro/pestpro-api/internal/handlers"
	"github.com/pestpro/pestpro-api/internal/middleware"
	"github.com/pestpro/pestpro-api/internal/repository"
	"github.com/pestpro/pestpro-api/internal/services"
	"github.com/pestpro/pestpro-api/pkg/crm"
	"github.com/pestpro/pestpro-api/pkg/db"
	"github.com/pestpro/pestpro-api/pkg/geocode"
	"github.com/pestpro/pestpro-api/pkg/httpclient"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/mailer"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"github.com/pestpro/pestpro-api/pkg/profiling"
	"github.com/pestpro/pestpro-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerLeadRoutes registers the three form intake routes
func registerLeadRoutes(group *gin.RouterGroup, limiter *middleware.RateLimiter, h *handlers.LeadHandler) {
	lead := []gin.HandlerFunc{limiter.Middleware(), middleware.BodySizeLimitMiddleware(middleware.DefaultLeadBodyLimit)}

	group.POST("/send-quote", append(lead, h.SendQuote)...)
	group.POST("/contact", append(lead, h.Contact)...)
	group.POST("/home-quote", append(lead, h.HomeQuote)...)
}

// registerAddressRoutes registers address lookups. They are left unregistered
// when no maps key is configured.
func registerAddressRoutes(group *gin.RouterGroup, limiter *middleware.RateLimiter, h *handlers.AddressHandler) {
	if h == nil {
		logger.Warn("Address routes disabled: GOOGLE_MAPS_API_KEY not configured")
		return
	}

	address := group.Group("/address", limiter.Middleware())
	address.GET("/suggest", h.Suggest)
	address.GET("/resolve", h.Resolve)
	address.GET("/reverse", h.Reverse)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PestPro API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("crm_base_url", cfg.CRM.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Options{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.AppEnv,
		Endpoint:       cfg.Observability.ExporterEndpoint,
		Insecure:       cfg.Observability.ExporterInsecure,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (opt-in)
	stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability.ServiceName, cfg.Server.AppEnv, cfg.Observability.ServiceVersion)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.Init()
	metrics.RecordInfrastructureMetrics(ctx.Done())

	// Lead journal is optional; without DATABASE_URL leads only go to the CRM and inbox
	var journal repository.LeadJournal
	var journalPing handlers.Pinger
	if cfg.Database.URL != "" {
		pool, poolErr := db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.Database.URL,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
			CACertPath: cfg.Database.CACertPath,
		})
		if poolErr != nil {
			logger.Fatal("Failed to initialize database connection pool", zap.Error(poolErr))
		}
		defer db.Close(pool)
		journal = repository.NewLeadRepository(pool)
		journalPing = pool
	} else {
		logger.Warn("Lead journal disabled: DATABASE_URL not set")
	}

	// Integrations
	crmClient := crm.NewClient(cfg.CRM.BaseURL, httpclient.New(time.Duration(cfg.CRM.TimeoutSeconds)*time.Second))

	sender, err := mailer.NewSender(cfg.Email)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	if !sender.Configured() {
		logger.Warn("Lead notification emails disabled: EMAIL_USER or EMAIL_PASS not set")
	}

	var addressHandler *handlers.AddressHandler
	if cfg.Maps.APIKey != "" {
		resolver, resolverErr := geocode.NewResolver(cfg.Maps.APIKey, cfg.Maps.Country, cache.NewSuggestionCache())
		if resolverErr != nil {
			logger.Fatal("Failed to initialize address resolver", zap.Error(resolverErr))
		}
		addressHandler = handlers.NewAddressHandler(resolver)
	}

	// Services and handlers
	leadService := services.NewLeadService(crmClient, sender, journal)
	leadHandler := handlers.NewLeadHandler(leadService, cfg.Business)
	healthHandler := handlers.NewHealthHandler(journalPing)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS configuration - SECURITY: Only allow the marketing site origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// SECURITY: Rate limiters to keep form spam away from the CRM
	generalRateLimiter := middleware.NewRateLimiter(ctx, 100, 200) // 100 req/sec, burst of 200
	leadRateLimiter := middleware.NewRateLimiter(ctx, 0.2, 5)      // 1 req/5s, burst of 5
	leadRateLimiter.WithMessage("Too many submissions. Please wait a moment or call us directly.")
	addressRateLimiter := middleware.NewRateLimiter(ctx, 5, 20) // typeahead, 5 req/sec, burst of 20

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	registerLeadRoutes(api, leadRateLimiter, leadHandler)
	registerAddressRoutes(api, addressRateLimiter, addressHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Lead submissions may wait on both sinks for up to 30s
		WriteTimeout:   45 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // SECURITY: 1 MB max header size
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
