package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	automationapp "github.com/agencyos/backend/internal/application/automation"
	billingapp "github.com/agencyos/backend/internal/application/billing"
	catalogapp "github.com/agencyos/backend/internal/application/catalog"
	clientapp "github.com/agencyos/backend/internal/application/client"
	contentapp "github.com/agencyos/backend/internal/application/content"
	pipelineapp "github.com/agencyos/backend/internal/application/pipeline"
	"github.com/agencyos/backend/internal/infrastructure/auth"
	infrabilling "github.com/agencyos/backend/internal/infrastructure/billing"
	"github.com/agencyos/backend/internal/infrastructure/cache"
	"github.com/agencyos/backend/internal/infrastructure/config"
	"github.com/agencyos/backend/internal/infrastructure/email"
	"github.com/agencyos/backend/internal/infrastructure/event"
	"github.com/agencyos/backend/internal/infrastructure/logger"
	"github.com/agencyos/backend/internal/infrastructure/persistence"
	"github.com/agencyos/backend/internal/infrastructure/scheduler"
	"github.com/agencyos/backend/internal/infrastructure/storage"
	"github.com/agencyos/backend/internal/infrastructure/telemetry"
	"github.com/agencyos/backend/internal/interfaces/http/handler"
	"github.com/agencyos/backend/internal/interfaces/http/middleware"
	"github.com/agencyos/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Agency Portal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Development convenience; production schemas are managed by the migrate tool
	if cfg.App.Env == "development" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
		if err := db.DB.AutoMigrate(&scheduler.SchedulerJobRecord{}); err != nil {
			log.Fatal("Failed to auto-migrate scheduler tables", zap.Error(err))
		}
	}

	// Initialize OpenTelemetry providers
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Log export: when enabled, swap the plain logger for one bridged to the
	// OTEL collector. Components built after this point use the bridged logger.
	if cfg.Telemetry.Enabled && cfg.Telemetry.LogsExportEnabled {
		logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize logs provider", zap.Error(err))
		} else {
			defer func() {
				if err := logsProvider.Shutdown(context.Background()); err != nil {
					log.Error("Error shutting down logs provider", zap.Error(err))
				}
			}()
			bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				Output:     cfg.Log.Output,
				TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			}, logsProvider, cfg.Telemetry.ServiceName)
			if err != nil {
				log.Warn("Failed to create bridged logger", zap.Error(err))
			} else {
				log = bridged
			}
		}
	}

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileMemory:     true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if profiler.IsEnabled() {
			if err := tracerProvider.EnableSpanProfiles(); err != nil {
				log.Warn("Failed to enable span profiles", zap.Error(err))
			}
		}
	}

	// Database tracing and metrics
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		if cfg.Telemetry.DBSlowQueryThresh > 0 {
			dbTracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
		}
		if err := db.DB.Use(telemetry.NewDBTracingPlugin(dbTracingCfg, log)); err != nil {
			log.Warn("Failed to register DB tracing plugin", zap.Error(err))
		}
		if _, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log); err != nil {
			log.Warn("Failed to register DB metrics", zap.Error(err))
		}
	}

	// Business metrics with periodic pipeline gauge collection
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:            meterProvider.Meter("portal-backend"),
		Logger:           log,
		PipelineProvider: telemetry.NewGormPipelineMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	businessMetrics.StartPeriodicCollection(context.Background(), 5*time.Minute)
	defer businessMetrics.Stop()

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	inviteRepo := persistence.NewGormInviteRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	scoreHistoryRepo := persistence.NewGormScoreHistoryRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	flowRepo := persistence.NewGormFlowRepository(db.DB)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db.DB)
	billingEventRepo := persistence.NewGormBillingEventRepository(db.DB)

	// Idempotency store (Redis, with in-memory fallback for development)
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Attachment object storage
	var objectStorage pipelineapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure attachment bucket", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("Using stub object storage; attachments will not be persisted")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	clientService := clientapp.NewClientService(clientRepo)
	inviteService := clientapp.NewInviteService(inviteRepo, clientRepo)
	templateService := contentapp.NewTemplateService(templateRepo)

	dealService := pipelineapp.NewDealService(dealRepo, productRepo, clientRepo)
	scorerService := pipelineapp.NewScorerService(dealRepo, scoreHistoryRepo, log, pipelineapp.ScorerConfig{
		StalenessThreshold: cfg.Pipeline.StalenessThreshold,
		RecalcBudget:       cfg.Pipeline.RecalcBudget,
	})

	attachmentService := pipelineapp.NewAttachmentService(attachmentRepo, dealRepo, objectStorage)
	attachmentCfg := pipelineapp.DefaultAttachmentServiceConfig()
	if cfg.Storage.PresignExpiration > 0 {
		attachmentCfg.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	if cfg.Storage.KeyPrefix != "" {
		attachmentCfg.KeyPrefix = cfg.Storage.KeyPrefix
	}
	attachmentService.SetConfig(attachmentCfg)

	emailSender := email.NewLogSender(cfg.Email, log)
	flowService := automationapp.NewFlowService(flowRepo, enrollmentRepo, templateRepo, clientRepo)
	automationRunner := automationapp.NewRunner(flowRepo, enrollmentRepo, templateRepo, clientRepo, emailSender, log)

	// Stripe billing
	stripeConfig := &infrabilling.StripeConfig{
		SecretKey:       cfg.Stripe.SecretKey,
		WebhookSecret:   cfg.Stripe.WebhookSecret,
		IsTestMode:      cfg.Stripe.IsTestMode,
		DefaultCurrency: cfg.Stripe.DefaultCurrency,
	}
	var billingGateway billingapp.CustomerGateway
	if cfg.Stripe.SecretKey != "" {
		stripeAdapter, err := infrabilling.NewStripeAdapter(stripeConfig, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe adapter", zap.Error(err))
		}
		billingGateway = stripeAdapter
	} else {
		log.Warn("Stripe secret key not configured; billing customer creation is disabled")
	}

	customerService := billingapp.NewCustomerService(clientRepo, billingGateway, log)
	billingEventService := billingapp.NewBillingEventService(billingEventRepo)
	webhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
		Config:      stripeConfig,
		ClientRepo:  clientRepo,
		DealRepo:    dealRepo,
		EventRepo:   billingEventRepo,
		Idempotency: idempotencyStore,
		Scorer:      scorerService,
		Logger:      log,
	})

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Deal transitions trigger an asynchronous score refresh. The handler is
	// wrapped with idempotency so redelivered events do not double-score.
	scoreHandler := pipelineapp.NewDealTransitionScoreHandler(scorerService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(scoreHandler, idempotencyStore, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	dealService.SetEventPublisher(eventBus)
	clientService.SetEventPublisher(eventBus)

	log.Info("Event handlers registered",
		zap.Strings("score_refresh_events", scoreHandler.EventTypes()),
	)

	// Background scheduler: nightly score refresh and automation polling
	if cfg.Scheduler.Enabled {
		jobExecutor := scheduler.NewPortalJobExecutor(scorerService, automationRunner, log)
		jobRepo := scheduler.NewSchedulerJobRepository(db.DB)
		portalScheduler := scheduler.NewPortalScheduler(
			scheduler.PortalSchedulerConfigFrom(cfg.Scheduler), jobExecutor, jobRepo, log,
		)
		if err := portalScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := portalScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Portal scheduler started",
			zap.String("score_cron", cfg.Scheduler.ScoreCronSchedule),
			zap.Duration("automation_interval", cfg.Scheduler.AutomationInterval),
		)
	}

	// JWT authentication
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	if err != nil {
		log.Warn("Redis token blacklist unavailable; token revocation disabled", zap.Error(err))
	} else {
		jwtConfig.TokenBlacklist = tokenBlacklist
		defer func() {
			if err := tokenBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	clientHandler := handler.NewClientHandler(clientService, inviteService)
	templateHandler := handler.NewTemplateHandler(templateService)
	dealHandler := handler.NewDealHandler(dealService)
	scoreHTTPHandler := handler.NewScoreHandler(scorerService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	flowHandler := handler.NewFlowHandler(flowService)
	billingHandler := handler.NewBillingHandler(customerService, billingEventService, webhookService, log)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Close()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes: JWT everywhere except the public paths baked into the config
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Pipeline domain (deals, scoring, attachments)
	pipelineRoutes := router.NewDomainGroup("pipeline", "/pipeline")
	pipelineRoutes.POST("/deals", dealHandler.Create)
	pipelineRoutes.GET("/deals", dealHandler.List)
	pipelineRoutes.GET("/deals/:id", dealHandler.GetByID)
	pipelineRoutes.PUT("/deals/:id", dealHandler.Update)
	pipelineRoutes.DELETE("/deals/:id", dealHandler.Delete)
	pipelineRoutes.POST("/deals/:id/items", dealHandler.AddItem)
	pipelineRoutes.PUT("/deals/:id/items/:itemId", dealHandler.UpdateItem)
	pipelineRoutes.DELETE("/deals/:id/items/:itemId", dealHandler.RemoveItem)
	pipelineRoutes.POST("/deals/:id/send", dealHandler.Send)
	pipelineRoutes.POST("/deals/:id/accept", dealHandler.Accept)
	pipelineRoutes.POST("/deals/:id/decline", dealHandler.Decline)
	pipelineRoutes.POST("/deals/:id/archive", dealHandler.Archive)
	pipelineRoutes.POST("/deals/:id/log-view", dealHandler.LogView)
	pipelineRoutes.POST("/deals/:id/log-call", dealHandler.LogCall)
	pipelineRoutes.GET("/deals/:id/score", scoreHTTPHandler.Latest)
	pipelineRoutes.GET("/deals/:id/score-history", scoreHTTPHandler.History)
	pipelineRoutes.POST("/deals/:id/attachments", attachmentHandler.InitiateUpload)
	pipelineRoutes.GET("/deals/:id/attachments", attachmentHandler.List)
	pipelineRoutes.GET("/attachments/:id/download", attachmentHandler.DownloadURL)
	pipelineRoutes.DELETE("/attachments/:id", attachmentHandler.Delete)
	pipelineRoutes.POST("/scores/recalculate", scoreHTTPHandler.Recalculate)
	pipelineRoutes.POST("/scores/recalculate-all", middleware.RequireStaff(), scoreHTTPHandler.RecalculateAll)
	pipelineRoutes.GET("/summary", dealHandler.Summary)

	// Catalog domain (service products)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.PUT("/products/:id/code", productHandler.UpdateCode)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	// Client domain (clients and portal invites)
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)
	clientRoutes.POST("/:id/start-onboarding", clientHandler.StartOnboarding)
	clientRoutes.POST("/:id/activate", clientHandler.Activate)
	clientRoutes.POST("/:id/churn", clientHandler.Churn)
	clientRoutes.POST("/:id/invites", clientHandler.CreateInvite)
	clientRoutes.GET("/:id/invites", clientHandler.ListInvites)

	inviteRoutes := router.NewDomainGroup("invites", "/invites")
	inviteRoutes.POST("/accept", clientHandler.AcceptInvite)
	inviteRoutes.POST("/:id/resend", clientHandler.ResendInvite)
	inviteRoutes.POST("/:id/revoke", clientHandler.RevokeInvite)

	// Content domain (email templates)
	contentRoutes := router.NewDomainGroup("content", "/content")
	contentRoutes.POST("/templates", templateHandler.Create)
	contentRoutes.GET("/templates", templateHandler.List)
	contentRoutes.GET("/templates/:id", templateHandler.GetByID)
	contentRoutes.PUT("/templates/:id", templateHandler.Update)
	contentRoutes.POST("/templates/:id/approve", templateHandler.Approve)
	contentRoutes.POST("/templates/:id/archive", templateHandler.Archive)
	contentRoutes.DELETE("/templates/:id", templateHandler.Delete)

	// Automation domain (flows and enrollments)
	automationRoutes := router.NewDomainGroup("automation", "/automation")
	automationRoutes.POST("/flows", flowHandler.Create)
	automationRoutes.GET("/flows", flowHandler.List)
	automationRoutes.GET("/flows/:id", flowHandler.GetByID)
	automationRoutes.PUT("/flows/:id", flowHandler.Update)
	automationRoutes.POST("/flows/:id/steps", flowHandler.AddStep)
	automationRoutes.PUT("/flows/:id/steps/:stepId", flowHandler.UpdateStep)
	automationRoutes.DELETE("/flows/:id/steps/:stepId", flowHandler.RemoveStep)
	automationRoutes.POST("/flows/:id/activate", flowHandler.Activate)
	automationRoutes.POST("/flows/:id/pause", flowHandler.Pause)
	automationRoutes.POST("/flows/:id/enroll", flowHandler.Enroll)
	automationRoutes.GET("/flows/:id/enrollments", flowHandler.ListEnrollments)
	automationRoutes.POST("/enrollments/:id/cancel", flowHandler.CancelEnrollment)

	// Billing domain
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/clients/:id/customer", billingHandler.LinkCustomer)
	billingRoutes.GET("/events", billingHandler.ListEvents)

	// Stripe webhooks (public, signature-verified)
	webhookRoutes := router.NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.POST("/stripe", billingHandler.HandleStripeWebhook)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(pipelineRoutes).
		Register(catalogRoutes).
		Register(clientRoutes).
		Register(inviteRoutes).
		Register(contentRoutes).
		Register(automationRoutes).
		Register(billingRoutes).
		Register(webhookRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
