package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	eventapp "github.com/wms/backend/internal/application/event"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/application/workflow"
	"github.com/wms/backend/internal/domain/valuation"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/persistence/tenant"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			WMS Backend API
//	@version		1.0
//	@description	Multi-tenant warehouse stock ledger and document workflow API
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/wms/backend
//	@contact.email	support@wms.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry providers before anything that emits spans
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

	// Bridge zap into the OTEL log pipeline when telemetry is enabled
	if cfg.Telemetry.Enabled {
		loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize OTEL logger provider, continuing without log export", zap.Error(err))
		} else {
			defer func() {
				if err := loggerProvider.Shutdown(context.Background()); err != nil {
					log.Error("Error shutting down logger provider", zap.Error(err))
				}
			}()
			bridgeLevel, parseErr := zapcore.ParseLevel(cfg.Log.Level)
			if parseErr != nil {
				bridgeLevel = zapcore.InfoLevel
			}
			otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
				ServiceName:    cfg.Telemetry.ServiceName,
				LoggerProvider: loggerProvider,
				Level:          bridgeLevel,
			})
			log = telemetry.NewBridgedLogger(log.Core(), otelCore)
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Every tenant-owned table gets an automatic tenant_id filter
	tenant.EnableAutoTenantFilter(db.DB, true)

	// Register database tracing and metrics plugins
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:         "postgresql",
		WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing plugin", zap.Error(err))
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.Enabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Outbox publisher saves events inside the same transaction as the documents
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Transaction scope binds repositories and the outbox to one transaction
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)

	// Engine policy: valuation method and stock take variance threshold
	engineCfg := workflow.DefaultConfig()
	engineCfg.DefaultCostMethod = valuation.CostMethod(strings.ToUpper(cfg.Engine.CostMethod))
	engineCfg.VarianceApprovalThreshold = decimal.NewFromFloat(cfg.Engine.VarianceApprovalThreshold)
	log.Info("Stock engine policy loaded",
		zap.String("cost_method", string(engineCfg.DefaultCostMethod)),
		zap.String("variance_approval_threshold", engineCfg.VarianceApprovalThreshold.String()),
	)

	// Initialize application services
	goodsReceiptService := workflow.NewGoodsReceiptService(txScope, engineCfg, log)
	deliveryOrderService := workflow.NewDeliveryOrderService(txScope, engineCfg, log)
	stockTransferService := workflow.NewStockTransferService(txScope, engineCfg, log)
	stockTakeService := workflow.NewStockTakeService(txScope, engineCfg, log)
	reconciliationService := workflow.NewReconciliationService(txScope, engineCfg, log)
	returnService := workflow.NewReturnService(txScope, engineCfg, log)
	levelService := inventoryapp.NewLevelService(txScope, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Idempotency store for event handlers (Redis with in-memory fallback)
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Upstream order confirmation -> delivery order creation
	orderConfirmedHandler := workflow.NewOrderConfirmedHandler(deliveryOrderService, log)
	eventBus.Subscribe(event.NewIdempotentHandler(orderConfirmedHandler, idempotencyStore, log))

	log.Info("Event handlers registered",
		zap.Strings("order_confirmed_events", orderConfirmedHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor drains outbox_events into the event bus
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Periodic inventory gauges (on-hand, reserved, below-minimum counts)
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("wms.business"),
			Logger:        log,
			LevelProvider: telemetry.NewGormLevelMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(
				context.Background(),
				telemetry.NewGormTenantProvider(db.DB),
				5*time.Minute,
			)
			defer businessMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	goodsReceiptHandler := handler.NewGoodsReceiptHandler(goodsReceiptService)
	deliveryOrderHandler := handler.NewDeliveryOrderHandler(deliveryOrderService)
	stockTransferHandler := handler.NewStockTransferHandler(stockTransferService)
	stockTakeHandler := handler.NewStockTakeHandler(stockTakeService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	returnHandler := handler.NewReturnHandler(returnService)
	inventoryHandler := handler.NewInventoryHandler(levelService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing/Metrics - Request telemetry (if enabled)
	// 9. Tenant - Resolve tenant context from X-Tenant-ID
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Request tracing and HTTP metrics
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))

	// Tenant resolution applies to all API routes except system/ops endpoints
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	tenantConfig.SkipPaths = append(tenantConfig.SkipPaths, "/api/v1/system")
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Goods receipts (inbound)
	receiptRoutes := router.NewDomainGroup("receipts", "/receipts")
	receiptRoutes.POST("", goodsReceiptHandler.Create)
	receiptRoutes.GET("", goodsReceiptHandler.List)
	receiptRoutes.GET("/:id", goodsReceiptHandler.Get)
	receiptRoutes.POST("/:id/confirm", goodsReceiptHandler.Confirm)
	receiptRoutes.POST("/:id/complete", goodsReceiptHandler.Complete)
	receiptRoutes.POST("/:id/cancel", goodsReceiptHandler.Cancel)

	// Delivery orders (outbound)
	deliveryRoutes := router.NewDomainGroup("deliveries", "/deliveries")
	deliveryRoutes.POST("", deliveryOrderHandler.Create)
	deliveryRoutes.GET("", deliveryOrderHandler.List)
	deliveryRoutes.GET("/:id", deliveryOrderHandler.Get)
	deliveryRoutes.POST("/:id/reserve", deliveryOrderHandler.Reserve)
	deliveryRoutes.POST("/:id/pick", deliveryOrderHandler.Pick)
	deliveryRoutes.POST("/:id/pack", deliveryOrderHandler.Pack)
	deliveryRoutes.POST("/:id/ship", deliveryOrderHandler.Ship)
	deliveryRoutes.POST("/:id/cancel", deliveryOrderHandler.Cancel)

	// Stock transfers (inter-warehouse)
	transferRoutes := router.NewDomainGroup("transfers", "/transfers")
	transferRoutes.POST("", stockTransferHandler.Create)
	transferRoutes.GET("", stockTransferHandler.List)
	transferRoutes.GET("/:id", stockTransferHandler.Get)
	transferRoutes.POST("/:id/dispatch", stockTransferHandler.Dispatch)
	transferRoutes.POST("/:id/receive", stockTransferHandler.Receive)
	transferRoutes.POST("/:id/cancel", stockTransferHandler.Cancel)

	// Stock takes (cycle counts)
	stockTakeRoutes := router.NewDomainGroup("stock-takes", "/stock-takes")
	stockTakeRoutes.POST("", stockTakeHandler.Create)
	stockTakeRoutes.GET("", stockTakeHandler.List)
	stockTakeRoutes.GET("/:id", stockTakeHandler.Get)
	stockTakeRoutes.POST("/:id/start", stockTakeHandler.Start)
	stockTakeRoutes.POST("/:id/count", stockTakeHandler.RecordCount)
	stockTakeRoutes.POST("/:id/approve", stockTakeHandler.Approve)
	stockTakeRoutes.POST("/:id/complete", stockTakeHandler.Complete)
	stockTakeRoutes.POST("/:id/cancel", stockTakeHandler.Cancel)

	// Reconciliations (full physical inventory)
	reconciliationRoutes := router.NewDomainGroup("reconciliations", "/reconciliations")
	reconciliationRoutes.POST("", reconciliationHandler.Create)
	reconciliationRoutes.GET("", reconciliationHandler.List)
	reconciliationRoutes.GET("/:id", reconciliationHandler.Get)
	reconciliationRoutes.POST("/:id/start", reconciliationHandler.StartCounting)
	reconciliationRoutes.POST("/:id/count", reconciliationHandler.RecordCount)
	reconciliationRoutes.POST("/:id/review", reconciliationHandler.Review)
	reconciliationRoutes.POST("/:id/close", reconciliationHandler.Close)
	reconciliationRoutes.POST("/:id/cancel", reconciliationHandler.Cancel)

	// Return authorizations (RMA)
	returnRoutes := router.NewDomainGroup("returns", "/returns")
	returnRoutes.POST("", returnHandler.Request)
	returnRoutes.GET("", returnHandler.List)
	returnRoutes.GET("/:id", returnHandler.Get)
	returnRoutes.POST("/:id/approve", returnHandler.Approve)
	returnRoutes.POST("/:id/reject", returnHandler.Reject)
	returnRoutes.POST("/:id/receive", returnHandler.Receive)
	returnRoutes.POST("/:id/cancel", returnHandler.Cancel)

	// Inventory queries (levels, move history, valuation)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/levels", inventoryHandler.ListLevels)
	inventoryRoutes.GET("/levels/lookup", inventoryHandler.GetLevel)
	inventoryRoutes.PUT("/levels/minimum", inventoryHandler.SetMinimum)
	inventoryRoutes.GET("/products/:product_id/summary", inventoryHandler.ProductSummary)
	inventoryRoutes.GET("/moves", inventoryHandler.MoveHistory)
	inventoryRoutes.GET("/moves/:document_type/:document_id", inventoryHandler.DocumentMoves)
	inventoryRoutes.GET("/valuation", inventoryHandler.Valuation)

	// System/ops routes (outbox administration, info, ping)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	// Register all domain groups
	r.Register(receiptRoutes).
		Register(deliveryRoutes).
		Register(transferRoutes).
		Register(stockTakeRoutes).
		Register(reconciliationRoutes).
		Register(returnRoutes).
		Register(inventoryRoutes).
		Register(systemRoutes)

	// Setup routes
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

	// Start server in goroutine
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
