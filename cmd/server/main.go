package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/momtazchem/backend/internal/application/catalog"
	chatapp "github.com/momtazchem/backend/internal/application/chat"
	crmapp "github.com/momtazchem/backend/internal/application/crm"
	deliveryapp "github.com/momtazchem/backend/internal/application/delivery"
	identityapp "github.com/momtazchem/backend/internal/application/identity"
	orderapp "github.com/momtazchem/backend/internal/application/order"
	walletapp "github.com/momtazchem/backend/internal/application/wallet"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/auth"
	"github.com/momtazchem/backend/internal/infrastructure/cache"
	"github.com/momtazchem/backend/internal/infrastructure/config"
	"github.com/momtazchem/backend/internal/infrastructure/event"
	"github.com/momtazchem/backend/internal/infrastructure/logger"
	"github.com/momtazchem/backend/internal/infrastructure/payment"
	"github.com/momtazchem/backend/internal/infrastructure/persistence"
	"github.com/momtazchem/backend/internal/infrastructure/scheduler"
	"github.com/momtazchem/backend/internal/infrastructure/storage"
	"github.com/momtazchem/backend/internal/infrastructure/telemetry"
	"github.com/momtazchem/backend/internal/interfaces/http/handler"
	"github.com/momtazchem/backend/internal/interfaces/http/i18n"
	"github.com/momtazchem/backend/internal/interfaces/http/middleware"
	"github.com/momtazchem/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	walletTxRepo := persistence.NewGormWalletTransactionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	shopProductRepo := persistence.NewGormShopProductRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	conversationRepo := persistence.NewGormConversationRepository(db.DB)
	verificationRepo := persistence.NewGormVerificationRepository(db.DB)
	dropPointRepo := persistence.NewGormDropPointRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// The idempotency guard for gateway callbacks prefers Redis so replays
	// are caught across instances; a single-node deployment can run without it.
	var idempotency orderapp.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotency = redisStore
	}

	clock := shared.SystemClock{}
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	numbers := orderapp.NewNumberService(clock, log)
	checkout := orderapp.NewCheckoutService(scope, numbers, clock, log)
	checkout.SetAutoApprovalDelay(cfg.Workflow.AutoApprovalDelay)
	checkout.SetGracePeriodDays(cfg.Workflow.GracePeriodDays)
	checkout.SetGraceReminder(orderapp.NewLoggingGraceReminder(log))
	statuses := orderapp.NewStatusSyncService(scope, clock, log)
	callbacks := orderapp.NewPaymentCallbackService(scope, numbers, idempotency, clock, log)
	approvals := orderapp.NewAutoApprovalService(scope, clock, log)
	wallets := walletapp.NewWalletService(walletTxRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, identityapp.DefaultAuthServiceConfig(), log)
	products := catalogapp.NewProductService(productRepo, shopProductRepo, log)
	productSync := catalogapp.NewSyncService(productRepo, shopProductRepo, clock, log)
	contacts := crmapp.NewContactService(contactRepo, log)
	chats := chatapp.NewChatService(conversationRepo, clock, log)
	verifications := deliveryapp.NewVerificationService(
		orderRepo, verificationRepo, dropPointRepo, statuses,
		cfg.Delivery.RadiusMeters, clock, log)

	configurePaymentGateway(cfg, checkout, log)
	objectStore := configureObjectStorage(cfg, log)

	// Event bus: CRM reacts to delivered orders
	bus := event.NewInMemoryEventBus(log)
	deliveredHandler := crmapp.NewOrderDeliveredHandler(orderRepo, contacts, log)
	bus.Subscribe(deliveredHandler, deliveredHandler.EventTypes()...)
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	statuses.SetEventBus(bus)

	// Telemetry
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	metrics, err := telemetry.NewWorkflowMetrics(meterProvider.Meter("momtaz-backend"), log)
	if err != nil {
		log.Fatal("Failed to create workflow metrics", zap.Error(err))
	}

	// Background workflow: auto-approval sweeps and drift monitoring
	workflowScheduler := scheduler.NewWorkflowScheduler(cfg.Workflow, approvals, statuses, metrics, log)
	if err := workflowScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start workflow scheduler", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromConfig(cfg.HTTP)))

	handler.NewSystemHandler(db, cfg.App.Name).RegisterRoutes(engine)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthWithConfig(jwtConfig))

	r := router.NewRouter(engine)
	r.Register(handler.NewAuthHandler(authService))
	r.Register(handler.NewOrderHandler(checkout, statuses, i18n.New(), metrics))
	r.Register(handler.NewPaymentCallbackHandler(callbacks, log))
	r.Register(handler.NewWalletHandler(wallets))
	r.Register(handler.NewDeliveryHandler(verifications, metrics))
	r.Register(handler.NewProductHandler(products, productSync))
	r.Register(handler.NewContactHandler(contacts))
	r.Register(handler.NewChatHandler(chats))
	r.Register(handler.NewUploadHandler(objectStore))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := workflowScheduler.Stop(ctx); err != nil {
		log.Error("Workflow scheduler shutdown error", zap.Error(err))
	}
	if err := bus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown error", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
}

// configurePaymentGateway wires the bank gateway initiator into checkout. A
// misconfigured gateway only disables bank-gateway payments; wallet and
// grace-period orders keep working, so the process does not exit.
func configurePaymentGateway(cfg *config.Config, checkout *orderapp.CheckoutService, log *zap.Logger) {
	if !cfg.Gateway.Enabled {
		return
	}
	gateway, err := payment.NewFIBAdapter(cfg.Gateway, log)
	if err != nil {
		log.Error("Payment gateway disabled, configuration invalid", zap.Error(err))
		return
	}
	checkout.SetPaymentInitiator(payment.NewCheckoutInitiator(gateway, cfg.Gateway, log))
	log.Info("Payment gateway enabled", zap.String("base_url", cfg.Gateway.BaseURL))
}

// configureObjectStorage returns the S3 store when configured, falling back
// to the local stub so upload endpoints degrade instead of taking the
// process down.
func configureObjectStorage(cfg *config.Config, log *zap.Logger) storage.ObjectStorage {
	if !cfg.Storage.Enabled {
		return storage.NewStubObjectStorage()
	}
	s3Store, err := storage.NewS3ObjectStorage(cfg.Storage)
	if err != nil {
		log.Error("Object storage disabled, configuration invalid", zap.Error(err))
		return storage.NewStubObjectStorage()
	}
	log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	return s3Store
}
