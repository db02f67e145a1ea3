package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/balance"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/catalog"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/deposit"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/expiry"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/notification"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/usecase/order"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/digiflazz"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/notifier"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/pterodactyl"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/rumahotp"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/scheduler"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/tokopay"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/config"
)

// store bundles the persistence ports of the selected driver
type store struct {
	uow           persistence.UnitOfWork
	notifications persistence.NotificationRepository
	markers       persistence.MarkerRepository
	locks         persistence.ResourceLockRepository
	pinger        handler.Pinger
	manager       *database.Manager
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
		Production: cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeadapter.NewRealTimeProvider()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to open store", map[string]any{"error": err.Error(), "driver": cfg.Database.Driver})
		os.Exit(1)
	}

	catalogCache := openCache(ctx, cfg, appLogger, tp)

	// Gateways
	payments := tokopay.NewClient(tokopay.Config{
		BaseURL:    cfg.TokoPay.BaseURL,
		MerchantID: cfg.TokoPay.MerchantID,
		Secret:     cfg.TokoPay.Secret,
		Timeout:    cfg.TokoPay.Timeout,
	}, appLogger)
	digital := digiflazz.NewClient(digiflazz.Config{
		BaseURL:       cfg.Digiflazz.BaseURL,
		Username:      cfg.Digiflazz.Username,
		APIKey:        cfg.Digiflazz.APIKey,
		CallbackURL:   cfg.Digiflazz.CallbackURL,
		WebhookSecret: cfg.Digiflazz.WebhookSecret,
		Timeout:       cfg.Digiflazz.Timeout,
	}, appLogger)
	otp := rumahotp.NewClient(rumahotp.Config{
		BaseURL: cfg.OTP.BaseURL,
		APIKey:  cfg.OTP.APIKey,
		Timeout: cfg.OTP.Timeout,
	}, appLogger)
	panel := pterodactyl.NewClient(pterodactyl.Config{
		BaseURL:     cfg.Pterodactyl.BaseURL,
		APIKey:      cfg.Pterodactyl.APIKey,
		NestID:      cfg.Pterodactyl.NestID,
		EggID:       cfg.Pterodactyl.EggID,
		LocationID:  cfg.Pterodactyl.LocationID,
		DockerImage: cfg.Pterodactyl.DockerImage,
		Timeout:     cfg.Pterodactyl.Timeout,
	}, appLogger, tp)

	// Use cases
	ledger := balance.NewService(st.uow, tp, appLogger, balance.Config{ReferralBonus: cfg.Ledger.ReferralBonus})

	sinks := notifier.Multi{notifier.NewInbox(st.notifications, tp, appLogger)}
	var bot *notifier.Telegram
	if cfg.Telegram.Enabled {
		bot, err = notifier.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, ledger, tp, appLogger)
		if err != nil {
			appLogger.Error("Failed to start Telegram bot", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		sinks = append(sinks, bot)
		bot.Start(ctx)
	}
	dispatcher := notifier.NewDispatcher(sinks, cfg.Notifier.Workers, cfg.Notifier.QueueSize, appLogger)

	catalogService := catalog.NewService(st.uow, catalogCache, digital, tp, appLogger, catalog.Config{
		CatalogTTL:           cfg.Catalog.CatalogTTL,
		PriceListTTL:         cfg.Catalog.PriceListTTL,
		DigitalProfitPercent: cfg.Catalog.DigitalProfitPercent,
		ProviderTimeout:      coreport.Duration(cfg.Catalog.ProviderTimeout),
	})
	depositService := deposit.NewService(st.uow, ledger, payments, dispatcher, tp, appLogger, deposit.Config{
		MinAmount:      cfg.Deposit.MinAmount,
		MaxAmount:      cfg.Deposit.MaxAmount,
		GatewayTimeout: coreport.Duration(cfg.TokoPay.Timeout),
	})
	orderService := order.NewService(order.Dependencies{
		UnitOfWork:   st.uow,
		Ledger:       ledger,
		Catalog:      catalogService,
		Panel:        panel,
		Digital:      digital,
		OTP:          otp,
		Notifier:     dispatcher,
		TimeProvider: tp,
		Logger:       appLogger,
	}, order.Config{
		ProviderTimeout:  coreport.Duration(cfg.Catalog.ProviderTimeout),
		PanelUserDomain:  cfg.Pterodactyl.UserDomain,
		OTPProfitPercent: cfg.Catalog.OTPProfitPercent,
	})
	notificationService := notification.NewService(st.uow, st.notifications)

	if cfg.Database.Driver == config.DriverMemory {
		seedMemory(ctx, cfg, ledger, appLogger)
	}

	// Background jobs
	jobs, err := scheduler.New(appLogger)
	if err != nil {
		appLogger.Error("Failed to create scheduler", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	sweeper := expiry.NewSweeper(st.uow, orderService, st.locks, st.markers, panel, dispatcher, tp, appLogger, expiry.Config{
		PerOrderTimeout: coreport.Duration(cfg.Sweeper.PerOrderTimeout),
		WarningDays:     cfg.Sweeper.WarningDays,
		Concurrency:     cfg.Sweeper.Concurrency,
		LockTTL:         cfg.Sweeper.LockTTL,
		Owner:           instanceID(),
	})
	if err := jobs.Cron("expiry-sweeper", cfg.Sweeper.Schedule, func(ctx context.Context) error {
		_, err := sweeper.Run(ctx)
		return err
	}); err != nil {
		appLogger.Error("Invalid sweeper schedule", map[string]any{"error": err.Error(), "schedule": cfg.Sweeper.Schedule})
		os.Exit(1)
	}
	if st.manager != nil {
		if err := jobs.Every("db-pool", 30*time.Second, st.manager.CheckPool); err != nil {
			appLogger.Error("Failed to schedule pool check", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if cfg.Sweeper.LockCleanup > 0 {
			locks := st.manager.ResourceLockRepository()
			if err := jobs.Every("lock-cleanup", cfg.Sweeper.LockCleanup, func(ctx context.Context) error {
				_, err := locks.CleanupExpiredLocks(ctx)
				return err
			}); err != nil {
				appLogger.Error("Failed to schedule lock cleanup", map[string]any{"error": err.Error()})
				os.Exit(1)
			}
		}
	}
	jobs.Start()

	// HTTP
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp, cfg.Server.AllowedOrigins)
	routes.SetupRoutes(router, routes.Handlers{
		Health:   handler.NewHealthHandler(st.pinger, tp, appLogger),
		User:     handler.NewUserHandler(ledger, orderService, notificationService, appLogger),
		Catalog:  handler.NewCatalogHandler(catalogService, appLogger),
		Order:    handler.NewOrderHandler(orderService, appLogger),
		Deposit:  handler.NewDepositHandler(depositService, appLogger),
		Callback: handler.NewCallbackHandler(orderService, digital, appLogger),
		Admin:    handler.NewAdminHandler(ledger, appLogger),
	}, cfg.Server.AdminKey, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port":   cfg.Server.Port,
			"env":    cfg.Environment,
			"driver": cfg.Database.Driver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}
	if err := jobs.Shutdown(); err != nil {
		appLogger.Warn("Scheduler shutdown failed", map[string]any{"error": err.Error()})
	}
	if bot != nil {
		bot.Stop()
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("Notifications dropped on shutdown", map[string]any{"error": err.Error()})
	}
	if closer, ok := catalogCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if st.manager != nil {
		if err := st.manager.Close(); err != nil {
			appLogger.Error("Failed to close database", map[string]any{"error": err.Error()})
		}
	}

	appLogger.Info("Server exited gracefully", nil)
}

// openStore connects the configured driver and applies migrations
func openStore(ctx context.Context, cfg *config.Config, appLogger coreport.Logger, tp coreport.TimeProvider) (*store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		mem := memory.NewStore(tp)
		appLogger.Warn("Using the in-memory store; data is lost on restart", nil)
		return &store{
			uow:           mem,
			notifications: mem.NotificationRepository(),
			markers:       mem.MarkerRepository(),
			locks:         mem.ResourceLockRepository(),
		}, nil
	}

	manager := database.NewManager(cfg.DatabaseConfig(), appLogger, tp)
	if _, err := manager.Connect(ctx); err != nil {
		return nil, err
	}
	if err := manager.Migrate(ctx, migration.SeedConfig{
		AdminID:       cfg.Seed.AdminID,
		AdminUsername: cfg.Seed.AdminUsername,
		AdminEmail:    cfg.Seed.AdminEmail,
	}); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &store{
		uow:           manager.UnitOfWork(),
		notifications: manager.NotificationRepository(),
		markers:       manager.MarkerRepository(),
		locks:         manager.ResourceLockRepository(),
		pinger:        manager,
		manager:       manager,
	}, nil
}

// openCache prefers Redis and falls back to process memory
func openCache(ctx context.Context, cfg *config.Config, appLogger coreport.Logger, tp coreport.TimeProvider) gateway.Cache {
	if cfg.Redis.URL == "" {
		return cache.NewMemoryCache(tp)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	redisCache, err := cache.NewRedisCache(pingCtx, cfg.Redis.URL, cfg.Redis.Prefix, appLogger)
	if err != nil {
		appLogger.Warn("Redis unavailable, using in-process catalog cache", map[string]any{"error": err.Error()})
		return cache.NewMemoryCache(tp)
	}
	return redisCache
}

// seedMemory registers the configured admin account in a fresh memory store
func seedMemory(ctx context.Context, cfg *config.Config, ledger *balance.Service, appLogger coreport.Logger) {
	if cfg.Seed.AdminID == "" {
		return
	}
	if _, err := ledger.SeedAdmin(ctx, cfg.Seed.AdminID, cfg.Seed.AdminUsername, cfg.Seed.AdminEmail); err != nil {
		appLogger.Warn("Failed to seed admin user", map[string]any{"error": err.Error()})
	}
}

// instanceID names this process in the resource lock table
func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
