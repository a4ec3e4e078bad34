package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	adminauth "github.com/thiago536/v0-gabycommerce-structure/internal/admin/auth"
	adminhttp "github.com/thiago536/v0-gabycommerce-structure/internal/admin/handler/http"
	adminpg "github.com/thiago536/v0-gabycommerce-structure/internal/admin/repository/postgres"
	adminsvc "github.com/thiago536/v0-gabycommerce-structure/internal/admin/service"
	cartevent "github.com/thiago536/v0-gabycommerce-structure/internal/cart/event"
	carthttp "github.com/thiago536/v0-gabycommerce-structure/internal/cart/handler/http"
	cartpg "github.com/thiago536/v0-gabycommerce-structure/internal/cart/repository/postgres"
	cartredis "github.com/thiago536/v0-gabycommerce-structure/internal/cart/repository/redis"
	cartsvc "github.com/thiago536/v0-gabycommerce-structure/internal/cart/service"
	cartsync "github.com/thiago536/v0-gabycommerce-structure/internal/cart/sync"
	cataloghttp "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/handler/http"
	catalogpg "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/repository/postgres"
	catalogsvc "github.com/thiago536/v0-gabycommerce-structure/internal/catalog/service"
	checkoutevent "github.com/thiago536/v0-gabycommerce-structure/internal/checkout/event"
	checkouthttp "github.com/thiago536/v0-gabycommerce-structure/internal/checkout/handler/http"
	checkoutsvc "github.com/thiago536/v0-gabycommerce-structure/internal/checkout/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/config"
	couponpg "github.com/thiago536/v0-gabycommerce-structure/internal/coupon/repository/postgres"
	couponsvc "github.com/thiago536/v0-gabycommerce-structure/internal/coupon/service"
	favevent "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/event"
	favhttp "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/handler/http"
	favpg "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/repository/postgres"
	favredis "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/repository/redis"
	favsvc "github.com/thiago536/v0-gabycommerce-structure/internal/favorites/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/notify/whatsapp"
	orderevent "github.com/thiago536/v0-gabycommerce-structure/internal/order/event"
	orderhttp "github.com/thiago536/v0-gabycommerce-structure/internal/order/handler/http"
	orderpg "github.com/thiago536/v0-gabycommerce-structure/internal/order/repository/postgres"
	ordersvc "github.com/thiago536/v0-gabycommerce-structure/internal/order/service"
	profilehttp "github.com/thiago536/v0-gabycommerce-structure/internal/profile/handler/http"
	profilepg "github.com/thiago536/v0-gabycommerce-structure/internal/profile/repository/postgres"
	profilesvc "github.com/thiago536/v0-gabycommerce-structure/internal/profile/service"
	"github.com/thiago536/v0-gabycommerce-structure/migrations"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/database"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/health"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

// App wires together all dependencies and runs the storefront backend.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	syncWorker *cartsync.Worker
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// PostgreSQL pool (mirrors, catalog, orders, coupons, profiles, admin).
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPassword
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSLMode

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis client (local store documents).
	redisCfg := database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Kafka producer for domain events.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	storeTTL := time.Duration(cfg.StoreTTL) * time.Hour

	// Catalog.
	productRepo := catalogpg.NewProductRepository(pool)
	categoryRepo := catalogpg.NewCategoryRepository(pool)
	catalogService := catalogsvc.NewCatalogService(productRepo, categoryRepo, logger)

	// Cart: local Redis document, async Postgres mirror.
	cartStore := cartredis.NewCartStore(rdb, storeTTL)
	cartMirror := cartpg.NewCartMirror(pool)
	journal := cartsync.NewJournal()
	syncWorker := cartsync.NewWorker(cartMirror, journal, logger, cfg.SyncQueueSize, 5*time.Second)
	syncWorker.Start()
	cartProducer := cartevent.NewProducer(producer, logger)
	cartService := cartsvc.NewCartService(cartStore, syncWorker, journal, cartMirror, catalogService, cartProducer, logger)

	// Favorites: local Redis document, synchronous best-effort mirror.
	favStore := favredis.NewFavoritesStore(rdb, storeTTL)
	favMirror := favpg.NewFavoritesMirror(pool)
	favProducer := favevent.NewProducer(producer, logger)
	favService := favsvc.NewFavoritesService(favStore, favMirror, catalogService, favProducer, logger)

	// Coupons.
	couponRepo := couponpg.NewCouponRepository(pool)
	couponService := couponsvc.NewCouponService(couponRepo, logger)

	// Orders and checkout.
	links := whatsapp.NewLinkBuilder(cfg.WhatsAppNumber, cfg.StoreName)
	orderRepo := orderpg.NewOrderRepository(pool)
	orderProducer := orderevent.NewProducer(producer, logger)
	orderService := ordersvc.NewOrderService(orderRepo, links, orderProducer, logger)

	checkoutProducer := checkoutevent.NewProducer(producer, logger)
	checkoutService := checkoutsvc.NewCheckoutService(cartService, couponService, orderRepo, links, checkoutProducer, logger)

	// Profiles.
	profileRepo := profilepg.NewProfileRepository(pool)
	profileService := profilesvc.NewProfileService(profileRepo, logger)

	// Admin auth.
	tokens := adminauth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	authService := adminsvc.NewAuthService(adminpg.NewAdminRepository(pool), tokens, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	// Kafka only carries best-effort domain events; losing it degrades.
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := newRouter(routerDeps{
		cfg:          cfg,
		logger:       logger,
		health:       healthHandler,
		cart:         carthttp.NewCartHandler(cartService, logger),
		favorites:    favhttp.NewFavoritesHandler(favService, logger),
		catalog:      cataloghttp.NewCatalogHandler(catalogService, logger),
		checkout:     checkouthttp.NewCheckoutHandler(checkoutService, logger),
		orders:       orderhttp.NewOrderHandler(orderService, logger),
		profile:      profilehttp.NewProfileHandler(profileService, logger),
		adminAuth:    adminhttp.NewAuthHandler(authService, logger),
		requireAdmin: adminhttp.RequireAdmin(authService, logger),
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		rdb:        rdb,
		producer:   producer,
		syncWorker: syncWorker,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: HTTP first so no new intents
// get enqueued, then the sync worker drains, then the connections close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.syncWorker.Close()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
