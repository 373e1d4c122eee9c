package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/auth"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/carrier"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/config"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/crud"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	handler "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/handler/http"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository/postgres"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/service"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/migrations"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/health"
	pkgkafka "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/kafka"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/tracing"
)

// App wires together all dependencies and runs the shop API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	cache          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "shop-api",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "shop-api")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Initialize Redis. Cart caching degrades to DB reads if Redis is down,
	// so a failed connection is logged, not fatal.
	cache, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, cart caching disabled", slog.String("error", err.Error()))
		cache = nil
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Parse JWT expiry durations.
	accessExpiry, err := time.ParseDuration(cfg.JWTAccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse JWT access expiry %q: %w", cfg.JWTAccessExpiry, err)
	}
	refreshExpiry, err := time.ParseDuration(cfg.JWTRefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("parse JWT refresh expiry %q: %w", cfg.JWTRefreshExpiry, err)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, accessExpiry, refreshExpiry)
	store := storage.NewMemoryStorage(cfg.StorageBaseURL)
	rewriter := media.NewRewriter(store, logger)
	eventProducer := event.NewProducer(producer, logger)
	carrierClient := carrier.NewClient(cfg.Carrier, logger)

	userRepo := postgres.NewUserRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	mediaRepo := postgres.NewMediaRepository(pool)
	returnRepo := postgres.NewReturnRequestRepository(pool)
	colorRepo := postgres.NewColorRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	officeRepo := postgres.NewShopOfficeRepository(pool)
	sizeProfileRepo := postgres.NewSizeProfileRepository(pool)

	authService := service.NewAuthService(userRepo, jwtManager, eventProducer, rewriter, logger)
	userService := service.NewUserService(userRepo, store, rewriter, logger)
	addressService := service.NewAddressService(addressRepo, logger)
	productService := service.NewProductService(productRepo, mediaRepo, store, rewriter, eventProducer, logger)
	cartService := service.NewCartService(cartRepo, productRepo, cache, rewriter, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, addressRepo, voucherRepo, cartService, eventProducer, logger)
	voucherService := service.NewVoucherService(voucherRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, mediaRepo, rewriter, logger)
	shipmentService := service.NewShipmentService(shipmentRepo, orderRepo, officeRepo, carrierClient, eventProducer, logger)
	returnService := service.NewReturnRequestService(returnRepo, orderRepo, eventProducer, logger)
	mediaService := service.NewMediaService(mediaRepo, store, rewriter, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if cache != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return cache.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(handler.Services{
		Auth:         authService,
		Users:        userService,
		Addresses:    addressService,
		Products:     productService,
		Carts:        cartService,
		Orders:       orderService,
		Vouchers:     voucherService,
		Reviews:      reviewService,
		Shipments:    shipmentService,
		Returns:      returnService,
		Media:        mediaService,
		Colors:       crud.NewService(colorRepo, "color", logger),
		Categories:   crud.NewService(categoryRepo, "category", logger),
		ShopOffices:  crud.NewService(officeRepo, "shop office", logger),
		SizeProfiles: crud.NewService(sizeProfileRepo, "size profile", logger),
		Carrier:      carrierClient,
	}, jwtManager.Validator(), healthHandler, logger, cfg.PprofAllowedCIDRs)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		cache:          cache,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
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

// Shutdown gracefully stops all components in order: the HTTP server drains
// in-flight requests first, then the tracer flushes their spans, then the
// producer, cache, and pool close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
